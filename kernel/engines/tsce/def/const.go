package def

import "time"

// 引擎常量配置
const (
	// 引擎名
	EngineName = "tsce"
	// 并行执行的worker数
	NumWorkers = 4
	// input directive允许的最大输入组数
	MaxInputSize = 5
	// 最低用户手续费，也是被拒绝交易的扣费
	MinUserFee = 10
	// 默认key currency名
	DefaultKeyCurrency = "KEYC"
)

// contract manager缓存
const (
	ContractCacheSize  = 1024
	ContractMissExpire = 30 * time.Second
	ContractMissGcTime = 60 * time.Second
)

// Ledger query types
const (
	QueryWorld         = "world.get"
	QueryChain         = "chain.get"
	QueryContract      = "contract.get"
	QueryUserInfo      = "user.info.get"
	QueryUserCert      = "user.cert.get"
	QueryUserScope     = "user.scope.get"
	QueryContractScope = "contract.scope.get"
)

// 变量作用域
const (
	ScopeUser        = "user"
	ScopeAuthor      = "author"
	ScopeReceiver    = "receiver"
	ScopeContract    = "contract"
	ScopeWorld       = "world"
	ScopeChain       = "chain"
	ScopeTransaction = "transaction"
	ScopeBlock       = "block"
)

// cid由四段组成: kind::author::chain::world
const CidSeparator = "::"
