package tledger

// KV prefix of each table, keys are prefix + id parts joined by "/".
const (
	WorldKey                 = "W"
	ChainKey                 = "H"
	ContractTablePrefix      = "C/"
	UserInfoTablePrefix      = "U/"
	UserCertTablePrefix      = "UC/"
	UserScopeTablePrefix     = "US/"
	ContractScopeTablePrefix = "CS/"
)

// column order of every query answer
var (
	worldColumns = []string{"world_id", "created_time", "creator_id", "creator_pk", "authority_id", "authority_pk",
		"keyc_name", "keyc_initial_amount", "allow_mining", "mining_rule", "allow_anonymous_user", "join_fee"}
	chainColumns = []string{"chain_id", "created_time", "creator_id", "creator_pk", "allow_custom_contract",
		"allow_oracle", "allow_tag", "allow_heavy_contract"}
	userInfoColumns = []string{"register_day", "register_code", "gender", "isc_type", "isc_code", "location",
		"age_limit"}
	userCertColumns      = []string{"uid", "sn", "after", "before", "cert"}
	userScopeColumns     = []string{"var_name", "var_value", "var_type", "var_owner", "up_time", "up_block", "tag", "pid"}
	contractScopeColumns = []string{"contract_id", "var_name", "var_value", "var_type", "var_info", "up_time",
		"up_block", "pid"}
	contractColumns = []string{"contract"}
)

func tableKey(prefix string, parts ...string) []byte {
	key := prefix
	for i, p := range parts {
		if i > 0 {
			key += "/"
		}
		key += p
	}
	return []byte(key)
}
