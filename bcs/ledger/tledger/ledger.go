// Package tledger keeps the world, chain, contracts, identities and scoped
// variables in a kvdb store and answers the engine's read queries.
package tledger

import (
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/snappy"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/tethys/tethyscore/kernel/engines/tsce/common"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/lib/logs"
	"github.com/tethys/tethyscore/lib/storage/kvdb"

	// kv engines
	_ "github.com/tethys/tethyscore/lib/storage/kvdb/badger"
	_ "github.com/tethys/tethyscore/lib/storage/kvdb/leveldb"
)

// Row is one record, column name to value.
type Row map[string]string

type where struct {
	Uid   string `mapstructure:"uid"`
	Cid   string `mapstructure:"cid"`
	Name  string `mapstructure:"name"`
	Type  string `mapstructure:"type"`
	Pid   string `mapstructure:"pid"`
	NoTag bool   `mapstructure:"notag"`
}

type Ledger struct {
	log logs.Logger
	db  kvdb.Database
}

// OpenLedger opens the store described by ctx.
func OpenLedger(ctx *LedgerCtx) (*Ledger, error) {
	if ctx == nil || ctx.LedgerCfg == nil {
		return nil, common.ErrParameter.More("ledger ctx is nil")
	}
	if ctx.XLog == nil {
		ctx.XLog = logs.NewNopLogger()
	}
	lcfg := ctx.LedgerCfg
	cacheMB, err := lcfg.MemCacheMB()
	if err != nil {
		return nil, common.ErrParameter.More("%v", err)
	}

	dbPath := lcfg.DataPath
	if ctx.EnvCfg != nil {
		dbPath = ctx.EnvCfg.GenDataAbsPath(lcfg.DataPath)
	}
	db, err := kvdb.CreateKVInstance(&kvdb.KVParameter{
		DBPath:                dbPath,
		KVEngineType:          lcfg.KVEngineType,
		StorageType:           lcfg.StorageType,
		MemCacheSize:          cacheMB,
		FileHandlersCacheSize: lcfg.FileHandlersCacheSize,
	})
	if err != nil {
		ctx.XLog.Error("open ledger db failed", "path", dbPath, "engine", lcfg.KVEngineType, "err", err)
		return nil, errors.Wrap(err, "open ledger")
	}

	ctx.XLog.Info("ledger opened", "path", dbPath, "engine", lcfg.KVEngineType, "storage", lcfg.StorageType)
	return NewLedger(db, ctx.XLog), nil
}

// NewLedger wraps an opened database.
func NewLedger(db kvdb.Database, log logs.Logger) *Ledger {
	if log == nil {
		log = logs.NewNopLogger()
	}
	return &Ledger{log: log, db: db}
}

func (t *Ledger) Close() {
	t.db.Close()
}

// Query implements datamgr.Ledger. Unknown types and missing records yield
// an empty result, only storage failures are errors.
func (t *Ledger) Query(q *datamgr.Query) (*datamgr.Result, error) {
	if q == nil {
		return nil, common.ErrParameter.More("nil query")
	}
	w := where{}
	if err := mapstructure.WeakDecode(q.Where, &w); err != nil {
		t.log.Warn("decode query filter failed", "type", q.Type, "err", err)
		return emptyResult(), nil
	}

	var res *datamgr.Result
	var err error
	switch q.Type {
	case def.QueryWorld:
		res, err = t.single(worldColumns, []byte(WorldKey))
	case def.QueryChain:
		res, err = t.single(chainColumns, []byte(ChainKey))
	case def.QueryContract:
		res, err = t.contract(w.Cid)
	case def.QueryUserInfo:
		if w.Uid == "" {
			return emptyResult(), nil
		}
		res, err = t.single(userInfoColumns, tableKey(UserInfoTablePrefix, w.Uid))
	case def.QueryUserCert:
		if w.Uid == "" {
			return emptyResult(), nil
		}
		res, err = t.scan(userCertColumns, tableKey(UserCertTablePrefix, w.Uid, ""), nil)
	case def.QueryUserScope:
		res, err = t.userScope(w)
	case def.QueryContractScope:
		res, err = t.contractScope(w)
	default:
		return emptyResult(), nil
	}
	if err != nil {
		return nil, common.ErrLedgerQuery.More("type:%s,err:%v", q.Type, err)
	}
	return res, nil
}

func (t *Ledger) single(columns []string, key []byte) (*datamgr.Result, error) {
	row, err := t.getRow(key)
	if err != nil || row == nil {
		return emptyResult(), err
	}
	res := emptyResult()
	res.Name = columns
	res.Data = append(res.Data, cells(columns, row))
	return res, nil
}

func (t *Ledger) contract(cid string) (*datamgr.Result, error) {
	if cid == "" {
		return emptyResult(), nil
	}
	data, err := t.db.Get(tableKey(ContractTablePrefix, cid))
	if err == kvdb.ErrNotFound {
		return emptyResult(), nil
	}
	if err != nil {
		return nil, err
	}
	doc, err := snappy.Decode(nil, data)
	if err != nil {
		t.log.Warn("decompress contract failed", "cid", cid, "err", err)
		return emptyResult(), nil
	}
	res := emptyResult()
	res.Name = contractColumns
	res.Data = append(res.Data, []interface{}{string(doc)})
	return res, nil
}

func (t *Ledger) userScope(w where) (*datamgr.Result, error) {
	if w.Uid == "" {
		return emptyResult(), nil
	}
	prefix := tableKey(UserScopeTablePrefix, w.Uid, "")
	if w.Name != "" && w.Name != datamgr.AllNames {
		prefix = tableKey(UserScopeTablePrefix, w.Uid, w.Name, "")
	}
	return t.scan(userScopeColumns, prefix, func(row Row) bool {
		if w.Type != "" && !strings.EqualFold(row["var_type"], w.Type) {
			return false
		}
		if w.Pid != "" && row["pid"] != w.Pid {
			return false
		}
		return !w.NoTag || row["tag"] == ""
	})
}

// contract scope rows are owned by a cid, the data manager sends it as uid
func (t *Ledger) contractScope(w where) (*datamgr.Result, error) {
	cid := w.Cid
	if cid == "" {
		cid = w.Uid
	}
	if cid == "" {
		return emptyResult(), nil
	}
	prefix := tableKey(ContractScopeTablePrefix, cid, "")
	if w.Name != "" && w.Name != datamgr.AllNames {
		return t.single(contractScopeColumns, tableKey(ContractScopeTablePrefix, cid, w.Name))
	}
	return t.scan(contractScopeColumns, prefix, func(row Row) bool {
		return w.Pid == "" || row["pid"] == w.Pid
	})
}

func (t *Ledger) scan(columns []string, prefix []byte, keep func(Row) bool) (*datamgr.Result, error) {
	it := t.db.NewIteratorWithPrefix(prefix)
	defer it.Release()

	res := emptyResult()
	res.Name = columns
	for it.Next() {
		row, err := decodeRow(it.Value())
		if err != nil {
			t.log.Warn("decode ledger row failed", "key", string(it.Key()), "err", err)
			continue
		}
		if keep == nil || keep(row) {
			res.Data = append(res.Data, cells(columns, row))
		}
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return res, nil
}

func (t *Ledger) getRow(key []byte) (Row, error) {
	data, err := t.db.Get(key)
	if err == kvdb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row, err := decodeRow(data)
	if err != nil {
		t.log.Warn("decode ledger row failed", "key", string(key), "err", err)
		return nil, nil
	}
	return row, nil
}

func emptyResult() *datamgr.Result {
	return &datamgr.Result{Name: []string{}, Data: [][]interface{}{}}
}

func cells(columns []string, row Row) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		out[i] = row[c]
	}
	return out
}

func encodeRow(row Row) ([]byte, error) {
	return cbor.Marshal(row)
}

func decodeRow(data []byte) (Row, error) {
	row := Row{}
	if err := cbor.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}
