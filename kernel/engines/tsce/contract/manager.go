// Package contract loads contract documents from the ledger by cid.
package contract

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/tethys/tethyscore/kernel/engines/tsce/common"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/logs"
)

const contractColumn = "contract"

// Manager caches parsed contracts across blocks and remembers missing or
// broken cids for a while. Safe for concurrent use.
type Manager struct {
	log     logs.Logger
	ledger  datamgr.Ledger
	found   *lru.Cache
	missing *cache.Cache
	group   singleflight.Group
}

func NewManager(ledger datamgr.Ledger, size int, missExpire time.Duration, log logs.Logger) (*Manager, error) {
	if ledger == nil {
		return nil, common.ErrLedgerNotSet
	}
	if size <= 0 {
		size = def.ContractCacheSize
	}
	if missExpire <= 0 {
		missExpire = def.ContractMissExpire
	}
	if log == nil {
		log = logs.NewNopLogger()
	}

	found, err := lru.New(size)
	if err != nil {
		return nil, common.ErrInternal.More("new contract cache: %v", err)
	}
	return &Manager{
		log:     log,
		ledger:  ledger,
		found:   found,
		missing: cache.New(missExpire, def.ContractMissGcTime),
	}, nil
}

// GetContract returns the parsed contract of cid. ErrContractNotFound and
// ErrContractInvalid are remembered until they expire; ledger failures are
// returned as ErrLedgerQuery and retried on the next call.
func (t *Manager) GetContract(cid string) (*document.Contract, error) {
	if cid == "" {
		return nil, common.ErrParameter.More("empty cid")
	}
	if v, ok := t.found.Get(cid); ok {
		return v.(*document.Contract), nil
	}
	if v, ok := t.missing.Get(cid); ok {
		return nil, v.(*common.Error)
	}

	v, err, _ := t.group.Do(cid, func() (interface{}, error) {
		return t.load(cid)
	})
	if err != nil {
		return nil, err
	}
	return v.(*document.Contract), nil
}

// Purge drops both caches, used after contracts were rewritten in the ledger.
func (t *Manager) Purge() {
	t.found.Purge()
	t.missing.Flush()
}

func (t *Manager) load(cid string) (*document.Contract, error) {
	res, err := t.ledger.Query(datamgr.NewQuery(def.QueryContract, map[string]interface{}{"cid": cid}))
	if err != nil {
		t.log.Warn("query contract failed", "cid", cid, "err", err)
		return nil, common.ErrLedgerQuery.More("cid:%s,err:%v", cid, err)
	}

	doc, ok := contractText(res)
	if !ok {
		t.log.Info("contract not found", "cid", cid)
		return nil, t.remember(cid, common.ErrContractNotFound.More("cid:%s", cid))
	}
	c, err := document.ParseContract(doc)
	if err != nil {
		t.log.Warn("parse contract failed", "cid", cid, "err", err)
		return nil, t.remember(cid, common.ErrContractInvalid.More("cid:%s,err:%v", cid, err))
	}

	t.found.Add(cid, c)
	return c, nil
}

func (t *Manager) remember(cid string, err *common.Error) *common.Error {
	t.missing.SetDefault(cid, err)
	return err
}

func contractText(res *datamgr.Result) (string, bool) {
	if res == nil {
		return "", false
	}
	col := -1
	for i, name := range res.Name {
		if name == contractColumn {
			col = i
			break
		}
	}
	if col < 0 || len(res.Data) == 0 || len(res.Data[0]) <= col {
		return "", false
	}
	doc, ok := res.Data[0][col].(string)
	return doc, ok && doc != ""
}
