package tledger

import (
	"github.com/golang/snappy"

	"github.com/tethys/tethyscore/kernel/engines/tsce/common"
	"github.com/tethys/tethyscore/lib/storage/kvdb"
)

// Putter is satisfied by both kvdb.Database and kvdb.Batch.
type Putter interface {
	Put(key []byte, value []byte) error
}

// Writer stores ledger records. Rows are keyed by the id columns of their
// table, writing an existing key replaces the record.
type Writer struct {
	p Putter
}

func NewWriter(p Putter) *Writer {
	return &Writer{p: p}
}

// Writer writes straight into the store.
func (t *Ledger) Writer() *Writer {
	return NewWriter(t.db)
}

func (t *Ledger) NewBatch() kvdb.Batch {
	return t.db.NewBatch()
}

func (w *Writer) PutWorld(row Row) error {
	if row["world_id"] == "" {
		return common.ErrParameter.More("world_id is empty")
	}
	return w.putRow([]byte(WorldKey), row)
}

func (w *Writer) PutChain(row Row) error {
	if row["chain_id"] == "" {
		return common.ErrParameter.More("chain_id is empty")
	}
	return w.putRow([]byte(ChainKey), row)
}

// PutContract stores the contract document snappy compressed.
func (w *Writer) PutContract(cid, doc string) error {
	if cid == "" || doc == "" {
		return common.ErrParameter.More("cid or contract is empty")
	}
	return w.p.Put(tableKey(ContractTablePrefix, cid), snappy.Encode(nil, []byte(doc)))
}

func (w *Writer) PutUserInfo(uid string, row Row) error {
	if uid == "" {
		return common.ErrParameter.More("uid is empty")
	}
	return w.putRow(tableKey(UserInfoTablePrefix, uid), row)
}

func (w *Writer) PutUserCert(uid string, row Row) error {
	if uid == "" || row["sn"] == "" {
		return common.ErrParameter.More("uid or sn is empty")
	}
	row = copyRow(row)
	row["uid"] = uid
	return w.putRow(tableKey(UserCertTablePrefix, uid, row["sn"]), row)
}

// PutUserScope keys the row by variable name and pid, so a user may hold
// several records of one name.
func (w *Writer) PutUserScope(uid string, row Row) error {
	if uid == "" || row["var_name"] == "" {
		return common.ErrParameter.More("uid or var_name is empty")
	}
	return w.putRow(tableKey(UserScopeTablePrefix, uid, row["var_name"], row["pid"]), row)
}

func (w *Writer) PutContractScope(cid string, row Row) error {
	if cid == "" || row["var_name"] == "" {
		return common.ErrParameter.More("cid or var_name is empty")
	}
	row = copyRow(row)
	row["contract_id"] = cid
	return w.putRow(tableKey(ContractScopeTablePrefix, cid, row["var_name"]), row)
}

func (w *Writer) putRow(key []byte, row Row) error {
	data, err := encodeRow(row)
	if err != nil {
		return common.ErrParameter.More("encode row failed.err:%v", err)
	}
	return w.p.Put(key, data)
}

func copyRow(row Row) Row {
	out := make(Row, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	return out
}
