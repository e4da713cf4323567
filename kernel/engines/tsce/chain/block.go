package chain

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
)

type BlockHeader struct {
	Id     string `json:"id"`
	Height string `json:"height"`
	Time   string `json:"time"`
	World  string `json:"world"`
	Chain  string `json:"chain"`
}

// Block is the JSON form a producer hands to the engine, Tx holds
// base64(CBOR(Transaction)) strings.
type Block struct {
	Header BlockHeader `json:"block"`
	Tx     []string    `json:"tx"`
}

func ParseBlock(data []byte) (*Block, error) {
	blk := &Block{}
	if err := json.Unmarshal(data, blk); err != nil {
		return nil, errors.Wrap(err, "parse block")
	}
	return blk, nil
}

func LoadBlock(path string) (*Block, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read block file %s", path)
	}
	return ParseBlock(data)
}

// NewBlock encodes txs into a block, used by tools and tests.
func NewBlock(header BlockHeader, txs ...*Transaction) (*Block, error) {
	blk := &Block{Header: header, Tx: make([]string, 0, len(txs))}
	for _, tx := range txs {
		s, err := EncodeTransaction(tx)
		if err != nil {
			return nil, err
		}
		blk.Tx = append(blk.Tx, s)
	}
	return blk, nil
}

func (b *Block) NumTransaction() int {
	return len(b.Tx)
}

// Transactions decodes every tx in block order. An undecodable entry
// yields an empty Transaction, which the engine rejects as invalid.
func (b *Block) Transactions() []*Transaction {
	out := make([]*Transaction, 0, len(b.Tx))
	for _, s := range b.Tx {
		tx, err := DecodeTransaction(s)
		if err != nil {
			tx = &Transaction{}
		}
		out = append(out, tx)
	}
	return out
}
