package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTx() *Transaction {
	return &Transaction{
		TxId: "tx-1",
		Time: "1559191460",
		Body: TxBody{
			Cid:      "VALUE-TRANSFER::author::SEOUL@KR::TETHYS19",
			Receiver: "receiver",
			Fee:      "20",
			Input:    Input{{{"amount": "100"}, {"unit": "THY"}}},
		},
		User:     Signer{Id: "user", Pk: "pk"},
		Endorser: []Signer{{Id: "e1", Pk: "pk1"}},
	}
}

func TestBlockTransactions(t *testing.T) {
	blk, err := NewBlock(BlockHeader{Id: "blk", Height: "3"}, testTx())
	require.NoError(t, err)
	blk.Tx = append(blk.Tx, "!!not base64", "AAAA")

	data := []byte(`{"block":{"id":"blk","height":"3"},"tx":["` + blk.Tx[0] + `","!!not base64","AAAA"]}`)
	parsed, err := ParseBlock(data)
	require.NoError(t, err)
	assert.Equal(t, "3", parsed.Header.Height)
	assert.Equal(t, 3, parsed.NumTransaction())

	txs := parsed.Transactions()
	require.Len(t, txs, 3)
	assert.Equal(t, testTx(), txs[0])
	assert.Equal(t, &Transaction{}, txs[1])
	assert.Equal(t, &Transaction{}, txs[2])

	_, err = ParseBlock([]byte("{"))
	assert.Error(t, err)
}

func TestTransactionFields(t *testing.T) {
	tx := testTx()
	assert.Equal(t, int64(1559191460), tx.TimeSec())
	assert.Equal(t, int64(20), tx.FeeAmount())
	assert.Equal(t, []string{"VALUE-TRANSFER", "author", "SEOUL@KR", "TETHYS19"}, tx.CidParts())

	tx.Time = "soon"
	tx.Body.Fee = "x"
	tx.Body.Cid = "a::b::c"
	assert.Zero(t, tx.TimeSec())
	assert.Zero(t, tx.FeeAmount())
	assert.Nil(t, tx.CidParts())
}
