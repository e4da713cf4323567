package tsce

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tethys/tethyscore/kernel/common/xcontext"
	"github.com/tethys/tethyscore/kernel/engines/tsce/chain"
	"github.com/tethys/tethyscore/kernel/engines/tsce/common"
	"github.com/tethys/tethyscore/kernel/engines/tsce/config"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr/ledgertest"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
)

const receiverId = "TQGx1Y4s1LmUX8HdzwBT9KyQxuwvnJqq8mbW5Ta7Lx6Q"

func transferTx(txid, time string) *chain.Transaction {
	return &chain.Transaction{
		TxId: txid,
		Time: time,
		Body: chain.TxBody{
			Cid:      ledgertest.ValueTransferCid,
			Receiver: receiverId,
			Fee:      "20",
			Input: chain.Input{{
				{"amount": "100"},
				{"unit": ledgertest.KeyC},
				{"pid": ledgertest.TaggedPid},
				{"tag": ""},
			}},
		},
		User: chain.Signer{Id: ledgertest.UserId, Pk: "pk"},
	}
}

func newTestEngine(t *testing.T, ledger *ledgertest.Ledger, parallel bool) *Engine {
	conf := config.GetDefEngineConf()
	conf.Parallel = parallel
	eng, err := NewEngine(ledger, conf, nil)
	require.NoError(t, err)
	return eng
}

func newCtx() *xcontext.BaseCtx {
	return xcontext.NewBaseCtx(context.Background(), nil)
}

// 第二笔交易早于tag的生效时间，被拒绝后只扣最低手续费
func TestProcBlockValueTransfer(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		eng := newTestEngine(t, ledgertest.NewLedger(), parallel)
		blk, err := chain.NewBlock(chain.BlockHeader{Id: "blk-1", Height: "1", Chain: ledgertest.ChainId},
			transferTx("tx-1", "1559191460"), transferTx("tx-2", "1559191458"))
		require.NoError(t, err)

		res, err := eng.ProcBlock(newCtx(), blk)
		require.NoError(t, err)
		require.Len(t, res.Results, 2)
		assert.True(t, res.Results[0].Status)
		assert.False(t, res.Results[1].Status)
		assert.Nil(t, res.Results[1].Authority)
		assert.Empty(t, res.Results[1].Queries)

		data, err := json.MarshalIndent(res, "", "  ")
		require.NoError(t, err)
		g := goldie.New(t,
			goldie.WithFixtureDir("testdata/golden"),
			goldie.WithNameSuffix(".golden"),
		)
		g.Assert(t, "value_transfer", data)
	}
}

func TestProcBlockRejections(t *testing.T) {
	ledger := ledgertest.NewLedger()
	eng := newTestEngine(t, ledger, true)

	noContract := transferTx("tx-nc", "1559191460")
	noContract.Body.Cid = "MISSING::a::b::c"
	lowFee := transferTx("tx-fee", "1559191460")
	lowFee.Body.Fee = "1"
	lowFee.User.Id = "other-user"
	noId := transferTx("", "1559191460")
	noId.User.Id = "third-user"

	blk, err := chain.NewBlock(chain.BlockHeader{Id: "blk-2", Height: "2"}, noContract, lowFee, noId)
	require.NoError(t, err)
	blk.Tx = append(blk.Tx, "garbage")

	res, err := eng.ProcBlock(newCtx(), blk)
	require.NoError(t, err)
	require.Len(t, res.Results, 4)

	infos := []string{
		def.NoContract.Message(),
		def.InvalidTx.Message() + " (less than minimum user fee)",
		def.InvalidTx.Message(),
		def.InvalidTx.Message(),
	}
	for i, r := range res.Results {
		assert.False(t, r.Status, i)
		assert.Equal(t, infos[i], r.Info, i)
		assert.Equal(t, "10", r.Fee.User, i)
		assert.Equal(t, "0", r.Fee.Author, i)
	}
	assert.Equal(t, "tx-nc", res.Results[0].TxId)
}

func TestProcBlockErrors(t *testing.T) {
	ledger := ledgertest.NewLedger()
	eng := newTestEngine(t, ledger, false)

	_, err := eng.ProcBlock(newCtx(), &chain.Block{})
	assert.True(t, common.CastError(err).Equal(common.ErrEmptyBlock))

	blk, err := chain.NewBlock(chain.BlockHeader{Id: "blk"}, transferTx("tx-1", "1559191460"))
	require.NoError(t, err)
	ledger.FailWith(def.QueryChain, errors.New("no chain"))
	_, err = eng.ProcBlock(newCtx(), blk)
	assert.True(t, common.CastError(err).Equal(common.ErrWorldNotFound))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ledger.FailWith(def.QueryChain, nil)
	_, err = eng.ProcBlock(xcontext.NewBaseCtx(ctx, nil), blk)
	assert.Equal(t, context.Canceled, err)

	_, err = NewEngine(nil, nil, nil)
	assert.Error(t, err)
}

func TestParallelize(t *testing.T) {
	tx := func(user, receiver string) *chain.Transaction {
		return &chain.Transaction{User: chain.Signer{Id: user}, Body: chain.TxBody{Receiver: receiver}}
	}
	txs := []*chain.Transaction{
		tx("a", "b"), // 0
		tx("c", "d"), // 1
		tx("e", "f"), // 2
		tx("b", "c"), // 3 连接0和1
		tx("g", "h"), // 4
		tx("f", "a"), // 5 连接2
	}
	bins := parallelize(txs, 3)
	require.Len(t, bins, 3)

	indexes := func(bin []txItem) []int {
		var out []int
		for _, it := range bin {
			out = append(out, it.index)
		}
		return out
	}
	assert.Equal(t, []int{0, 1, 2, 3, 5}, indexes(bins[0]))
	assert.Equal(t, []int{4}, indexes(bins[1]))
	assert.Empty(t, bins[2])

	bins = parallelize(txs[:3], 0)
	require.Len(t, bins, 1)
	assert.Equal(t, []int{0, 1, 2}, indexes(bins[0]))
}
