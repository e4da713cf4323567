// Package tsce is the contract execution engine: it runs every transaction
// of a block against its contract and composes the mutation queries for the
// ledger writer.
package tsce

import (
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tethys/tethyscore/kernel/common/xcontext"
	"github.com/tethys/tethyscore/kernel/engines/tsce/chain"
	"github.com/tethys/tethyscore/kernel/engines/tsce/common"
	"github.com/tethys/tethyscore/kernel/engines/tsce/config"
	"github.com/tethys/tethyscore/kernel/engines/tsce/contract"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/runner"
	"github.com/tethys/tethyscore/lib/crypto/verifier"
	"github.com/tethys/tethyscore/lib/logs"
	"github.com/tethys/tethyscore/lib/metrics"
)

type Engine struct {
	log       logs.Logger
	conf      *config.EngineConf
	ledger    datamgr.Ledger
	contracts *contract.Manager
	verifier  verifier.Verifier
}

func NewEngine(ledger datamgr.Ledger, conf *config.EngineConf, log logs.Logger) (*Engine, error) {
	if ledger == nil {
		return nil, common.ErrLedgerNotSet
	}
	if conf == nil {
		conf = config.GetDefEngineConf()
	}
	if log == nil {
		log = logs.NewNopLogger()
	}

	contracts, err := contract.NewManager(ledger, conf.ContractCacheSize, conf.ContractMissExpire, log)
	if err != nil {
		return nil, common.ErrNewEngineFailed.More("%v", err)
	}
	return &Engine{
		log:       log,
		conf:      conf,
		ledger:    ledger,
		contracts: contracts,
		verifier:  verifier.New(conf.VerifierConf()),
	}, nil
}

func (t *Engine) Contracts() *contract.Manager {
	return t.contracts
}

// ProcBlock runs all transactions of blk. Rejected transactions are part of
// the result; an error means the block itself could not be processed.
func (t *Engine) ProcBlock(ctx xcontext.XContext, blk *chain.Block) (*BlockResult, error) {
	if t.ledger == nil {
		return nil, common.ErrLedgerNotSet
	}
	if blk == nil || blk.NumTransaction() == 0 {
		return nil, common.ErrEmptyBlock
	}
	log := ctx.GetLog()
	tm := ctx.GetTimer()
	begin := time.Now()

	txs := blk.Transactions()
	tm.Mark("decode")

	results := make([]*runner.Result, len(txs))
	bins := [][]txItem{allItems(txs)}
	if t.conf.Parallel && t.conf.NumWorkers > 1 {
		bins = parallelize(txs, t.conf.NumWorkers)
	}
	tm.Mark("parallelize")

	grp, gctx := errgroup.WithContext(ctx)
	for _, bin := range bins {
		if len(bin) == 0 {
			continue
		}
		bin := bin
		grp.Go(func() error {
			r := runner.NewRunner(t.ledger, t.conf.RunnerOptions(t.verifier), log)
			if !r.LoadWorldChain() {
				return common.ErrWorldNotFound
			}
			for _, item := range bin {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[item.index] = t.procTx(r, item.tx)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		log.Warn("process block failed", "block", blk.Header.Id, "err", err)
		return nil, err
	}
	tm.Mark("run")

	out := compose(blk.Header, results, t.conf.MinUserFee)
	metrics.BlockProcHistogram.WithLabelValues(blk.Header.Chain).Observe(time.Since(begin).Seconds())
	log.Info("block processed", "block", blk.Header.Id, "height", blk.Header.Height,
		"txs", len(txs), "bins", len(bins), "timer", tm.Print())
	return out, nil
}

func (t *Engine) procTx(r *runner.Runner, tx *chain.Transaction) (res *runner.Result) {
	defer func() {
		if e := recover(); e != nil {
			t.log.Error("contract run panic", "txid", tx.TxId, "panic", fmt.Sprint(e), "stack", string(debug.Stack()))
			res = runner.Rejected(tx.TxId, def.RunUnknown, "")
		}
	}()

	if tx.TxId == "" || tx.Body.Cid == "" {
		return runner.Rejected(tx.TxId, def.InvalidTx, "")
	}
	r.Clear()
	if !r.SetWorldChain() {
		return runner.Rejected(tx.TxId, def.ConfigWorld, "")
	}
	c, err := t.contracts.GetContract(tx.Body.Cid)
	if err != nil || !r.SetContract(c) {
		t.log.Info("contract unavailable", "txid", tx.TxId, "cid", tx.Body.Cid, "err", err)
		return runner.Rejected(tx.TxId, def.NoContract, "")
	}
	if err := r.SetTransaction(tx); err != nil {
		return runner.Rejected(tx.TxId, def.InvalidTx, err.Error())
	}
	if !r.ReadUserAttributes() {
		return runner.Rejected(tx.TxId, def.NoUser, "")
	}
	return r.Run()
}

func allItems(txs []*chain.Transaction) []txItem {
	items := make([]txItem, len(txs))
	for i, tx := range txs {
		items[i] = txItem{index: i, tx: tx}
	}
	return items
}
