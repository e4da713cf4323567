// Package runner executes one transaction against one contract:
// run period, input, get, fee and set, with the named conditions
// re-evaluated between the phases.
package runner

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/tethys/tethyscore/kernel/engines/tsce/chain"
	"github.com/tethys/tethyscore/kernel/engines/tsce/condition"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/directive"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/crypto/verifier"
	"github.com/tethys/tethyscore/lib/logs"
	"github.com/tethys/tethyscore/lib/timer"
)

var (
	ErrMissingElements = errors.New("missing elements")
	ErrFeeTooLow       = errors.New("less than minimum user fee")
)

type Options struct {
	MinUserFee         int64
	MaxInputSize       int
	DefaultKeyCurrency string
	Verifier           verifier.Verifier
}

func DefaultOptions() *Options {
	return &Options{
		MinUserFee:         def.MinUserFee,
		MaxInputSize:       def.MaxInputSize,
		DefaultKeyCurrency: def.DefaultKeyCurrency,
	}
}

// Runner is reused for the transactions of one worker, never shared
// between goroutines.
type Runner struct {
	baseLog logs.Logger
	log     logs.Logger
	opts    *Options

	dm        *datamgr.DataManager
	evaluator *condition.Handler
	cond      *condition.Manager
	proc      *directive.Processor

	world    []datamgr.DataAttribute
	chain    []datamgr.DataAttribute
	contract *document.Contract
	tx       *chain.Transaction
}

func NewRunner(ledger datamgr.Ledger, opts *Options, log logs.Logger) *Runner {
	if opts == nil {
		opts = DefaultOptions()
	}
	if log == nil {
		log = logs.NewNopLogger()
	}

	dm := datamgr.NewDataManager(ledger, log)
	evaluator := condition.NewHandler(opts.Verifier)
	cond := condition.NewManager(evaluator)
	proc := directive.NewProcessor(dm, cond, evaluator, log)
	proc.SetMaxInputSize(opts.MaxInputSize)

	return &Runner{
		baseLog:   log,
		log:       log,
		opts:      opts,
		dm:        dm,
		evaluator: evaluator,
		cond:      cond,
		proc:      proc,
	}
}

func (t *Runner) DataManager() *datamgr.DataManager {
	return t.dm
}

// Clear prepares the runner for the next transaction.
func (t *Runner) Clear() {
	t.dm.Clear()
	t.cond.Reset()
	t.contract = nil
	t.tx = nil
}

// LoadWorldChain reads the world and chain rows once per block.
func (t *Runner) LoadWorldChain() bool {
	world := t.dm.GetWorld()
	chainAttr := t.dm.GetChain()
	if len(world) == 0 || len(chainAttr) == 0 {
		return false
	}
	t.world = world
	t.chain = chainAttr
	return true
}

// SetWorldChain binds the loaded rows as $world.* and $chain.*.
func (t *Runner) SetWorldChain() bool {
	if len(t.world) == 0 || len(t.chain) == 0 {
		return false
	}
	t.bindAttributes(t.world, "$"+def.ScopeWorld)
	t.bindAttributes(t.chain, "$"+def.ScopeChain)

	keyc := t.dm.Eval("$world.keyc_name")
	if keyc == "" {
		keyc = t.opts.DefaultKeyCurrency
	}
	t.dm.SetKeyCurrencyName(keyc)
	return true
}

func (t *Runner) SetContract(c *document.Contract) bool {
	if c == nil {
		return false
	}
	t.contract = c
	return true
}

// SetTransaction binds the transaction fields. It fails on missing ids or
// a fee below the minimum.
func (t *Runner) SetTransaction(tx *chain.Transaction) error {
	if tx == nil {
		return ErrMissingElements
	}
	parts := tx.CidParts()
	if parts == nil || tx.Body.Receiver == "" || tx.User.Id == "" || tx.TxId == "" {
		return ErrMissingElements
	}
	fee := tx.FeeAmount()
	if fee < t.opts.MinUserFee {
		return ErrFeeTooLow
	}

	t.tx = tx
	t.log = t.baseLog.With("txid", tx.TxId)
	t.proc.SetLogger(t.log)
	t.dm.SetLogger(t.log)

	txTime := strconv.FormatInt(tx.TimeSec(), 10)
	feeStr := formatAmount(fee)
	t.dm.Set("$tx.txid", tx.TxId)
	t.dm.Set("$txid", tx.TxId)
	t.dm.Set("$tx.time", txTime)
	t.dm.Set("$time", txTime)
	t.dm.Set("$tx.body.cid", tx.Body.Cid)
	t.dm.Set("$cid", tx.Body.Cid)
	t.dm.Set("$author", parts[1])
	t.dm.Set("$chain", parts[2])
	t.dm.Set("$world", parts[3])
	t.dm.Set("$tx.body.receiver", tx.Body.Receiver)
	t.dm.Set("$receiver", tx.Body.Receiver)
	t.dm.Set("$tx.body.fee", feeStr)
	t.dm.Set("$fee", feeStr)
	t.dm.Set("$tx.user.id", tx.User.Id)
	t.dm.Set("$user", tx.User.Id)
	t.dm.Set("$tx.user.pk", tx.User.Pk)

	for i, e := range tx.Endorser {
		prefix := "$tx.endorser[" + strconv.Itoa(i) + "]"
		t.dm.Set(prefix+".id", e.Id)
		t.dm.Set(prefix+".pk", e.Pk)
	}
	t.dm.Set("$tx.endorser.count", strconv.Itoa(len(tx.Endorser)))
	return nil
}

// ReadUserAttributes binds $user.*, $receiver.* and $author.*; all three
// identities must exist.
func (t *Runner) ReadUserAttributes() bool {
	refs := []string{"$" + def.ScopeUser, "$" + def.ScopeReceiver, "$" + def.ScopeAuthor}
	rows := make([][]datamgr.DataAttribute, len(refs))
	for i, ref := range refs {
		rows[i] = t.dm.GetUserInfo(ref)
		if len(rows[i]) == 0 {
			t.log.Info("user attributes not found", "ref", ref, "id", t.dm.Eval(ref))
			return false
		}
	}
	for i, ref := range refs {
		t.bindAttributes(rows[i], ref)
	}
	return true
}

func (t *Runner) bindAttributes(attrs []datamgr.DataAttribute, prefix string) {
	for _, attr := range attrs {
		t.dm.Set(prefix+"."+attr.Name, attr.Value)
	}
}

// Run executes the bound contract. SetContract and SetTransaction must
// have succeeded.
func (t *Runner) Run() *Result {
	xt := timer.NewXTimer()
	res := &Result{
		TxId:   t.dm.Eval("$tx.txid"),
		Status: true,
	}
	if t.contract == nil || t.tx == nil {
		res.reject(def.RunUnknown, "")
		return res
	}
	defer func() {
		xt.Mark("done")
		t.log.Debug("contract run finished", "status", res.Status, "timer", xt.Print())
	}()

	if !condition.EvalTime(t.contract.Head(), t.dm) {
		return t.rejected(res, def.RunPeriod)
	}
	xt.Mark("period")

	t.evalConditions()
	res.Authority = &Authority{
		Author:   t.dm.Eval("$author"),
		User:     t.dm.Eval("$user"),
		Receiver: t.dm.Eval("$receiver"),
		Self:     t.dm.Eval("$tx.body.cid"),
		Friend:   []string{},
	}

	if !t.proc.Input(directive.Input(t.tx.Body.Input), t.contract.Input()) {
		return t.rejected(res, def.RunInput)
	}
	xt.Mark("input")

	t.evalConditions()
	t.proc.Get(t.contract.Nodes(document.KindGet))
	xt.Mark("get")

	// 之后变量不再变化
	t.evalConditions()
	fee := t.proc.Fee(t.contract.Nodes(document.KindFee))
	if fee == nil {
		return t.rejected(res, def.RunFee)
	}
	if fee.User > 0 && t.dm.GetUserKeyCurrency("$user") < fee.User {
		t.rejected(res, def.NotEnoughFee)
		res.Info += " (user)"
		return res
	}
	if fee.Author > 0 && t.dm.GetUserKeyCurrency("$author") < fee.Author {
		t.rejected(res, def.NotEnoughFee)
		res.Info += " (author)"
		return res
	}
	res.Fee = FeeResult{Author: formatAmount(fee.Author), User: formatAmount(fee.User)}
	xt.Mark("fee")

	queries := t.proc.Set(t.contract.Nodes(document.KindSet))
	if len(queries) == 0 {
		t.rejected(res, def.RunSet)
		res.Info = def.RunSet.Message() + " or " + def.RunTag.Message()
		return res
	}
	res.Queries = queries
	xt.Mark("set")
	return res
}

func (t *Runner) rejected(res *Result, reason def.Reason) *Result {
	res.reject(reason, "")
	t.log.Info("transaction rejected", "reason", reason)
	return res
}

func (t *Runner) evalConditions() {
	for _, g := range t.contract.Nodes(document.KindCondition) {
		t.cond.Evaluate(g.Node, t.dm)
	}
}
