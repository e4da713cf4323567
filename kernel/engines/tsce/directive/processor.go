// Package directive implements the input, get, fee and set phases of a
// contract run. All phases read and write the runner's DataManager and
// consult the condition cache for "if" gates.
package directive

import (
	"github.com/tethys/tethyscore/kernel/engines/tsce/condition"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/logs"
)

// Processor is owned by one runner and is not safe for concurrent use.
type Processor struct {
	log       logs.Logger
	dm        *datamgr.DataManager
	cond      *condition.Manager
	evaluator condition.Evaluator

	maxInputSize int
}

func NewProcessor(dm *datamgr.DataManager, cond *condition.Manager, evaluator condition.Evaluator,
	log logs.Logger) *Processor {
	if log == nil {
		log = logs.NewNopLogger()
	}
	return &Processor{
		log:          log,
		dm:           dm,
		cond:         cond,
		evaluator:    evaluator,
		maxInputSize: def.MaxInputSize,
	}
}

func (t *Processor) SetLogger(log logs.Logger) {
	if log != nil {
		t.log = log
	}
}

func (t *Processor) SetMaxInputSize(n int) {
	if n > 0 {
		t.maxInputSize = n
	}
}

// 未设置if或者if条件成立
func (t *Processor) pass(g document.Gated) bool {
	return g.If == "" || t.cond.GetEvalResultById(g.If)
}
