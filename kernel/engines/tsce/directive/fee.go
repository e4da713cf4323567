package directive

import (
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/utils"
)

const PayFromUser = "user"

type Fee struct {
	User   int64
	Author int64
}

// Fee sums the <pay> children of each gated <fee>; when several pass the
// last one is used. Without any <fee> the result is nil.
func (t *Processor) Fee(nodes []document.Gated) *Fee {
	if len(nodes) == 0 {
		return nil
	}

	fee := &Fee{}
	for _, g := range nodes {
		if g.Node.IsNil() || !t.pass(g) {
			continue
		}
		cur := Fee{}
		for _, pay := range g.Node.ChildrenNamed("pay") {
			amount := utils.ParseInt(t.dm.Eval(pay.Attr("value")))
			if pay.Attr("from") == PayFromUser {
				cur.User += amount
			} else {
				cur.Author += amount
			}
		}
		*fee = cur
	}
	return fee
}
