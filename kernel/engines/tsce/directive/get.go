package directive

import (
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/utils"
)

// Get imports scoped variables:
//
//	<get><var scope="user" id="$0.buyer" id-as="buyer" name="level" as="lv"/></get>
//
// Values of the transaction's own party land under $<scope>.<name>, another
// owner's values under $<id-as>.<name>, and as renames them to $<as> (one
// value) or $<as>.<name>.
func (t *Processor) Get(nodes []document.Gated) {
	for _, g := range nodes {
		if g.Node.IsNil() || !t.pass(g) {
			continue
		}
		for _, v := range g.Node.ChildrenNamed("var") {
			t.getVar(v)
		}
	}
}

func (t *Processor) getVar(v document.Node) {
	scope := v.Attr("scope")
	if !utils.InArray(scope, def.ScopeAuthor, def.ScopeUser, def.ScopeReceiver, def.ScopeContract) {
		return
	}
	id := t.dm.Eval(v.Attr("id"))
	name := t.dm.Eval(v.Attr("name"))
	if name == "" {
		return
	}
	idAs := v.Attr("id-as")
	nameAs := v.Attr("as")

	storageScope := def.ScopeUser
	ownRef := "$" + scope
	if scope == def.ScopeContract {
		storageScope = def.ScopeContract
		ownRef = "$tx.body.cid"
	}
	own := t.dm.Eval(ownRef)
	storageId := id
	// author变量只读合约作者自己的
	if storageId == "" || scope == def.ScopeAuthor {
		storageId = own
	}

	values := t.dm.GetScopeVariables(storageScope, storageId, name)
	if len(values) == 0 {
		return
	}

	if storageId == own {
		for _, attr := range values {
			t.dm.Set("$"+scope+"."+attr.Name, attr.Value)
		}
	} else if idAs != "" {
		for _, attr := range values {
			t.dm.Set("$"+idAs+"."+attr.Name, attr.Value)
		}
	}
	if nameAs != "" {
		if len(values) == 1 {
			t.dm.Set("$"+nameAs, values[0].Value)
			return
		}
		for _, attr := range values {
			t.dm.Set("$"+nameAs+"."+attr.Name, attr.Value)
		}
	}
}
