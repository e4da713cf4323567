package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr/ledgertest"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
)

type countingEvaluator struct {
	inner Evaluator
	calls int
}

func (c *countingEvaluator) Evaluate(node document.Node, dm *datamgr.DataManager) bool {
	c.calls++
	return c.inner.Evaluate(node, dm)
}

func TestManagerCache(t *testing.T) {
	counter := &countingEvaluator{inner: NewHandler(nil)}
	mgr := NewManager(counter)
	dm := newDM("$a", "1", "$b", "1")
	node := mustNode(t, `<condition id="c1"><compare src="$a" ref="$b" type="EQ"/></condition>`)

	assert.True(t, mgr.Evaluate(node, dm))
	assert.True(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 1, counter.calls)

	dm.Set("$a", "2")
	assert.False(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 2, counter.calls)
	assert.False(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 2, counter.calls)

	// 任一keyword变化都会重新求值
	dm.Set("$b", "2")
	assert.True(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 3, counter.calls)
	assert.True(t, mgr.GetEvalResultById("c1"))
	assert.False(t, mgr.GetEvalResultById("~c1"))
}

func TestManagerAnonymous(t *testing.T) {
	counter := &countingEvaluator{inner: NewHandler(nil)}
	mgr := NewManager(counter)
	dm := newDM("$a", "1")
	node := mustNode(t, `<condition><compare src="$a" ref="1" type="EQ"/></condition>`)

	assert.True(t, mgr.Evaluate(node, dm))
	assert.True(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 2, counter.calls)
	assert.False(t, mgr.Evaluate(document.Node{}, dm))
}

func TestManagerUnknownId(t *testing.T) {
	mgr := NewManager(NewHandler(nil))
	assert.True(t, mgr.GetEvalResultById("unknown-id"))
	assert.True(t, mgr.GetEvalResultById("~unknown-id"))
	assert.True(t, mgr.GetEvalResultById(""))
	assert.True(t, mgr.GetEvalResultById("~"))

	dm := newDM("$a", "1")
	mgr.Evaluate(mustNode(t, `<condition id="no"><compare src="$a" ref="2" type="EQ"/></condition>`), dm)
	assert.False(t, mgr.GetEvalResultById("no"))
	assert.True(t, mgr.GetEvalResultById("~no"))

	mgr.Reset()
	assert.True(t, mgr.GetEvalResultById("no"))
}

// sig/pk are value keywords: changing them re-evaluates, while state outside
// the data manager (the verifier here) is not part of the hash
func TestManagerSignatureKeywords(t *testing.T) {
	stub := &stubVerifier{ok: true}
	counter := &countingEvaluator{inner: NewHandler(stub)}
	mgr := NewManager(counter)
	dm := newDM("$sig", "c2ln", "$pk", "cGs=")
	node := mustNode(t, `<condition id="sig"><signature><sig value="$sig"/><pk value="$pk"/><text/></signature></condition>`)

	assert.True(t, mgr.Evaluate(node, dm))
	stub.ok = false
	assert.True(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 1, counter.calls)

	dm.Set("$sig", "b3RoZXI=")
	assert.False(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 2, counter.calls)
	assert.Equal(t, "b3RoZXI=", stub.sig)

	dm.Set("$pk", "b3RoZXJwaw==")
	assert.False(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 3, counter.calls)
}

// 相邻keyword的值不能拼接成同一个hash
func TestManagerKeywordBoundaries(t *testing.T) {
	counter := &countingEvaluator{inner: NewHandler(nil)}
	mgr := NewManager(counter)
	dm := newDM("$a", "x", "$b", "x")
	node := mustNode(t, `<condition id="eq"><compare src="$a" ref="$b" type="EQ"/></condition>`)

	assert.True(t, mgr.Evaluate(node, dm))
	dm.Set("$a", "xx")
	dm.Set("$b", "")
	assert.False(t, mgr.Evaluate(node, dm))
	assert.Equal(t, 2, counter.calls)
}

func TestKeywords(t *testing.T) {
	node := mustNode(t, `<condition id="k" value="$top">
  <compare src="$a" ref="lit" value="$ignored"/>
  <user><age after="$min" before="40"/><id value="$uid"/></user>
  <var id="$user" name="$vname" ref="$ignored2"/>
  <signature><sig value="$sig"/><pk value="$pk"/></signature>
</condition>`)
	assert.Equal(t, []string{"$top", "$a", "$min", "$uid", "$user", "$vname", "$sig", "$pk"}, Keywords(node))
}

func TestTag(t *testing.T) {
	tag, err := ParseTag(ledgertest.FafaTag)
	assert.NoError(t, err)
	assert.Equal(t, "Fafa's Love", tag.Name())
	assert.Equal(t, []string{"Flower"}, tag.Keywords())

	h := NewHandler(nil)
	assert.True(t, tag.Eval(h, newDM("$time", "1559191460")))
	assert.False(t, tag.Eval(h, newDM("$time", "1559191458")))
	assert.True(t, EvalTag(ledgertest.FafaTag, h, newDM("$time", "1559191460")))

	assert.False(t, EvalTag("not a tag", h, newDM("$time", "1559191460")))
	assert.False(t, EvalTag("<tag><info/></tag>", h, newDM("$time", "1559191460")))
	var nilTag *Tag
	assert.False(t, nilTag.Eval(h, newDM()))
}
