package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tethys/tethyscore/kernel/engines/tsce/condition"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr/ledgertest"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
)

func newProcessor(ledger datamgr.Ledger) (*Processor, *datamgr.DataManager, *condition.Manager) {
	dm := datamgr.NewDataManager(ledger, nil)
	h := condition.NewHandler(nil)
	mgr := condition.NewManager(h)
	return NewProcessor(dm, mgr, h, nil), dm, mgr
}

func mustContract(t *testing.T, data string) *document.Contract {
	t.Helper()
	c, err := document.ParseContract(data)
	require.NoError(t, err)
	return c
}

func mustNode(t *testing.T, data string) document.Node {
	t.Helper()
	doc, err := document.Parse(data)
	require.NoError(t, err)
	return doc.Root()
}

func gated(t *testing.T, data ...string) []document.Gated {
	var out []document.Gated
	for _, d := range data {
		n := mustNode(t, d)
		out = append(out, document.Gated{Node: n, If: n.Attr("if")})
	}
	return out
}

func TestValidateValue(t *testing.T) {
	cases := []struct {
		value, typ, validation string
		want                   bool
	}{
		{"100", "PINT", "", true},
		{"0", "PINT", "", false},
		{"-1", "NINT", "", true},
		{"1", "NINT", "", false},
		{"9007199254740991", "INT", "", true},
		{"9007199254740992", "INT", "", false},
		{"123456789012345678", "INT", "", false},
		{"12a", "INT", "", false},
		{"1.5", "FLOAT", "", true},
		{"x", "FLOAT", "", false},
		{"True", "BOOL", "", true},
		{"1", "BOOL", "", false},
		{"2019-05-30", "DATE", "", true},
		{"2019-13-30", "DATE", "", false},
		{"2019-05-30T13:44:19+09:00", "DATETIME", "", true},
		{"2019-05-30 13:44:19", "DATETIME", "", false},
		{"0101", "BIN", "", true},
		{"0102", "BIN", "", false},
		{"0123", "DEC", "", true},
		{"12ab", "DEC", "", false},
		{"12ab", "HEX", "", true},
		{"12ag", "HEX", "", false},
		{"5g9CMGLSXbNAKJMbWqBNp7rm78BJCMKhLzZVukBNGHSF", "BASE58", "", true},
		{"0OIl", "BASE58", "", false},
		{ledgertest.TaggedPid, "BASE64", "", true},
		{"abc", "BASE64", "", false},
		{"FIAT", "ENUMV", "", true},
		{"MILE", "ENUMV", "", false},
		{"OTHER", "ENUMGENDER", "", true},
		{"male", "ENUMGENDER", "", false},
		{"anything", "ENUMALL", "", true},
		{"<a><b/></a>", "XML", "", true},
		{"<a>", "XML", "", false},
		{ledgertest.ValueTransferContract, "CONTRACT", "", true},
		{"<tag/>", "CONTRACT", "", false},
		{"not a cert", "PEM", "", false},
		{"THY", "KEYC", "", false},
		{"free text", "UNKNOWN", "", true},
		{"abc", "TINYTEXT", "[a-c]+", true},
		{"abcd", "TINYTEXT", "[a-c]+", false},
		{"abc", "TINYTEXT", "(", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ValidateValue(c.value, c.typ, c.validation), "%s %s %s", c.value, c.typ, c.validation)
	}
}

func TestInput(t *testing.T) {
	p, dm, _ := newProcessor(nil)
	c := mustContract(t, ledgertest.ValueTransferContract)

	input := Input{{
		{"amount": "100"},
		{"unit": "THY"},
		{"pid": ledgertest.TaggedPid},
		{"tag": ""},
		{"undeclared": "x"},
	}}
	require.True(t, p.Input(input, c.Input()))

	v, _ := dm.Get("$0.amount")
	assert.Equal(t, "100", v)
	v, _ = dm.Get("$tx.contract.input[0].unit")
	assert.Equal(t, "THY", v)
	v, _ = dm.Get("$input@pid")
	assert.Equal(t, `["`+ledgertest.TaggedPid+`"]`, v)
	_, ok := dm.Get("$0.tag")
	assert.False(t, ok)
	_, ok = dm.Get("$0.undeclared")
	assert.False(t, ok)

	assert.False(t, p.Input(Input{{{"amount": "-5"}}}, c.Input()))
	assert.False(t, p.Input(Input{}, c.Input()))
	assert.False(t, p.Input(input, document.Node{}))
}

func TestInputGroups(t *testing.T) {
	p, dm, _ := newProcessor(nil)
	node := mustNode(t, `<input max="2"><option name="k" type="TEXT"/></input>`)

	require.True(t, p.Input(Input{{{"k": "a"}}, {{"k": "b"}}, {{"k": "c"}}}, node))
	v, _ := dm.Get("$1.k")
	assert.Equal(t, "b", v)
	_, ok := dm.Get("$2.k")
	assert.False(t, ok)
	v, _ = dm.Get("$input@k")
	assert.Equal(t, `["a","b"]`, v)

	assert.False(t, p.Input(Input{{{"k": "a"}}}, mustNode(t, `<input max="6"><option name="k"/></input>`)))
	p.SetMaxInputSize(10)
	assert.True(t, p.Input(Input{{{"k": "a"}}}, mustNode(t, `<input max="6"><option name="k"/></input>`)))
}

func scopeLedger() datamgr.Ledger {
	return datamgr.LedgerFunc(func(q *datamgr.Query) (*datamgr.Result, error) {
		switch q.Type {
		case def.QueryUserScope:
			return &datamgr.Result{
				Name: []string{"var_name", "var_value", "var_type", "tag", "pid"},
				Data: [][]interface{}{{"level", "5", "INT", "", "p-" + q.Where["uid"].(string)}},
			}, nil
		case def.QueryContractScope:
			return &datamgr.Result{
				Name: []string{"var_name", "var_value", "var_type", "pid"},
				Data: [][]interface{}{{"quota", "100", "INT", "c1"}, {"owner", "A1", "TEXT", "c2"}},
			}, nil
		}
		return &datamgr.Result{}, nil
	})
}

func TestGet(t *testing.T) {
	p, dm, mgr := newProcessor(scopeLedger())
	dm.Set("$user", "U1")
	dm.Set("$author", "A1")
	dm.Set("$receiver", "R1")
	dm.Set("$tx.body.cid", "C1")
	mgr.Evaluate(mustNode(t, `<condition id="never" eval-rule="or"/>`), dm)

	p.Get(gated(t,
		`<get><var scope="user" name="level"/><var scope="receiver" name="level" as="rlv"/></get>`,
		`<get><var scope="user" id="U2" id-as="buyer" name="level"/></get>`,
		`<get><var scope="contract" name="*" as="c"/><var scope="contract" name="quota" as="q"/></get>`,
		`<get><var scope="world" name="keyc_name"/><var scope="author" name=""/></get>`,
		`<get if="never"><var scope="author" name="level"/></get>`,
	))

	get := func(k string) string {
		v, _ := dm.Get(k)
		return v
	}
	assert.Equal(t, "5", get("$user.level"))
	assert.Equal(t, "5", get("$receiver.level"))
	assert.Equal(t, "5", get("$rlv"))
	assert.Equal(t, "5", get("$buyer.level"))
	assert.Equal(t, "100", get("$c.quota"))
	assert.Equal(t, "A1", get("$c.owner"))
	assert.Equal(t, "100", get("$q"))
	assert.Equal(t, "100", get("$contract.quota"))
	_, ok := dm.Get("$author.level")
	assert.False(t, ok)
	_, ok = dm.Get("$world.keyc_name")
	assert.False(t, ok)
}

func TestGetAuthorIgnoresId(t *testing.T) {
	ledger := datamgr.LedgerFunc(func(q *datamgr.Query) (*datamgr.Result, error) {
		if q.Type != def.QueryUserScope {
			return &datamgr.Result{}, nil
		}
		level := "1"
		if q.Where["uid"] == "A1" {
			level = "9"
		}
		return &datamgr.Result{
			Name: []string{"var_name", "var_value", "var_type", "tag", "pid"},
			Data: [][]interface{}{{"level", level, "INT", "", "p1"}},
		}, nil
	})
	p, dm, _ := newProcessor(ledger)
	dm.Set("$author", "A1")

	p.Get(gated(t, `<get><var scope="author" id="U2" id-as="other" name="level" as="lv"/></get>`))

	get := func(k string) string {
		v, _ := dm.Get(k)
		return v
	}
	assert.Equal(t, "9", get("$author.level"))
	assert.Equal(t, "9", get("$lv"))
	_, ok := dm.Get("$other.level")
	assert.False(t, ok)
}

func TestFee(t *testing.T) {
	p, dm, mgr := newProcessor(nil)
	dm.Set("$fee", "20")
	mgr.Evaluate(mustNode(t, `<condition id="never" eval-rule="or"/>`), dm)

	assert.Nil(t, p.Fee(nil))

	fee := p.Fee(gated(t,
		`<fee><pay from="user" value="100"/></fee>`,
		`<fee><pay from="user" value="$fee"/><pay from="user" value="5"/><pay from="author" value="3"/></fee>`,
		`<fee if="never"><pay from="user" value="1000"/></fee>`,
	))
	require.NotNil(t, fee)
	assert.Equal(t, int64(25), fee.User)
	assert.Equal(t, int64(3), fee.Author)

	fee = p.Fee(gated(t, `<fee if="~never"><pay from="user" value="7"/></fee>`, `<fee if="never"/>`))
	assert.Equal(t, &Fee{User: 7}, fee)
}

func bindTransfer(dm *datamgr.DataManager, now string) {
	dm.Set("$user", ledgertest.UserId)
	dm.Set("$receiver", ledgertest.UserId)
	dm.Set("$time", now)
	dm.Set("$0.amount", "100")
	dm.Set("$0.unit", ledgertest.KeyC)
	dm.Set("$0.pid", ledgertest.TaggedPid)
}

func TestSetTagGate(t *testing.T) {
	c := mustContract(t, ledgertest.ValueTransferContract)

	p, dm, _ := newProcessor(ledgertest.NewLedger())
	bindTransfer(dm, "1559191460")
	queries := p.Set(c.Nodes(document.KindSet))
	require.Len(t, queries, 1)
	assert.Equal(t, "v.transfer", queries[0].Type)
	assert.Equal(t, map[string]string{
		"from":   "user",
		"to":     ledgertest.UserId,
		"amount": "100",
		"unit":   ledgertest.KeyC,
		"pid":    ledgertest.TaggedPid,
	}, queries[0].Option)

	p, dm, _ = newProcessor(ledgertest.NewLedger())
	bindTransfer(dm, "1559191458")
	assert.Empty(t, p.Set(c.Nodes(document.KindSet)))

	p, dm, _ = newProcessor(ledgertest.NewLedger())
	bindTransfer(dm, "1559191460")
	dm.Set("$0.pid", "bm8tc3VjaC1waWQ=")
	assert.Empty(t, p.Set(c.Nodes(document.KindSet)))

	p, dm, _ = newProcessor(ledgertest.NewLedger())
	bindTransfer(dm, "1559191458")
	dm.Set("$0.pid", "")
	assert.Len(t, p.Set(c.Nodes(document.KindSet)), 1)
}

func TestSetTypes(t *testing.T) {
	p, dm, _ := newProcessor(nil)
	dm.Set("$user", "U1")

	queries := p.Set(gated(t,
		`<set type="unknown.kind"><option name="a" value="1"/></set>`,
		`<set type="v.transfer" from="nobody"/>`,
		`<set type="scope.user" for="contract"/>`,
		`<set type="v.create"><option name="Amount" value="0"/><option name="type" value="fiat"/></set>`,
		`<set type="user.join"><option name="gender" value="male"/><option name="register_day" value="2019-01-01"/></set>`,
		`<set type="scope.user" for="user"><option name="name" value="nick"/><option name="value" value="tt"/></set>`,
		`<set type="run.query"><option name="type" value="user.cert"/><option name="after" value="soon"/></set>`,
		`<set type="v.incinerate"><option name="pid" value="not/base64!"/><option name="amount" value=" "/></set>`,
	))
	require.Len(t, queries, 5)
	assert.Equal(t, map[string]string{"type": "FIAT"}, queries[0].Option)
	assert.Equal(t, map[string]string{"gender": "MALE"}, queries[1].Option)
	assert.Equal(t, map[string]string{"for": "user", "name": "nick", "value": "tt"}, queries[2].Option)
	assert.Equal(t, map[string]string{"type": "user.cert"}, queries[3].Option)
	assert.Equal(t, "v.incinerate", queries[4].Type)
	assert.Empty(t, queries[4].Option)

	assert.Equal(t, SetUserJoin, SetTypeOf("user.join"))
	assert.Equal(t, SetUserCert, SetTypeOf("user.cert"))
	assert.Equal(t, SetNone, SetTypeOf("V.TRANSFER"))
}
