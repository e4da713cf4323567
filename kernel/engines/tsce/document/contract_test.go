package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractDoc = `<contract>
  <head><after>2018-01-01T00:00:00+09:00</after></head>
  <body>
    <input max="2"><option name="amount" type="PINT"/></input>
    <condition id="c1"><compare src="1" ref="1" type="EQ"/></condition>
    <get if="c1" scope="user" name="score"/>
    <get scope="author" name="score"/>
    <set type="v.create" if="~c1"><option name="amount" value="$0.amount"/></set>
    <display/>
  </body>
  <fee if="c1"><pay from="user" value="$fee"/></fee>
  <fee><pay from="author" value="5"/></fee>
  <script>noop</script>
</contract>`

func TestParseContract(t *testing.T) {
	c, err := ParseContract(contractDoc)
	require.NoError(t, err)

	assert.Equal(t, "contract", c.Root().Name())
	assert.Equal(t, "head", c.Head().Name())
	assert.Equal(t, "2", c.Input().Attr("max"))

	gets := c.Nodes(KindGet)
	require.Len(t, gets, 2)
	assert.Equal(t, "c1", gets[0].If)
	assert.Equal(t, "", gets[1].If)

	sets := c.Nodes(KindSet)
	require.Len(t, sets, 1)
	assert.Equal(t, "~c1", sets[0].If)

	assert.Len(t, c.Nodes(KindCondition), 1)
	assert.Len(t, c.Nodes(KindFee), 2)
	assert.Len(t, c.Nodes(KindScript), 1)
	assert.Len(t, c.Nodes(KindDisplay), 1)
	assert.Empty(t, c.Nodes(KindOracle))
	assert.Nil(t, c.Nodes("unknown"))
}

func TestParseContractMissingParts(t *testing.T) {
	cases := []string{
		`<contract><body><input/></body></contract>`,
		`<contract><head/></contract>`,
		`<contract><head/><body/></contract>`,
		`<contract><head/><body><input></body></contract>`,
	}
	for _, in := range cases {
		_, err := ParseContract(in)
		assert.Error(t, err, in)
	}
}
