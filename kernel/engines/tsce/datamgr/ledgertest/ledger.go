// Package ledgertest provides an in-memory Ledger with a fixed world,
// a value transfer contract and one user holding a plain and a tagged THY
// record. Every user id resolves to the same identity.
package ledgertest

import (
	"sync"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
)

const (
	UserId  = "5g9CMGLSXbNAKJMbWqBNp7rm78BJCMKhLzZVukBNGHSF"
	WorldId = "TETHYS19"
	ChainId = "SEOUL@KR"
	KeyC    = "THY"

	ValueTransferCid = "VALUE-TRANSFER::" + UserId + "::" + ChainId + "::" + WorldId

	KeycPid   = "VGhlIHF1aWNrIGJyb3duIGZveCBqdW1wcyBvdmVyIDE="
	TaggedPid = "8CJ8YhBwwgNGKAdzGl1qkKstJi+rUQ7ow8gMHIF3RHU="
)

const ValueTransferContract = `<contract>
  <head>
    <cid>` + ValueTransferCid + `</cid>
    <after>2018-01-01T00:00:00+09:00</after>
    <desc>Official standardcontract for transfering v-type variable</desc>
  </head>
  <body>
    <input>
      <option name="amount" type="PINT" desc="amount of v-type variable for transfer" />
      <option name="unit" type="TINYTEXT" desc="unit type of v-type variable for transfer" />
      <option name="pid" type="BASE64" desc="id of v-type variable for transfer" />
      <option name="tag" type="XML" desc="condition for use of this v-type value" />
    </input>
    <set type="v.transfer" from="user">
      <option name="to" value="$receiver" />
      <option name="amount" value="$0.amount" />
      <option name="unit" value="$0.unit" />
      <option name="pid" value="$0.pid" />
      <option name="tag" value="$0.tag" />
    </set>
  </body>
  <fee>
    <pay from="user" value="$fee" />
  </fee>
</contract>`

// FafaTag is only met after 2019-05-30T13:44:19+09:00 (unix 1559191459).
const FafaTag = `<tag>
  <info>
    <name>Fafa's Love</name>
    <cword>Flower</cword>
  </info>
  <update>
    <time>
      <after>2019-05-30T13:44:19+09:00</after>
    </time>
  </update>
</tag>`

type Ledger struct {
	mu        sync.Mutex
	calls     map[string]int
	contracts map[string]string
	errs      map[string]error
}

func NewLedger() *Ledger {
	return &Ledger{
		calls:     make(map[string]int),
		contracts: map[string]string{ValueTransferCid: ValueTransferContract},
		errs:      make(map[string]error),
	}
}

// SetContract registers doc under cid, an empty doc removes it.
func (l *Ledger) SetContract(cid, doc string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if doc == "" {
		delete(l.contracts, cid)
		return
	}
	l.contracts[cid] = doc
}

// FailWith makes queries of typ return err, nil clears it.
func (l *Ledger) FailWith(typ string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		delete(l.errs, typ)
		return
	}
	l.errs[typ] = err
}

// Calls counts queries of typ answered so far, failed ones included.
func (l *Ledger) Calls(typ string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[typ]
}

func (l *Ledger) Query(q *datamgr.Query) (*datamgr.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls[q.Type]++
	if err := l.errs[q.Type]; err != nil {
		return nil, err
	}

	res := &datamgr.Result{Name: []string{}, Data: [][]interface{}{}}
	switch q.Type {
	case def.QueryWorld:
		res.Name = []string{"world_id", "created_time", "creator_id", "creator_pk", "authority_id", "authority_pk",
			"keyc_name", "keyc_initial_amount", "allow_mining", "mining_rule", "allow_anonymous_user", "join_fee"}
		res.Data = append(res.Data, row(WorldId, "0", UserId, "", UserId, "", KeyC, "100000000000", "false", "",
			"true", "10"))
	case def.QueryChain:
		res.Name = []string{"chain_id", "created_time", "creator_id", "creator_pk", "allow_custom_contract",
			"allow_oracle", "allow_tag", "allow_heavy_contract"}
		res.Data = append(res.Data, row(ChainId, "1", UserId, "", "false", "false", "false", "false"))
	case def.QueryContract:
		if doc, ok := l.contracts[str(q.Where, "cid")]; ok {
			res.Name = []string{"contract"}
			res.Data = append(res.Data, row(doc))
		}
	case def.QueryUserInfo:
		res.Name = []string{"register_day", "register_code", "gender", "isc_type", "isc_code", "location",
			"age_limit"}
		res.Data = append(res.Data, row("1980-08-15", "", "MALE", "", "", "", ""))
	case def.QueryUserScope:
		res.Name = []string{"var_name", "var_value", "var_type", "up_time", "up_block", "tag", "pid"}
		notag, _ := q.Where["notag"].(bool)
		if str(q.Where, "name") == KeyC && str(q.Where, "type") == "KEYC" && notag {
			res.Data = append(res.Data, row(KeyC, "1000", "KEYC", "0", "0", "", KeycPid))
		}
		if str(q.Where, "pid") == TaggedPid {
			res.Data = append(res.Data, row(KeyC, "90", "KEYC", "0", "0", FafaTag, TaggedPid))
		}
	}
	return res, nil
}

func row(cells ...string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

func str(where map[string]interface{}, key string) string {
	s, _ := where[key].(string)
	return s
}
