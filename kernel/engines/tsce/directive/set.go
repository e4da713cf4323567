package directive

import (
	"strings"

	"github.com/tethys/tethyscore/kernel/engines/tsce/condition"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/crypto/verifier"
	"github.com/tethys/tethyscore/lib/utils"
)

type SetType uint8

const (
	SetNone SetType = iota
	SetUserJoin
	SetUserCert
	SetVCreate
	SetVIncinerate
	SetVTransfer
	SetScopeUser
	SetScopeContract
	SetContractNew
	SetContractDisable
	SetTradeItem
	SetTradeV
	SetRunQuery
	SetRunContract
)

var setTypeNames = map[string]SetType{
	"user.join":        SetUserJoin,
	"user.cert":        SetUserCert,
	"v.create":         SetVCreate,
	"v.incinerate":     SetVIncinerate,
	"v.transfer":       SetVTransfer,
	"scope.user":       SetScopeUser,
	"scope.contract":   SetScopeContract,
	"contract.new":     SetContractNew,
	"contract.disable": SetContractDisable,
	"trade.item":       SetTradeItem,
	"trade.v":          SetTradeV,
	"run.query":        SetRunQuery,
	"run.contract":     SetRunContract,
}

func SetTypeOf(name string) SetType {
	if st, ok := setTypeNames[name]; ok {
		return st
	}
	return SetNone
}

// Query is one mutation intent handed to the ledger writer.
type Query struct {
	Type   string            `json:"type"`
	Option map[string]string `json:"option"`
}

// Set builds the mutation intents of all gated <set> nodes. Nodes with an
// unknown type or a failed check are dropped, their reasons are logged.
func (t *Processor) Set(nodes []document.Gated) []*Query {
	var out []*Query
	for _, g := range nodes {
		if g.Node.IsNil() || !t.pass(g) {
			continue
		}
		typ := g.Node.Attr("type")
		st := SetTypeOf(typ)
		if st == SetNone {
			continue
		}
		option, reason := t.setOption(st, g.Node)
		if reason != "" {
			t.log.Debug("set directive dropped", "type", typ, "reason", reason)
			continue
		}
		out = append(out, &Query{Type: typ, Option: option})
	}
	return out
}

func (t *Processor) setOption(st SetType, node document.Node) (map[string]string, def.Reason) {
	option := make(map[string]string)

	var owner string
	switch st {
	case SetScopeUser:
		owner = node.Attr("for")
		if !utils.InArray(owner, def.ScopeUser, def.ScopeAuthor) {
			return nil, def.RunSet
		}
		option["for"] = owner
	case SetVTransfer:
		owner = node.Attr("from")
		if !utils.InArray(owner, def.ScopeUser, def.ScopeAuthor, def.ScopeContract) {
			return nil, def.RunSet
		}
		option["from"] = owner
	}

	for _, opt := range node.ChildrenNamed("option") {
		name := strings.ToLower(opt.Attr("name"))
		data := utils.Trim(t.dm.Eval(opt.Attr("value")))
		if name == "" || data == "" {
			continue
		}
		if data = checkOption(st, name, data); data != "" {
			option[name] = data
		}
	}

	// 修改带tag的user scope记录前需满足tag的update条件
	if st == SetScopeUser || (st == SetVTransfer && owner != def.ScopeContract) {
		pid := option["pid"]
		if pid == "" {
			return option, ""
		}
		name := option["unit"]
		if st == SetScopeUser {
			name = option["name"]
		}

		rec := t.dm.GetUserScopeRecordByPid(t.dm.Eval("$"+owner), name, pid)
		if rec == nil {
			return nil, def.NoRecord
		}
		if rec.Tag != "" && !condition.EvalTag(rec.Tag, t.evaluator, t.dm) {
			return nil, def.RunTag
		}
	}
	return option, ""
}

// checkOption returns the value to keep, "" drops the option.
func checkOption(st SetType, name, data string) string {
	switch st {
	case SetUserJoin:
		switch name {
		case "gender":
			// 企业等情况不填性别
			data = strings.ToUpper(data)
			if !utils.InArray(data, def.GenderValues...) {
				return ""
			}
		case "register_day":
			if !utils.IsDigits(data) {
				return ""
			}
		}
	case SetUserCert:
		switch name {
		case "notbefore", "notafter":
			if !utils.IsDigits(data) {
				return ""
			}
		case "x509":
			if _, err := verifier.ParseCertificate(data); err != nil {
				return ""
			}
		}
	case SetVCreate:
		switch name {
		case "amount":
			if utils.ParseInt(data) <= 0 {
				return ""
			}
		case "type":
			data = strings.ToUpper(data)
			if !utils.InArray(data, def.CurrencyKinds...) {
				return ""
			}
		}
	case SetVIncinerate, SetScopeContract:
		if name == "pid" && !base64Regex.MatchString(data) {
			return ""
		}
	case SetContractNew:
		if (name == "before" || name == "after") && !utils.IsDigits(data) {
			return ""
		}
	case SetVTransfer:
		if name == "amount" && utils.ParseInt(data) <= 0 {
			return ""
		}
	case SetRunQuery:
		if name == "type" && !utils.InArray(data, "run.query", "user.cert") {
			return ""
		}
		if name == "after" && !utils.IsDigits(data) {
			return ""
		}
	case SetRunContract:
		if name == "after" && !utils.IsDigits(data) {
			return ""
		}
	}
	return data
}
