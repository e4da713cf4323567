// Package condition evaluates the boolean condition trees of a contract:
// <condition>, <update> and everything that may appear below them.
package condition

import (
	"strings"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/crypto/verifier"
)

const (
	AttrEvalRule = "eval-rule"
	EvalRuleOr   = "or"
	EvalRuleAnd  = "and"
)

// Evaluator evaluates one condition subtree.
type Evaluator interface {
	Evaluate(node document.Node, dm *datamgr.DataManager) bool
}

type primaryType uint8

const (
	primaryUnknown primaryType = iota
	primaryRoot
	primaryIf
	primaryNif
	primaryCompare
	primarySignature
	primaryCertificate
	primaryTime
	primaryEndorser
	primaryReceiver
	primaryUser
	primaryVar
)

func primaryTypeOf(name string) primaryType {
	switch strings.ToLower(name) {
	case "condition", "update":
		return primaryRoot
	case "if":
		return primaryIf
	case "nif":
		return primaryNif
	case "compare":
		return primaryCompare
	case "signature":
		return primarySignature
	case "certificate":
		return primaryCertificate
	case "time":
		return primaryTime
	case "endorser":
		return primaryEndorser
	case "receiver":
		return primaryReceiver
	case "user":
		return primaryUser
	case "var":
		return primaryVar
	default:
		return primaryUnknown
	}
}

// Handler is the primary evaluator. It holds no per transaction state and
// may be shared by runners.
type Handler struct {
	verifier verifier.Verifier
}

var _ Evaluator = (*Handler)(nil)

func NewHandler(v verifier.Verifier) *Handler {
	if v == nil {
		v = verifier.New(nil)
	}
	return &Handler{verifier: v}
}

// Evaluate folds composite nodes and dispatches leaves. A node with an
// unknown tag is true, a nil node is false.
func (t *Handler) Evaluate(node document.Node, dm *datamgr.DataManager) bool {
	if node.IsNil() {
		return false
	}

	switch typ := primaryTypeOf(node.Name()); typ {
	case primaryRoot, primaryIf, primaryNif:
		// 缺省eval-rule时按or处理，与user/endorser的缺省and不同
		orRule := true
		if rule, ok := node.LookupAttr(AttrEvalRule); ok && rule != "" {
			orRule = strings.ToLower(rule) == EvalRuleOr
		}
		result := fold(node, orRule, func(child document.Node) bool {
			return t.Evaluate(child, dm)
		})
		if typ == primaryNif {
			return !result
		}
		return result
	case primaryCompare:
		return guard(func() bool { return evalCompare(node, dm) })
	case primarySignature:
		return guard(func() bool { return t.evalSignature(node, dm) })
	case primaryCertificate:
		return guard(func() bool { return t.evalCertificate(node, dm) })
	case primaryTime:
		return guard(func() bool { return EvalTime(node, dm) })
	case primaryEndorser:
		return guard(func() bool { return evalEndorser(node, dm) })
	case primaryReceiver:
		return guard(func() bool { return evalUser(node, dm, "$receiver") })
	case primaryUser:
		return guard(func() bool { return evalUser(node, dm, "$user") })
	case primaryVar:
		return guard(func() bool { return evalVar(node, dm) })
	default:
		return true
	}
}

// fold 空节点: and为true，or为false
func fold(node document.Node, orRule bool, eval func(document.Node) bool) bool {
	result := !orRule
	for child := node.FirstChild(); !child.IsNil(); child = child.NextSibling() {
		r := eval(child)
		if orRule {
			result = result || r
		} else {
			result = result && r
		}
	}
	return result
}

// guard turns a panic inside a leaf into false.
func guard(f func() bool) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return f()
}
