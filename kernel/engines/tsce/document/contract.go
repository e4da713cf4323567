package document

import (
	"github.com/pkg/errors"
)

// Directive kinds listed by a contract.
const (
	KindGet       = "get"
	KindSet       = "set"
	KindCondition = "condition"
	KindOracle    = "oracle"
	KindDisplay   = "display"
	KindCall      = "call"
	KindFee       = "fee"
	KindScript    = "script"
)

var bodyKinds = []string{KindGet, KindSet, KindCondition, KindOracle, KindDisplay, KindCall}

// Gated is a directive node with the condition id of its "if" attribute.
type Gated struct {
	Node Node
	If   string
}

// Contract is a parsed contract document split into its directive lists.
type Contract struct {
	doc   *Document
	head  Node
	body  Node
	input Node
	nodes map[string][]Gated
}

// ParseContract requires <head>, <body> and <body><input> under the root.
func ParseContract(data string) (*Contract, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	c := &Contract{
		doc:   doc,
		head:  root.FirstChildNamed("head"),
		body:  root.FirstChildNamed("body"),
		nodes: make(map[string][]Gated),
	}
	if c.head.IsNil() || c.body.IsNil() {
		return nil, errors.New("contract without head or body")
	}
	c.input = c.body.FirstChildNamed("input")
	if c.input.IsNil() {
		return nil, errors.New("contract without input")
	}

	for _, kind := range bodyKinds {
		c.nodes[kind] = gatedChildren(c.body, kind)
	}
	c.nodes[KindFee] = gatedChildren(root, KindFee)
	c.nodes[KindScript] = gatedChildren(root, KindScript)

	return c, nil
}

func gatedChildren(parent Node, name string) []Gated {
	var out []Gated
	for _, n := range parent.ChildrenNamed(name) {
		out = append(out, Gated{Node: n, If: n.Attr("if")})
	}
	return out
}

func (c *Contract) Root() Node  { return c.doc.Root() }
func (c *Contract) Head() Node  { return c.head }
func (c *Contract) Body() Node  { return c.body }
func (c *Contract) Input() Node { return c.input }

// Nodes returns the directive list of kind, nil for unknown kinds.
func (c *Contract) Nodes(kind string) []Gated {
	return c.nodes[kind]
}
