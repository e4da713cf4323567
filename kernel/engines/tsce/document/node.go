package document

// Node is a handle to one element; the zero value is nil.
type Node struct {
	doc *Document
	id  int32
}

func (n Node) IsNil() bool {
	return n.doc == nil || n.id < 0 || int(n.id) >= len(n.doc.elems)
}

func (n Node) el() *element {
	return n.doc.elems[n.id]
}

func (n Node) Name() string {
	if n.IsNil() {
		return ""
	}
	return n.el().name
}

// Attr returns the attribute value, "" when missing.
func (n Node) Attr(name string) string {
	v, _ := n.LookupAttr(name)
	return v
}

func (n Node) LookupAttr(name string) (string, bool) {
	if n.IsNil() {
		return "", false
	}
	for _, a := range n.el().attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// Text is the character data directly under the element.
func (n Node) Text() string {
	if n.IsNil() {
		return ""
	}
	return n.el().text.String()
}

func (n Node) FirstChild() Node {
	if n.IsNil() {
		return Node{id: nilId}
	}
	return Node{doc: n.doc, id: n.el().first}
}

func (n Node) NextSibling() Node {
	if n.IsNil() {
		return Node{id: nilId}
	}
	return Node{doc: n.doc, id: n.el().next}
}

func (n Node) Parent() Node {
	if n.IsNil() {
		return Node{id: nilId}
	}
	return Node{doc: n.doc, id: n.el().parent}
}

func (n Node) FirstChildNamed(name string) Node {
	for c := n.FirstChild(); !c.IsNil(); c = c.NextSibling() {
		if c.Name() == name {
			return c
		}
	}
	return Node{id: nilId}
}

func (n Node) Children() []Node {
	var out []Node
	for c := n.FirstChild(); !c.IsNil(); c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

func (n Node) ChildrenNamed(name string) []Node {
	var out []Node
	for c := n.FirstChild(); !c.IsNil(); c = c.NextSibling() {
		if c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}
