// Package document is the arena backed element tree contracts, tags and
// conditions are evaluated over. Nodes are handles into the arena.
package document

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/gammazero/deque"
	"github.com/pkg/errors"
)

const nilId = -1

var ErrNoRoot = errors.New("document has no root element")

type attr struct {
	name  string
	value string
}

type element struct {
	name   string
	attrs  []attr
	text   strings.Builder
	parent int32
	first  int32
	last   int32
	next   int32
}

type Document struct {
	elems []*element
}

// Parse reads a well formed fragment. The first top level element is the root.
func Parse(data string) (*Document, error) {
	doc := &Document{}
	dec := xml.NewDecoder(strings.NewReader(data))

	// open elements
	var stack deque.Deque
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse document")
		}

		switch tk := tok.(type) {
		case xml.StartElement:
			parent := int32(nilId)
			if stack.Len() > 0 {
				parent = stack.Back().(int32)
			}
			id := doc.add(tk.Name.Local, tk.Attr, parent)
			stack.PushBack(id)
		case xml.EndElement:
			stack.PopBack()
		case xml.CharData:
			if stack.Len() > 0 {
				doc.elems[stack.Back().(int32)].text.Write(tk)
			}
		}
	}

	if len(doc.elems) == 0 {
		return nil, ErrNoRoot
	}
	return doc, nil
}

// NewElement builds a single element document, used to synthesize nodes.
func NewElement(name string, attrs map[string]string) Node {
	doc := &Document{}
	xattrs := make([]xml.Attr, 0, len(attrs))
	for k, v := range attrs {
		xattrs = append(xattrs, xml.Attr{Name: xml.Name{Local: k}, Value: v})
	}
	return Node{doc: doc, id: doc.add(name, xattrs, nilId)}
}

func (d *Document) add(name string, xattrs []xml.Attr, parent int32) int32 {
	el := &element{name: name, parent: parent, first: nilId, last: nilId, next: nilId}
	for _, a := range xattrs {
		el.attrs = append(el.attrs, attr{name: a.Name.Local, value: a.Value})
	}

	id := int32(len(d.elems))
	d.elems = append(d.elems, el)
	if parent != nilId {
		p := d.elems[parent]
		if p.last == nilId {
			p.first = id
		} else {
			d.elems[p.last].next = id
		}
		p.last = id
	}
	return id
}

// Root returns the first top level element.
func (d *Document) Root() Node {
	if d == nil || len(d.elems) == 0 {
		return Node{id: nilId}
	}
	return Node{doc: d, id: 0}
}
