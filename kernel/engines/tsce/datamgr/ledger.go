package datamgr

// Query is a read request to the ledger, e.g.
// {type:"user.scope.get", where:{uid:"...", name:"THY", notag:true}}.
type Query struct {
	Type  string                 `json:"type" cbor:"type"`
	Where map[string]interface{} `json:"where,omitempty" cbor:"where,omitempty"`
}

// NewQuery builds a query, where may be nil.
func NewQuery(typ string, where map[string]interface{}) *Query {
	return &Query{Type: typ, Where: where}
}

// Result is a column oriented answer: Name lists the columns, each Data
// row holds one cell per column.
type Result struct {
	Name []string        `json:"name"`
	Data [][]interface{} `json:"data"`
}

// Ledger is the read only storage the engine consults. Implementations
// return an empty Result for no data; an error means the ledger itself failed.
type Ledger interface {
	Query(q *Query) (*Result, error)
}

// LedgerFunc adapts a function to Ledger.
type LedgerFunc func(q *Query) (*Result, error)

func (f LedgerFunc) Query(q *Query) (*Result, error) {
	return f(q)
}

// rows converts the result into name->value maps. Rows whose width differs
// from the column list or that carry a non string cell are dropped.
func (r *Result) rows() []map[string]string {
	if r == nil || len(r.Name) == 0 || len(r.Data) == 0 {
		return nil
	}

	out := make([]map[string]string, 0, len(r.Data))
	for _, row := range r.Data {
		if len(row) != len(r.Name) {
			continue
		}
		m := make(map[string]string, len(row))
		valid := true
		for i, cell := range row {
			s, ok := cell.(string)
			if !ok {
				valid = false
				break
			}
			m[r.Name[i]] = s
		}
		if valid {
			out = append(out, m)
		}
	}
	return out
}

// attributes flattens every valid row into ordered (name, value) pairs.
func (r *Result) attributes() []DataAttribute {
	if r == nil || len(r.Name) == 0 {
		return nil
	}

	var out []DataAttribute
	for _, row := range r.Data {
		if len(row) != len(r.Name) {
			continue
		}
		for i, cell := range row {
			s, ok := cell.(string)
			if !ok {
				continue
			}
			out = append(out, DataAttribute{Name: r.Name[i], Value: s})
		}
	}
	return out
}
