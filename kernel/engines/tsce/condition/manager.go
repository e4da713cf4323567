package condition

import (
	"bytes"
	"strings"

	"github.com/gammazero/deque"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/crypto/hash"
	"github.com/tethys/tethyscore/lib/metrics"
)

type cacheEntry struct {
	result bool
	hash   []byte
}

// Manager caches named condition results for one transaction. A cached
// result is reused while the values of its keywords hash the same.
//
// Keywords are the $ references in src/ref of compare, after/before of age,
// id/name of var and value of anything else, signature sig/pk included.
// Anything the evaluator reads outside those slots, such as literal
// attributes or verifier state, does not invalidate the entry.
type Manager struct {
	evaluator Evaluator
	results   map[string]cacheEntry
	keywords  map[string][]string
}

func NewManager(evaluator Evaluator) *Manager {
	return &Manager{
		evaluator: evaluator,
		results:   make(map[string]cacheEntry),
		keywords:  make(map[string][]string),
	}
}

// Evaluate runs node through the cache when it has an id.
func (t *Manager) Evaluate(node document.Node, dm *datamgr.DataManager) bool {
	if node.IsNil() {
		return false
	}

	id := node.Attr("id")
	if id == "" {
		metrics.ConditionEvalCounter.WithLabelValues(metrics.CacheAnonymous).Inc()
		return t.evaluator.Evaluate(node, dm)
	}

	kws, ok := t.keywords[id]
	if !ok {
		kws = Keywords(node)
		t.keywords[id] = kws
	}
	sum := hashKeywords(kws, dm)

	if entry, ok := t.results[id]; ok && bytes.Equal(entry.hash, sum) {
		metrics.ConditionEvalCounter.WithLabelValues(metrics.CacheHit).Inc()
		return entry.result
	}

	metrics.ConditionEvalCounter.WithLabelValues(metrics.CacheMiss).Inc()
	result := t.evaluator.Evaluate(node, dm)
	t.results[id] = cacheEntry{result: result, hash: sum}
	return result
}

// GetEvalResultById looks up a cached result, "~id" negates it. Unknown ids
// are true with or without the negation.
func (t *Manager) GetEvalResultById(id string) bool {
	neg := strings.HasPrefix(id, "~")
	if neg {
		id = id[1:]
	}
	if id == "" {
		return true
	}

	entry, ok := t.results[id]
	if !ok {
		return true
	}
	return entry.result != neg
}

// Reset forgets all results and keywords.
func (t *Manager) Reset() {
	t.results = make(map[string]cacheEntry)
	t.keywords = make(map[string][]string)
}

// Keywords collects the $ references of the subtree in document order.
func Keywords(node document.Node) []string {
	var kws []string
	var stack deque.Deque
	stack.PushBack(node)
	for stack.Len() > 0 {
		cur := stack.PopBack().(document.Node)
		if cur.IsNil() {
			continue
		}

		switch strings.ToLower(cur.Name()) {
		case "compare":
			kws = appendRef(kws, cur, "src", "ref")
		case "age":
			kws = appendRef(kws, cur, "after", "before")
		case "var":
			kws = appendRef(kws, cur, "id", "name")
		default:
			kws = appendRef(kws, cur, "value")
		}

		children := cur.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack.PushBack(children[i])
		}
	}
	return kws
}

func appendRef(kws []string, node document.Node, attrs ...string) []string {
	for _, name := range attrs {
		if v := node.Attr(name); strings.HasPrefix(v, "$") {
			kws = append(kws, v)
		}
	}
	return kws
}

func hashKeywords(kws []string, dm *datamgr.DataManager) []byte {
	var buf bytes.Buffer
	for _, k := range kws {
		v, _ := dm.Get(k)
		buf.WriteString(v)
		buf.WriteByte(0)
	}
	return hash.UsingSha256(buf.Bytes())
}
