// Package datamap is the per transaction variable namespace. Keys are
// "$" prefixed dotted paths such as "$tx.endorser[0].id" or "$0.amount".
package datamap

import (
	"strings"

	"github.com/tethys/tethyscore/lib/utils"
)

const RefPrefix = "$"

// Datamap is not safe for concurrent use; every runner owns one.
type Datamap struct {
	storage map[string]string
}

func New() *Datamap {
	return &Datamap{storage: make(map[string]string)}
}

// Get returns the value and whether it was set.
func (t *Datamap) Get(key string) (string, bool) {
	v, ok := t.storage[key]
	return v, ok
}

// Set inserts or overwrites. Empty keys are ignored.
func (t *Datamap) Set(key, value string) {
	if key == "" {
		return
	}
	t.storage[key] = value
}

func (t *Datamap) Clear() {
	t.storage = make(map[string]string)
}

func (t *Datamap) Len() int {
	return len(t.storage)
}

// Eval resolves expr. Literals come back unchanged, unset references as "".
func (t *Datamap) Eval(expr string) string {
	v, _ := t.EvalOpt(expr)
	return v
}

// EvalOpt is Eval keeping the miss: ok is false only for an unset reference.
func (t *Datamap) EvalOpt(expr string) (string, bool) {
	expr = utils.Trim(expr)
	if expr == "" {
		return "", true
	}
	if !IsRef(expr) {
		return expr, true
	}
	return t.Get(expr)
}

// IsRef reports whether s is a variable reference.
func IsRef(s string) bool {
	return strings.HasPrefix(s, RefPrefix)
}
