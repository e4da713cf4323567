// Package verifier checks the signatures and certificates named by contract
// conditions. Signature schemes are registered by name, the same way kvdb
// drivers are.
package verifier

import (
	"sort"
	"strings"
	"sync"
)

// 签名类型，对应<signature type="...">
const (
	SigTypeGamma = "GAMMA"
	SigTypeECDSA = "ECDSA"
	SigTypeRSA   = "RSA"
)

// Verifier is consumed by the condition evaluator.
type Verifier interface {
	// VerifySignature checks sig over msg with pk. pkType is the declared
	// key encoding (PEM or an encoded point).
	VerifySignature(sigType, sig, pkType, pk string, msg []byte) bool
	// VerifyCertificate checks that cert was signed by issuer, both PEM.
	VerifyCertificate(cert, issuer string) bool
}

// SigVerifyFunc verifies one signature scheme.
type SigVerifyFunc func(sig, pkType, pk string, msg []byte) bool

var (
	servsMu  sync.RWMutex
	services = make(map[string]SigVerifyFunc)
)

// Register makes a signature scheme available by name.
func Register(name string, f SigVerifyFunc) {
	servsMu.Lock()
	defer servsMu.Unlock()

	if f == nil {
		panic("verifier: Register verify func is nil")
	}
	name = strings.ToUpper(name)
	if _, dup := services[name]; dup {
		panic("verifier: Register called twice for func " + name)
	}
	services[name] = f
}

func Drivers() []string {
	servsMu.RLock()
	defer servsMu.RUnlock()
	list := make([]string, 0, len(services))
	for name := range services {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

func lookup(name string) (SigVerifyFunc, bool) {
	servsMu.RLock()
	defer servsMu.RUnlock()
	f, ok := services[strings.ToUpper(name)]
	return f, ok
}

func init() {
	Register(SigTypeECDSA, verifyECDSA)
}

type Config struct {
	// GAMMA签名尚无实现，为true时直接通过
	AcceptGamma bool `yaml:"acceptGamma,omitempty"`
}

// Default dispatches on the signature type. RSA and unregistered types
// never verify.
type Default struct {
	acceptGamma bool
}

var _ Verifier = (*Default)(nil)

// GetDefConfig returns the default config, shared with the engine conf.
func GetDefConfig() *Config {
	return &Config{AcceptGamma: true}
}

func New(cfg *Config) *Default {
	if cfg == nil {
		cfg = GetDefConfig()
	}
	return &Default{acceptGamma: cfg.AcceptGamma}
}

func (t *Default) VerifySignature(sigType, sig, pkType, pk string, msg []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	sigType = strings.ToUpper(strings.TrimSpace(sigType))
	if sigType == "" || sigType == SigTypeGamma {
		return t.acceptGamma
	}
	f, found := lookup(sigType)
	if !found {
		return false
	}
	return f(sig, pkType, pk, msg)
}

func (t *Default) VerifyCertificate(cert, issuer string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return verifyCertificate(cert, issuer)
}
