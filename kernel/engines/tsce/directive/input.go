package directive

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/crypto/verifier"
)

// Input is the body input of a transaction: groups of {key: value} records.
type Input [][]map[string]string

type inputOption struct {
	typ        string
	validation string
}

// Input validates the transaction input against <input> and binds it as
// $tx.contract.input[i].k and $i.k, plus $input@k for all groups.
// Undeclared keys and empty values are skipped; any other invalid value
// fails the whole phase.
func (t *Processor) Input(input Input, node document.Node) bool {
	if len(input) == 0 || node.IsNil() {
		return false
	}

	maxGroups := 1
	if v, ok := node.LookupAttr("max"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			maxGroups = n
		}
	}
	if maxGroups > t.maxInputSize {
		t.log.Info("input max exceeds limit", "max", maxGroups, "limit", t.maxInputSize)
		return false
	}
	num := maxGroups
	if num > len(input) {
		num = len(input)
	}

	options := make(map[string]inputOption)
	for _, opt := range node.ChildrenNamed("option") {
		options[opt.Attr("name")] = inputOption{typ: opt.Attr("type"), validation: opt.Attr("validation")}
	}

	groups := make(map[string][]string)
	for i := 0; i < num; i++ {
		prefix := "$tx.contract.input[" + strconv.Itoa(i) + "]."
		short := "$" + strconv.Itoa(i) + "."

		for _, record := range input[i] {
			for _, key := range sortedKeys(record) {
				value := record[key]
				opt, declared := options[key]
				if !declared || value == "" {
					continue
				}
				if !ValidateValue(value, opt.typ, opt.validation) {
					t.log.Info("input value is invalid", "group", i, "key", key, "type", opt.typ)
					return false
				}

				t.dm.Set(prefix+key, value)
				t.dm.Set(short+key, value)
				groups[key] = append(groups[key], value)

				if kind, _ := def.KindFromName(opt.typ); kind == def.KindPEM {
					t.bindCertificate(prefix, short, value)
				}
			}
		}
	}

	names := make([]string, 0, len(groups))
	for key := range groups {
		names = append(names, key)
	}
	sort.Strings(names)
	for _, key := range names {
		data, err := json.Marshal(groups[key])
		if err != nil {
			continue
		}
		t.dm.Set("$input@"+key, string(data))
	}
	return true
}

// PEM输入额外写入有效期(秒)和序列号
func (t *Processor) bindCertificate(prefix, short, value string) {
	cert, err := verifier.ParseCertificate(value)
	if err != nil {
		return
	}
	fields := map[string]string{
		"notafter":  strconv.FormatInt(cert.NotAfter.Unix(), 10),
		"notbefore": strconv.FormatInt(cert.NotBefore.Unix(), 10),
		"sn":        cert.SerialNumber.String(),
	}
	for k, v := range fields {
		t.dm.Set(prefix+k, v)
		t.dm.Set(short+k, v)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
