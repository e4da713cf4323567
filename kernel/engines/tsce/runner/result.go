package runner

import (
	"strconv"

	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/directive"
)

type Authority struct {
	Author   string   `json:"author"`
	User     string   `json:"user"`
	Receiver string   `json:"receiver"`
	Self     string   `json:"self"`
	Friend   []string `json:"friend"`
}

type FeeResult struct {
	Author string `json:"author"`
	User   string `json:"user"`
}

// Result is the outcome of one transaction. Reason is empty on success.
type Result struct {
	TxId      string             `json:"txid"`
	Status    bool               `json:"status"`
	Info      string             `json:"info,omitempty"`
	Authority *Authority         `json:"authority,omitempty"`
	Fee       FeeResult          `json:"fee"`
	Queries   []*directive.Query `json:"queries,omitempty"`

	Reason def.Reason `json:"-"`
}

// Rejected builds the result of a transaction that never reached Run.
// detail, when set, is appended to the reason message in parentheses.
func Rejected(txid string, reason def.Reason, detail string) *Result {
	res := &Result{TxId: txid}
	res.reject(reason, detail)
	return res
}

func (r *Result) reject(reason def.Reason, detail string) {
	r.Status = false
	r.Reason = reason
	r.Info = reason.Message()
	if detail != "" {
		r.Info += " (" + detail + ")"
	}
}

func formatAmount(v int64) string {
	return strconv.FormatInt(v, 10)
}
