package tsce

import (
	"strconv"

	"github.com/tethys/tethyscore/kernel/engines/tsce/chain"
	"github.com/tethys/tethyscore/kernel/engines/tsce/runner"
	"github.com/tethys/tethyscore/lib/metrics"
)

type BlockInfo struct {
	Id     string `json:"id"`
	Height string `json:"height"`
}

// BlockResult is what the ledger writer receives for one block.
type BlockResult struct {
	Block   BlockInfo        `json:"block"`
	Results []*runner.Result `json:"results"`
}

// compose keeps the results in block order. Accepted results lose their
// info; rejected ones lose authority and queries and pay the floor fee.
func compose(header chain.BlockHeader, results []*runner.Result, minUserFee int64) *BlockResult {
	out := &BlockResult{
		Block:   BlockInfo{Id: header.Id, Height: header.Height},
		Results: make([]*runner.Result, 0, len(results)),
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.Status {
			res.Info = ""
			metrics.TxResultCounter.WithLabelValues("accepted", "").Inc()
		} else {
			res.Authority = nil
			res.Queries = nil
			res.Fee = runner.FeeResult{Author: "0", User: strconv.FormatInt(minUserFee, 10)}
			metrics.TxResultCounter.WithLabelValues("rejected", string(res.Reason)).Inc()
		}
		out.Results = append(out.Results, res)
	}
	return out
}
