package tsce

import (
	"sort"

	"github.com/tethys/tethyscore/kernel/engines/tsce/chain"
)

type txItem struct {
	index int
	tx    *chain.Transaction
}

type txGroup struct {
	ids   map[string]struct{}
	items []txItem
}

// parallelize splits txs into at most numBins bins so that transactions
// touching the same user or receiver id land in one bin. Groups are placed
// on the least loaded bin; each bin keeps block order.
func parallelize(txs []*chain.Transaction, numBins int) [][]txItem {
	if numBins < 1 {
		numBins = 1
	}

	var groups []*txGroup
	for i, tx := range txs {
		ids := partyIds(tx)

		var target *txGroup
		for _, g := range groups {
			if g.items == nil || !g.touches(ids) {
				continue
			}
			if target == nil {
				target = g
				continue
			}
			// tx连接了两个组，合并到先出现的组
			for id := range g.ids {
				target.ids[id] = struct{}{}
			}
			target.items = append(target.items, g.items...)
			g.ids, g.items = nil, nil
		}
		if target == nil {
			target = &txGroup{ids: make(map[string]struct{})}
			groups = append(groups, target)
		}
		for _, id := range ids {
			target.ids[id] = struct{}{}
		}
		target.items = append(target.items, txItem{index: i, tx: tx})
	}

	bins := make([][]txItem, numBins)
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		least := 0
		for j := 1; j < numBins; j++ {
			if len(bins[j]) < len(bins[least]) {
				least = j
			}
		}
		bins[least] = append(bins[least], g.items...)
	}
	for _, bin := range bins {
		sort.Slice(bin, func(a, b int) bool { return bin[a].index < bin[b].index })
	}
	return bins
}

func partyIds(tx *chain.Transaction) []string {
	var ids []string
	if tx.User.Id != "" {
		ids = append(ids, tx.User.Id)
	}
	if tx.Body.Receiver != "" && tx.Body.Receiver != tx.User.Id {
		ids = append(ids, tx.Body.Receiver)
	}
	return ids
}

func (g *txGroup) touches(ids []string) bool {
	for _, id := range ids {
		if _, ok := g.ids[id]; ok {
			return true
		}
	}
	return false
}
