package metrics

import (
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "tethys"

	SubsystemEngine = "tsce"

	LabelBCName = "bcname"
	LabelStatus = "status"
	LabelReason = "reason"
	LabelType   = "type"
	LabelCache  = "cache"
)

// cache label values
const (
	CacheHit       = "hit"
	CacheMiss      = "miss"
	CacheAnonymous = "anonymous"
)

var (
	TxResultCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemEngine,
			Name:      "tx_result_total",
			Help:      "Total number of transaction results by status and reason.",
		},
		[]string{LabelStatus, LabelReason})
	BlockProcHistogram = prom.NewHistogramVec(
		prom.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemEngine,
			Name:      "block_proc_seconds",
			Help:      "Histogram of block processing latency.",
			Buckets:   prom.DefBuckets,
		},
		[]string{LabelBCName})
	LedgerQueryCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemEngine,
			Name:      "ledger_query_total",
			Help:      "Total number of ledger queries issued by the data manager.",
		},
		[]string{LabelType, LabelCache})
	ConditionEvalCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemEngine,
			Name:      "condition_eval_total",
			Help:      "Total number of condition manager evaluations.",
		},
		[]string{LabelCache})
)

var registerOnce sync.Once

// RegisterMetrics 注册到默认registry，重复调用无副作用
func RegisterMetrics() {
	registerOnce.Do(func() {
		prom.MustRegister(TxResultCounter)
		prom.MustRegister(BlockProcHistogram)
		prom.MustRegister(LedgerQueryCounter)
		prom.MustRegister(ConditionEvalCounter)
	})
}
