package timer

import (
	"fmt"
	"strings"
	"time"
)

type markPoint struct {
	tag   string
	delta time.Duration
}

// XTimer records elapsed time between marked points of one operation.
type XTimer struct {
	born   time.Time
	latest time.Time
	points []markPoint
}

func NewXTimer() *XTimer {
	now := time.Now()
	return &XTimer{
		born:   now,
		latest: now,
	}
}

// Mark 记录距上一个点的耗时
func (t *XTimer) Mark(tag string) {
	now := time.Now()
	t.points = append(t.points, markPoint{tag: tag, delta: now.Sub(t.latest)})
	t.latest = now
}

// Total elapsed since the timer was created.
func (t *XTimer) Total() time.Duration {
	return time.Since(t.born)
}

// Print 输出格式: tag1:0.12ms,tag2:1.03ms,total:1.20ms
func (t *XTimer) Print() string {
	msg := make([]string, 0, len(t.points)+1)
	for _, p := range t.points {
		msg = append(msg, fmt.Sprintf("%s:%.2fms", p.tag, ms(p.delta)))
	}
	msg = append(msg, fmt.Sprintf("total:%.2fms", ms(t.Total())))
	return strings.Join(msg, ",")
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
