// The polling loop: snapshot -> project -> delta -> render, at 1 Hz.

package nqtop

import (
	"context"
	"time"

	"github.com/eparparita/nic-queue-top/qdisc"
	"github.com/eparparita/nic-queue-top/qstats"
)

const (
	// Rates are per second and the interval is not configurable:
	MONITOR_INTERVAL = 1 * time.Second
)

var monitorLog = NewCompLogger("monitor")

// CounterSource is the driver stats collaborator contract: raw counters
// in one and the same order as the label list the queue map was built
// from.
type CounterSource interface {
	CounterSnapshot() ([]uint64, error)
}

// QdiscSource feeds the optional footer row; nil when disabled or
// unsupported:
type QdiscSource interface {
	Sample() (*qdisc.QdiscSample, error)
}

// CycleResult is what one polling cycle hands to the renderer:
type CycleResult struct {
	Deltas []qstats.QueueDeltas
	Total  qstats.QueueDeltas

	// Qdisc footer, nil when not available:
	Qdisc *QdiscResult
}

type QdiscResult struct {
	Kind     string
	Drops    int64
	Requeues int64
	Backlog  uint32
}

// Monitor owns the queue map and the previous cycle's samples; the
// samples rotate every cycle, no longer history is kept.
type Monitor struct {
	queueMap *qstats.QueueMap
	source   CounterSource

	qdiscSource QdiscSource
	// One sampler error disables the footer for good; the queue table
	// stays up:
	qdiscFailed bool

	prev      qstats.Sample
	prevQdisc *qdisc.QdiscSample
}

// NewMonitor takes the priming snapshot; the first rendered deltas follow
// one interval later.
func NewMonitor(queueMap *qstats.QueueMap, source CounterSource, qdiscSource QdiscSource) (*Monitor, error) {
	mon := &Monitor{
		queueMap:    queueMap,
		source:      source,
		qdiscSource: qdiscSource,
	}
	raw, err := source.CounterSnapshot()
	if err != nil {
		return nil, err
	}
	mon.prev = queueMap.Project(raw)
	mon.prevQdisc = mon.qdiscSample()
	return mon, nil
}

func (mon *Monitor) qdiscSample() *qdisc.QdiscSample {
	if mon.qdiscSource == nil || mon.qdiscFailed {
		return nil
	}
	sample, err := mon.qdiscSource.Sample()
	if err != nil {
		monitorLog.Warnf("qdisc sampler disabled: %v", err)
		mon.qdiscFailed = true
		return nil
	}
	return sample
}

// Cycle runs one snapshot/project/delta pass; the current sample becomes
// the next cycle's previous one.
func (mon *Monitor) Cycle() (*CycleResult, error) {
	raw, err := mon.source.CounterSnapshot()
	if err != nil {
		return nil, err
	}
	curr := mon.queueMap.Project(raw)
	deltas, total := qstats.Delta(curr, mon.prev)
	mon.prev = curr

	result := &CycleResult{
		Deltas: deltas,
		Total:  total,
	}

	if currQdisc := mon.qdiscSample(); currQdisc != nil {
		if mon.prevQdisc != nil {
			result.Qdisc = &QdiscResult{
				Kind:     currQdisc.Kind,
				Drops:    qdisc.DeltaUint32(currQdisc, mon.prevQdisc, qdisc.QDISC_DROPS),
				Requeues: qdisc.DeltaUint32(currQdisc, mon.prevQdisc, qdisc.QDISC_REQUEUES),
				Backlog:  currQdisc.Uint32[qdisc.QDISC_BACKLOG],
			}
		}
		mon.prevQdisc = currQdisc
	}

	return result, nil
}

// Loop ticks at absolute MONITOR_INTERVAL boundaries until the context is
// cancelled. Cancellation is cooperative, checked once per tick; a failed
// snapshot terminates the loop w/ its error. Note that there is no
// timeout on the snapshot itself, a hanging driver query stalls the loop.
func (mon *Monitor) Loop(ctx context.Context, render func(*CycleResult)) error {
	nextTick := time.Now().Truncate(MONITOR_INTERVAL).Add(MONITOR_INTERVAL)
	timer := time.NewTimer(time.Until(nextTick))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		result, err := mon.Cycle()
		if err != nil {
			return err
		}
		render(result)
		nextTick = nextTick.Add(MONITOR_INTERVAL)
		timer.Reset(time.Until(nextTick))
	}
}
