// Queue map builder and raw counter projection.

package qstats

import (
	"errors"
)

// QueueMap is built once at startup from the driver's label list: raw slot
// index -> (queue#, counter kind) for every label recognized as a
// per-queue counter. Immutable afterwards, used by every polling cycle to
// project the flat counter array into the per-queue table.
type QueueMap struct {
	// Raw slot index -> destination. Slots w/ unrecognized labels are
	// simply absent:
	Slots map[int]QueueCounter
	// One past the highest queue# seen. Queue numbering is the
	// driver's, holes are permitted:
	NumQueues int
}

// The driver exposes no labels in the expected per-queue convention, so
// there is nothing to monitor:
var ErrNoQueueCounters = errors.New("no per-queue counters recognized")

func BuildQueueMap(labels []string, matcher LabelMatcher) (*QueueMap, error) {
	qm := &QueueMap{
		Slots: make(map[int]QueueCounter),
	}
	for slot, label := range labels {
		qc, ok := matcher.Match(label)
		if !ok {
			continue
		}
		qm.Slots[slot] = qc
		if qc.Queue+1 > qm.NumQueues {
			qm.NumQueues = qc.Queue + 1
		}
	}
	if len(qm.Slots) == 0 {
		return nil, ErrNoQueueCounters
	}
	return qm, nil
}

// QueueCounters is one sample of the four counters of one queue, indexed
// by CounterKind:
type QueueCounters [NUM_COUNTER_KINDS]uint64

// Sample is one polling cycle worth of per-queue counters, indexed by
// queue#:
type Sample []QueueCounters

// Project spreads a raw counter snapshot into a dense per-queue table. The
// snapshot is expected to parallel the label list the map was built from;
// slots past its end are skipped rather than read out of bounds. Queues w/
// no mapped slot for a kind stay 0.
func (qm *QueueMap) Project(raw []uint64) Sample {
	sample := make(Sample, qm.NumQueues)
	for slot, qc := range qm.Slots {
		if slot < len(raw) {
			sample[qc.Queue][qc.Kind] = raw[slot]
		}
	}
	return sample
}
