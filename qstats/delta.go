// Per-interval deltas over consecutive samples.

package qstats

// QueueDeltas holds the per-interval differences for the four counters of
// one queue, or the aggregate across all queues. Signed: a counter reset
// shows up as a negative value, it is not clamped.
type QueueDeltas [NUM_COUNTER_KINDS]int64

// Delta computes per-queue and aggregate deltas between two consecutive
// samples of the same queue map. The subtraction wraps in uint64 before
// the sign conversion, so a counter crossing 1<<64 yields the correct
// small positive delta. The caller keeps curr as the next cycle's prev;
// no history beyond that is retained.
func Delta(curr, prev Sample) ([]QueueDeltas, QueueDeltas) {
	deltas := make([]QueueDeltas, len(curr))
	total := QueueDeltas{}
	for queue := range curr {
		for kind := range curr[queue] {
			d := int64(curr[queue][kind] - prev[queue][kind])
			deltas[queue][kind] = d
			total[kind] += d
		}
	}
	return deltas, total
}
