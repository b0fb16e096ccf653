// Qdisc stats for a single network interface, a-la tc -s show qdisc dev IF.

// Based on https://github.com/ema/qdisc, reduced to one device w/ the
// counters summed across its qdiscs and presented as slices. The driver
// stats cover the hardware rings; the qdisc layer above them is where
// software drops and requeues show up, hence the extra sample.

package qdisc

import (
	"net"
)

const (
	// uint32 indices:
	QDISC_PACKETS = iota
	QDISC_DROPS
	QDISC_REQUEUES
	QDISC_OVERLIMITS
	QDISC_QLEN
	QDISC_BACKLOG

	// Must be last:
	QDISC_UINT32_NUM_STATS
)

const (
	// uint64 indices:
	QDISC_BYTES = iota

	// Must be last:
	QDISC_UINT64_NUM_STATS
)

// One sample of the interface's qdisc layer. Both the counter style stats
// and the gauges (qlen, backlog) are summed across the device's qdiscs,
// the latter because they describe one and the same backlog:
type QdiscSample struct {
	// Root qdisc discipline, e.g. "mq", "fq_codel":
	Kind   string
	Uint32 [QDISC_UINT32_NUM_STATS]uint32
	Uint64 [QDISC_UINT64_NUM_STATS]uint64
}

// QdiscStats retrieves samples for one interface:
type QdiscStats struct {
	// The monitored interface:
	If      string
	ifIndex uint32
}

func NewQdiscStats(ifName string) (*QdiscStats, error) {
	ifa, err := net.InterfaceByName(ifName)
	if err != nil {
		return nil, err
	}
	return &QdiscStats{
		If:      ifName,
		ifIndex: uint32(ifa.Index),
	}, nil
}

// DeltaUint32 returns curr - prev for a uint32 indexed stat, as a wrapping
// signed subtraction; a counter reset yields a negative value:
func DeltaUint32(curr, prev *QdiscSample, index int) int64 {
	return int64(int32(curr.Uint32[index] - prev.Uint32[index]))
}

// DeltaBytes is the same for the byte counter:
func DeltaBytes(curr, prev *QdiscSample) int64 {
	return int64(curr.Uint64[QDISC_BYTES] - prev.Uint64[QDISC_BYTES])
}
