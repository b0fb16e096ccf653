// NIC driver stats retrieval via the ethtool interface.

// Based on github.com/safchain/ethtool, w/ the data presented as ordered
// label/counter slices: the queue map built from the labels at startup is
// keyed by slot index, so every subsequent snapshot has to preserve one
// and the same order.

package ethstats

import (
	"sort"
)

type EthtoolStats struct {
	// The monitored interface:
	If string
	// The driver behind it, used to select the label grammar:
	Driver string

	// Stat labels in slot order. Established by the first retrieval and
	// frozen afterwards:
	labels []string

	// OS specific handle; the package defining it may not build
	// everywhere, hence the unspecified type:
	ethtoolHnd any
}

// Labels returns the ordered label list, fetching it on the first call.
func (es *EthtoolStats) Labels() ([]string, error) {
	if es.labels == nil {
		statsMap, err := es.statsMap()
		if err != nil {
			return nil, err
		}
		es.labels = sortedLabels(statsMap)
	}
	return es.labels, nil
}

// CounterSnapshot returns the current raw counters in label list order,
// one call per polling cycle. Labels missing from a later snapshot read
// as 0.
func (es *EthtoolStats) CounterSnapshot() ([]uint64, error) {
	statsMap, err := es.statsMap()
	if err != nil {
		return nil, err
	}
	if es.labels == nil {
		es.labels = sortedLabels(statsMap)
	}
	return orderedCounters(statsMap, es.labels), nil
}

func sortedLabels(statsMap map[string]uint64) []string {
	labels := make([]string, 0, len(statsMap))
	for label := range statsMap {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func orderedCounters(statsMap map[string]uint64, labels []string) []uint64 {
	raw := make([]uint64, len(labels))
	for slot, label := range labels {
		raw[slot] = statsMap[label]
	}
	return raw
}
