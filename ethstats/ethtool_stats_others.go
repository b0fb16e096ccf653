// NIC driver stats retrieval, non Linux stub.

//go:build !linux

package ethstats

import (
	"fmt"
	"runtime"
)

var EthtoolAvail = false

func NewEthtoolStats(ifName string) (*EthtoolStats, error) {
	return nil, fmt.Errorf("ethtool stats not supported for GOOS=%s", runtime.GOOS)
}

func (es *EthtoolStats) statsMap() (map[string]uint64, error) {
	return nil, fmt.Errorf("ethtool stats not supported for GOOS=%s", runtime.GOOS)
}

func (es *EthtoolStats) Close() {}
