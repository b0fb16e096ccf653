// NIC driver stats retrieval via the ethtool interface.

//go:build linux

package ethstats

import (
	"fmt"

	"github.com/safchain/ethtool"
)

var EthtoolAvail = true

func NewEthtoolStats(ifName string) (*EthtoolStats, error) {
	hnd, err := ethtool.NewEthtool()
	if err != nil {
		return nil, fmt.Errorf("ethtool: %v", err)
	}
	// The driver name lookup doubles as the interface check:
	driver, err := hnd.DriverName(ifName)
	if err != nil {
		hnd.Close()
		return nil, fmt.Errorf("%s: %v", ifName, err)
	}
	return &EthtoolStats{
		If:         ifName,
		Driver:     driver,
		ethtoolHnd: hnd,
	}, nil
}

func (es *EthtoolStats) statsMap() (map[string]uint64, error) {
	return es.ethtoolHnd.(*ethtool.Ethtool).Stats(es.If)
}

func (es *EthtoolStats) Close() {
	if es.ethtoolHnd != nil {
		es.ethtoolHnd.(*ethtool.Ethtool).Close()
	}
}
