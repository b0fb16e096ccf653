// Qdisc stats, non Linux stub.

//go:build !linux

package qdisc

import (
	"fmt"
	"runtime"
)

var QdiscAvail = false

func (qs *QdiscStats) Sample() (*QdiscSample, error) {
	return nil, fmt.Errorf("qdisc stats not supported for GOOS=%s", runtime.GOOS)
}
