// Misc OS related info for the display header.

package utils

import (
	"runtime"

	"github.com/tklauser/go-sysconf"
)

// Online CPU#; queue count v. CPU count is the first thing to check when
// tuning a multi-queue NIC:
var NumCpus = countOnlineCpus()

func countOnlineCpus() int {
	n, err := sysconf.Sysconf(sysconf.SC_NPROCESSORS_ONLN)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return int(n)
}
