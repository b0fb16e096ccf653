// Misc Linux OS related info.

//go:build linux

package utils

import (
	"bytes"
	"strings"
	"time"

	"github.com/capnm/sysinfo"

	"golang.org/x/sys/unix"
)

var (
	OSName    string
	OSRelease string
)

func init() {
	zeroSuffixBufToString := func(buf []byte) string {
		i := bytes.IndexByte(buf, 0)
		if i < 0 {
			i = len(buf)
		}
		return string(buf[:i])
	}

	uname := unix.Utsname{}
	if err := unix.Uname(&uname); err == nil {
		OSName = strings.ToLower(zeroSuffixBufToString(uname.Sysname[:]))
		OSRelease = zeroSuffixBufToString(uname.Release[:])
	}
}

// UptimeAndLoad returns the system uptime and the 1 minute load average:
func UptimeAndLoad() (time.Duration, float64) {
	si := sysinfo.Get()
	return si.Uptime, si.Loads[0]
}
