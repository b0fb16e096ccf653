// Misc Other OS related info.

//go:build !linux

package utils

import (
	"runtime"
	"time"
)

var (
	OSName    = runtime.GOOS
	OSRelease = ""
)

func UptimeAndLoad() (time.Duration, float64) {
	return 0, 0
}
