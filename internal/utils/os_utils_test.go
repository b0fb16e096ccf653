package utils

import (
	"testing"
)

func TestOsUtils(t *testing.T) {
	if NumCpus <= 0 {
		t.Errorf("NumCpus: want: > 0, got: %d", NumCpus)
	}
	if OSName == "" {
		t.Error("OSName: want: non empty, got: \"\"")
	}

	uptime, load := UptimeAndLoad()
	t.Logf(`
OSName:    %q
OSRelease: %q
NumCpus:   %d
Uptime:    %s
Load:      %.2f
`,
		OSName, OSRelease, NumCpus, uptime, load,
	)
}
