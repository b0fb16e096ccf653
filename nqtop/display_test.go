package nqtop

import (
	"fmt"
	"testing"
	"time"

	"github.com/eparparita/nic-queue-top/qstats"
)

func TestFormatGbps(t *testing.T) {
	for _, tc := range []struct {
		byteDelta int64
		want      string
	}{
		{0, "0.000"},
		{1_000_000_000, "8.000"},
		{125_000_000, "1.000"},
		{1_562_500, "0.013"},
		{-125_000_000, "-1.000"},
	} {
		t.Run(
			fmt.Sprintf("byteDelta=%d", tc.byteDelta),
			func(t *testing.T) {
				if got := formatGbps(tc.byteDelta); got != tc.want {
					t.Fatalf("want: %q, got: %q", tc.want, got)
				}
			},
		)
	}
}

func TestFormatUptime(t *testing.T) {
	for _, tc := range []struct {
		uptime time.Duration
		want   string
	}{
		{90 * time.Minute, "1h30m"},
		{30 * time.Second, "0h0m"},
		{49*time.Hour + 5*time.Minute, "2d1h5m"},
	} {
		t.Run(
			fmt.Sprintf("uptime=%s", tc.uptime),
			func(t *testing.T) {
				if got := formatUptime(tc.uptime); got != tc.want {
					t.Fatalf("want: %q, got: %q", tc.want, got)
				}
			},
		)
	}
}

func TestFormatDelta(t *testing.T) {
	d := &Display{}

	if got := d.formatDelta(qstats.TX_BYTES, 1500000); got != "1500000" {
		t.Errorf("raw units: want: %q, got: %q", "1500000", got)
	}

	d.humanUnits = true
	if got := d.formatDelta(qstats.TX_BYTES, 1500000); got != "1.5MB/s" {
		t.Errorf("human units: want: %q, got: %q", "1.5MB/s", got)
	}
	// Packet counts stay numeric regardless of the toggle:
	if got := d.formatDelta(qstats.RX_PACKETS, 1500000); got != "1500000" {
		t.Errorf("packets: want: %q, got: %q", "1500000", got)
	}
}
