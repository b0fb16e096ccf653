package nqtop

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/eparparita/nic-queue-top/qdisc"
	"github.com/eparparita/nic-queue-top/qstats"
)

var monitorTestLabels = []string{
	"port_rx_pause",
	"tx-0.tx_packets", "tx-0.tx_bytes", "rx-0.rx_packets", "rx-0.rx_bytes",
	"tx-1.tx_packets", "tx-1.tx_bytes", "rx-1.rx_packets", "rx-1.rx_bytes",
}

// Plays back a fixed snapshot sequence, sticking at the last one; a nil
// snapshot stands for a failed driver query:
type MonitorTestSource struct {
	snapshots [][]uint64
	i         int
}

func (src *MonitorTestSource) CounterSnapshot() ([]uint64, error) {
	raw := src.snapshots[src.i]
	if src.i < len(src.snapshots)-1 {
		src.i++
	}
	if raw == nil {
		return nil, fmt.Errorf("snapshot#%d: driver query failed", src.i)
	}
	return raw, nil
}

type MonitorTestQdiscSource struct {
	samples []*qdisc.QdiscSample
	i       int
}

func (src *MonitorTestQdiscSource) Sample() (*qdisc.QdiscSample, error) {
	sample := src.samples[src.i]
	if src.i < len(src.samples)-1 {
		src.i++
	}
	if sample == nil {
		return nil, fmt.Errorf("sample#%d: netlink dump failed", src.i)
	}
	return sample, nil
}

func monitorTestQueueMap(t *testing.T) *qstats.QueueMap {
	queueMap, err := qstats.BuildQueueMap(monitorTestLabels, &qstats.DirDotLabelMatcher{})
	if err != nil {
		t.Fatal(err)
	}
	return queueMap
}

type MonitorCycleTestCase struct {
	name       string
	snapshots  [][]uint64
	wantDeltas [][]qstats.QueueDeltas
	wantTotal  []qstats.QueueDeltas
}

func testMonitorCycle(tc *MonitorCycleTestCase, t *testing.T) {
	mon, err := NewMonitor(
		monitorTestQueueMap(t),
		&MonitorTestSource{snapshots: tc.snapshots},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}

	for cycle := range tc.wantDeltas {
		result, err := mon.Cycle()
		if err != nil {
			t.Fatal(err)
		}

		diffBuf := &bytes.Buffer{}
		for queue, wantDeltas := range tc.wantDeltas[cycle] {
			if result.Deltas[queue] != wantDeltas {
				fmt.Fprintf(
					diffBuf,
					"\ncycle#%d: deltas[%d]: want: %v, got: %v",
					cycle, queue, wantDeltas, result.Deltas[queue],
				)
			}
		}
		if result.Total != tc.wantTotal[cycle] {
			fmt.Fprintf(
				diffBuf,
				"\ncycle#%d: total: want: %v, got: %v",
				cycle, tc.wantTotal[cycle], result.Total,
			)
		}
		if diffBuf.Len() > 0 {
			t.Fatal(diffBuf.String())
		}
	}
}

func TestMonitorCycle(t *testing.T) {
	for _, tc := range []*MonitorCycleTestCase{
		{
			name: "identical_snapshots_zero_deltas",
			snapshots: [][]uint64{
				{7, 100, 1000, 200, 2000, 300, 3000, 400, 4000},
				{7, 100, 1000, 200, 2000, 300, 3000, 400, 4000},
			},
			wantDeltas: [][]qstats.QueueDeltas{
				{{0, 0, 0, 0}, {0, 0, 0, 0}},
			},
			wantTotal: []qstats.QueueDeltas{{0, 0, 0, 0}},
		},
		{
			name: "previous_sample_rotates",
			snapshots: [][]uint64{
				{7, 100, 1000, 200, 2000, 300, 3000, 400, 4000},
				{9, 110, 1500, 220, 2100, 300, 3000, 405, 4800},
				{9, 110, 1500, 230, 2100, 310, 3200, 405, 4800},
			},
			wantDeltas: [][]qstats.QueueDeltas{
				{
					{10, 20, 500, 100},
					{0, 5, 0, 800},
				},
				{
					{0, 10, 0, 0},
					{10, 0, 200, 0},
				},
			},
			wantTotal: []qstats.QueueDeltas{
				{10, 25, 500, 900},
				{10, 10, 200, 0},
			},
		},
	} {
		t.Run(
			fmt.Sprintf("name=%s", tc.name),
			func(t *testing.T) { testMonitorCycle(tc, t) },
		)
	}
}

func TestMonitorCycleSnapshotError(t *testing.T) {
	mon, err := NewMonitor(
		monitorTestQueueMap(t),
		&MonitorTestSource{snapshots: [][]uint64{
			{7, 100, 1000, 200, 2000, 300, 3000, 400, 4000},
			nil,
		}},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = mon.Cycle(); err == nil {
		t.Fatal("want: snapshot error, got: nil")
	}
}

func TestMonitorQdiscDeltas(t *testing.T) {
	prevQdisc, currQdisc := &qdisc.QdiscSample{Kind: "mq"}, &qdisc.QdiscSample{Kind: "mq"}
	prevQdisc.Uint32[qdisc.QDISC_DROPS] = 10
	prevQdisc.Uint32[qdisc.QDISC_REQUEUES] = 3
	currQdisc.Uint32[qdisc.QDISC_DROPS] = 25
	currQdisc.Uint32[qdisc.QDISC_REQUEUES] = 4
	currQdisc.Uint32[qdisc.QDISC_BACKLOG] = 5000

	snapshot := []uint64{7, 100, 1000, 200, 2000, 300, 3000, 400, 4000}
	mon, err := NewMonitor(
		monitorTestQueueMap(t),
		&MonitorTestSource{snapshots: [][]uint64{snapshot}},
		&MonitorTestQdiscSource{samples: []*qdisc.QdiscSample{prevQdisc, currQdisc}},
	)
	if err != nil {
		t.Fatal(err)
	}

	result, err := mon.Cycle()
	if err != nil {
		t.Fatal(err)
	}
	if result.Qdisc == nil {
		t.Fatal("Qdisc: want: non nil, got: nil")
	}
	if result.Qdisc.Kind != "mq" {
		t.Errorf("Qdisc.Kind: want: %q, got: %q", "mq", result.Qdisc.Kind)
	}
	if result.Qdisc.Drops != 15 {
		t.Errorf("Qdisc.Drops: want: 15, got: %d", result.Qdisc.Drops)
	}
	if result.Qdisc.Requeues != 1 {
		t.Errorf("Qdisc.Requeues: want: 1, got: %d", result.Qdisc.Requeues)
	}
	if result.Qdisc.Backlog != 5000 {
		t.Errorf("Qdisc.Backlog: want: 5000, got: %d", result.Qdisc.Backlog)
	}
}

// A failing qdisc sampler disables the footer, not the monitor:
func TestMonitorQdiscFailSoft(t *testing.T) {
	sample := &qdisc.QdiscSample{Kind: "fq_codel"}
	snapshot := []uint64{7, 100, 1000, 200, 2000, 300, 3000, 400, 4000}
	mon, err := NewMonitor(
		monitorTestQueueMap(t),
		&MonitorTestSource{snapshots: [][]uint64{snapshot}},
		&MonitorTestQdiscSource{samples: []*qdisc.QdiscSample{sample, nil}},
	)
	if err != nil {
		t.Fatal(err)
	}

	for cycle := 0; cycle < 3; cycle++ {
		result, err := mon.Cycle()
		if err != nil {
			t.Fatalf("cycle#%d: %v", cycle, err)
		}
		if result.Qdisc != nil {
			t.Fatalf("cycle#%d: Qdisc: want: nil, got: %+v", cycle, result.Qdisc)
		}
	}
	if !mon.qdiscFailed {
		t.Error("qdiscFailed: want: true, got: false")
	}
}

func TestMonitorLoopCancel(t *testing.T) {
	snapshot := []uint64{7, 100, 1000, 200, 2000, 300, 3000, 400, 4000}
	mon, err := NewMonitor(
		monitorTestQueueMap(t),
		&MonitorTestSource{snapshots: [][]uint64{snapshot}},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	cancelFn()

	done := make(chan error, 1)
	go func() {
		done <- mon.Loop(ctx, func(*CycleResult) {})
	}()
	select {
	case err = <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(MONITOR_INTERVAL / 2):
		t.Fatal("Loop did not observe cancellation")
	}
}
