// nqtop main: live per-queue NIC counter monitor

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/eparparita/nic-queue-top/ethstats"
	"github.com/eparparita/nic-queue-top/nqtop"
	"github.com/eparparita/nic-queue-top/qdisc"
	"github.com/eparparita/nic-queue-top/qstats"
)

var mainLog = nqtop.NewCompLogger("main")

func usage() {
	fmt.Fprintf(
		flag.CommandLine.Output(),
		"Usage: %s [OPTION]... IF\n\nMonitor per-queue NIC counters for interface IF.\n\n",
		os.Args[0],
	)
	flag.PrintDefaults()
}

func main() {
	var err error

	// Setup things in the proper order:

	// Parse args; exactly one positional arg, the interface:
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	ifName := flag.Arg(0)

	// Config:
	nqtop.GlobalConfig, err = nqtop.LoadNqtopConfigFromArgs()
	if err != nil {
		mainLog.Fatal(err)
	}

	// Logger:
	err = nqtop.SetLogger(nqtop.GlobalConfig.LoggerConfig)
	if err != nil {
		mainLog.Fatal(err)
	}

	// Driver stats source:
	ethtoolStats, err := ethstats.NewEthtoolStats(ifName)
	if err != nil {
		mainLog.Fatal(err)
	}
	defer ethtoolStats.Close()

	// Build the queue map, once; an empty map means the driver exposes
	// no recognizable per-queue counters and there is nothing to
	// monitor:
	labels, err := ethtoolStats.Labels()
	if err != nil {
		mainLog.Fatal(err)
	}
	queueMap, err := qstats.BuildQueueMap(labels, qstats.MatcherForDriver(ethtoolStats.Driver))
	if err != nil {
		mainLog.Fatalf("%s (driver %s): %v", ifName, ethtoolStats.Driver, err)
	}
	mainLog.Infof(
		"%s: driver %s, %d queues, %d/%d labels mapped",
		ifName, ethtoolStats.Driver, queueMap.NumQueues, len(queueMap.Slots), len(labels),
	)

	// Optional qdisc layer sampler:
	var qdiscSource nqtop.QdiscSource
	if nqtop.GlobalConfig.QdiscConfig.Enabled && qdisc.QdiscAvail {
		qdiscStats, err := qdisc.NewQdiscStats(ifName)
		if err != nil {
			mainLog.Warnf("qdisc stats disabled: %v", err)
		} else {
			qdiscSource = qdiscStats
		}
	}

	// Monitor (takes the priming snapshot) and display:
	mon, err := nqtop.NewMonitor(queueMap, ethtoolStats, qdiscSource)
	if err != nil {
		mainLog.Fatal(err)
	}
	display := nqtop.NewDisplay(
		nqtop.GlobalConfig.DisplayConfig,
		ifName, ethtoolStats.Driver, queueMap.NumQueues,
	)

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	loopErr := make(chan error, 1)
	go func() {
		err := mon.Loop(ctx, display.Update)
		loopErr <- err
		// On a monitor error the display has to be stopped from here,
		// restoring the terminal before the error is reported:
		display.Stop()
	}()

	err = display.Run()
	cancelFn()
	if err == nil {
		err = <-loopErr
	}
	if err != nil {
		mainLog.Fatal(err)
	}
}
