// Qdisc stats for a single network interface, netlink based retrieval.

//go:build linux

package qdisc

import (
	"errors"
	"fmt"
	"math"
	"syscall"

	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
)

const (
	TCA_UNSPEC = iota
	TCA_KIND
	TCA_OPTIONS
	TCA_STATS
	TCA_XSTATS
	TCA_RATE
	TCA_FCNT
	TCA_STATS2
)

const (
	TCA_STATS_UNSPEC = iota
	TCA_STATS_BASIC
	TCA_STATS_RATE_EST
	TCA_STATS_QUEUE
)

const RTM_GETQDISC = 38

var QdiscAvail = true

// Sample dumps the qdiscs via RTM_GETQDISC and folds the ones belonging
// to the monitored interface into one sample:
func (qs *QdiscStats) Sample() (*QdiscSample, error) {
	const familyRoute = 0

	conn, err := netlink.Dial(familyRoute, nil)
	if err != nil {
		return nil, fmt.Errorf("netlink dial: %v", err)
	}
	defer conn.Close()

	if err := conn.SetOption(netlink.GetStrictCheck, true); err != nil {
		// Kernels before 4.20 lack the option:
		if !errors.Is(err, syscall.ENOPROTOOPT) {
			return nil, fmt.Errorf("NETLINK_GET_STRICT_CHK: %v", err)
		}
	}

	req := netlink.Message{
		Header: netlink.Header{
			Flags: netlink.Request | netlink.Dump,
			Type:  RTM_GETQDISC,
		},
		// struct tcmsg:
		Data: make([]byte, 20),
	}
	msgs, err := conn.Execute(req)
	if err != nil {
		return nil, fmt.Errorf("RTM_GETQDISC dump: %v", err)
	}

	sample := &QdiscSample{}
	for _, msg := range msgs {
		if len(msg.Data) < 20 {
			return nil, fmt.Errorf("short tcmsg, len=%d < 20", len(msg.Data))
		}
		if nlenc.Uint32(msg.Data[4:8]) != qs.ifIndex {
			continue
		}
		parent := nlenc.Uint32(msg.Data[12:16])

		attrs, err := netlink.UnmarshalAttributes(msg.Data[20:])
		if err != nil {
			return nil, fmt.Errorf("tcmsg attributes: %v", err)
		}

		// Kernels report TCA_STATS alongside TCA_STATS2; count the
		// legacy form only when it stands alone:
		hasStats2 := false
		for _, attr := range attrs {
			if attr.Type == TCA_STATS2 {
				hasStats2 = true
				break
			}
		}

		for _, attr := range attrs {
			switch attr.Type {
			case TCA_KIND:
				// The root qdisc names the discipline:
				if parent == math.MaxUint32 {
					sample.Kind = nlenc.String(attr.Data)
				}
			case TCA_STATS2:
				if err = sample.addTCAStats2(attr); err != nil {
					return nil, err
				}
			case TCA_STATS:
				if !hasStats2 {
					sample.addTCAStats(attr)
				}
			}
		}
	}
	return sample, nil
}

func (sample *QdiscSample) addTCAStats(attr netlink.Attribute) {
	if len(attr.Data) < 36 {
		return
	}
	sample.Uint64[QDISC_BYTES] += nlenc.Uint64(attr.Data[0:8])
	sample.Uint32[QDISC_PACKETS] += nlenc.Uint32(attr.Data[8:12])
	sample.Uint32[QDISC_DROPS] += nlenc.Uint32(attr.Data[12:16])
	sample.Uint32[QDISC_OVERLIMITS] += nlenc.Uint32(attr.Data[16:20])
	sample.Uint32[QDISC_QLEN] += nlenc.Uint32(attr.Data[28:32])
	sample.Uint32[QDISC_BACKLOG] += nlenc.Uint32(attr.Data[32:36])
}

func (sample *QdiscSample) addTCAStats2(attr netlink.Attribute) error {
	nested, err := netlink.UnmarshalAttributes(attr.Data)
	if err != nil {
		return fmt.Errorf("TCA_STATS2 attributes: %v", err)
	}
	for _, a := range nested {
		switch a.Type {
		case TCA_STATS_BASIC:
			sample.Uint64[QDISC_BYTES] += nlenc.Uint64(a.Data[0:8])
			sample.Uint32[QDISC_PACKETS] += nlenc.Uint32(a.Data[8:12])
		case TCA_STATS_QUEUE:
			sample.Uint32[QDISC_QLEN] += nlenc.Uint32(a.Data[0:4])
			sample.Uint32[QDISC_BACKLOG] += nlenc.Uint32(a.Data[4:8])
			sample.Uint32[QDISC_DROPS] += nlenc.Uint32(a.Data[8:12])
			sample.Uint32[QDISC_REQUEUES] += nlenc.Uint32(a.Data[12:16])
			sample.Uint32[QDISC_OVERLIMITS] += nlenc.Uint32(a.Data[16:20])
		}
	}
	return nil
}
