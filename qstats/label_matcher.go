// Matchers for per-queue counter labels a-la ethtool -S.

// NIC drivers expose their stats as a flat array of uint64 counters with a
// parallel array of vendor defined labels. The per-queue counters are
// recognizable by naming convention alone, e.g. "tx-2.tx_packets" for the
// packet counter of TX queue #2. A matcher classifies one label and, for a
// successful match, extracts the queue# and which of the four per-queue
// counters the label stands for.

package qstats

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Counter kinds, doubling as the offset within the per-queue 4 counter
// array. The offset encoding: bit 0 set for RX, bit 1 set for bytes:
type CounterKind int

const (
	TX_PACKETS CounterKind = iota
	RX_PACKETS
	TX_BYTES
	RX_BYTES

	// Must be last:
	NUM_COUNTER_KINDS
)

var counterKindNames = [NUM_COUNTER_KINDS]string{
	"tx_packets",
	"rx_packets",
	"tx_bytes",
	"rx_bytes",
}

func (kind CounterKind) String() string {
	if kind < 0 || kind >= NUM_COUNTER_KINDS {
		return fmt.Sprintf("CounterKind(%d)", int(kind))
	}
	return counterKindNames[kind]
}

// Queue numbers above the cap disqualify the label; they are never
// truncated to fit:
const MAX_QUEUE_NUM = 1<<31 - 1

// A successful label match, i.e. where in the per-queue table the
// associated raw counter lands:
type QueueCounter struct {
	Queue int
	Kind  CounterKind
}

// LabelMatcher is one naming convention (grammar). Labels not recognized
// as per-queue counters yield ok == false; that is never an error, such
// labels simply do not take part in the mapping.
type LabelMatcher interface {
	Match(label string) (qc QueueCounter, ok bool)
}

// DirDotLabelMatcher recognizes the common `<dir>-<N>.<prefix>_<measure>'
// convention shared by most drivers. The rules:
//   - `tx-' or `rx-' must open the label, case sensitive
//   - <N> is the entire run between the first `-' and the following `.';
//     any non digit in the run disqualifies the label
//   - <measure> is whatever follows the first `_' found at dot+3 or
//     later; no such `_', no match
//   - only <measure> == "bytes" selects the byte counters, every other
//     token counts as packets
type DirDotLabelMatcher struct{}

func (m *DirDotLabelMatcher) Match(label string) (QueueCounter, bool) {
	qc := QueueCounter{}

	rx := false
	if strings.HasPrefix(label, "rx-") {
		rx = true
	} else if !strings.HasPrefix(label, "tx-") {
		return qc, false
	}

	dot := strings.IndexByte(label[3:], '.')
	if dot < 0 {
		return qc, false
	}
	dot += 3
	if dot == 3 {
		// Empty digit run:
		return qc, false
	}

	// int64 accumulator: the cap check after each digit keeps it well
	// under wraparound no matter how long the run, incl. on 32-bit
	// platforms where int itself would wrap first:
	queue := int64(0)
	for i := 3; i < dot; i++ {
		digit := label[i] - '0'
		if digit > 9 {
			return qc, false
		}
		queue = queue*10 + int64(digit)
		if queue > MAX_QUEUE_NUM {
			return qc, false
		}
	}

	measureStart := dot + 3
	if measureStart > len(label) {
		return qc, false
	}
	under := strings.IndexByte(label[measureStart:], '_')
	if under < 0 {
		return qc, false
	}
	measure := label[measureStart+under+1:]

	kind := TX_PACKETS
	if rx {
		kind += 1
	}
	if measure == "bytes" {
		kind += 2
	}
	qc.Queue, qc.Kind = int(queue), kind
	return qc, true
}

// RegexLabelMatcher matches labels against an anchored pattern with
// capture groups for direction, measure and queue#; vendors disagree on
// the group order so the indices are part of the grammar definition.
type RegexLabelMatcher struct {
	regex *regexp.Regexp
	// 1-based capture group indices:
	dirGroup, measureGroup, queueGroup int
}

func NewRegexLabelMatcher(pattern string, dirGroup, measureGroup, queueGroup int) (*RegexLabelMatcher, error) {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	numGroups := regex.NumSubexp()
	for _, group := range []int{dirGroup, measureGroup, queueGroup} {
		if group < 1 || group > numGroups {
			return nil, fmt.Errorf(
				"%q: capture group %d out of range 1..%d",
				pattern, group, numGroups,
			)
		}
	}
	return &RegexLabelMatcher{regex, dirGroup, measureGroup, queueGroup}, nil
}

func (m *RegexLabelMatcher) Match(label string) (QueueCounter, bool) {
	qc := QueueCounter{}

	subMatch := m.regex.FindStringSubmatch(label)
	if subMatch == nil {
		return qc, false
	}
	queue, err := strconv.Atoi(subMatch[m.queueGroup])
	if err != nil || queue > MAX_QUEUE_NUM {
		return qc, false
	}

	kind := TX_PACKETS
	if subMatch[m.dirGroup] == "rx" {
		kind += 1
	}
	if subMatch[m.measureGroup] == "bytes" {
		kind += 2
	}
	qc.Queue, qc.Kind = queue, kind
	return qc, true
}

func mustRegexLabelMatcher(pattern string, dirGroup, measureGroup, queueGroup int) *RegexLabelMatcher {
	m, err := NewRegexLabelMatcher(pattern, dirGroup, measureGroup, queueGroup)
	if err != nil {
		panic(err)
	}
	return m
}

var defaultLabelMatcher = &DirDotLabelMatcher{}

// Vendors with label conventions of their own, keyed by the driver name
// as reported by ethtool:
var driverLabelMatchers = map[string]LabelMatcher{
	// Solarflare labels the measure w/ an rx_ prefix regardless of the
	// actual direction:
	"sfc": mustRegexLabelMatcher(`^(rx|tx)-(\d+)\.rx_(bytes|packets)$`, 1, 3, 2),
}

// MatcherForDriver returns the grammar for a driver: the common convention
// unless the driver has a registered one.
func MatcherForDriver(driver string) LabelMatcher {
	if m := driverLabelMatchers[driver]; m != nil {
		return m
	}
	return defaultLabelMatcher
}
