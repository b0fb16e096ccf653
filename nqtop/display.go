// Terminal display for the queue monitor.

package nqtop

import (
	"fmt"
	"strconv"
	"time"

	"github.com/docker/go-units"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/eparparita/nic-queue-top/internal/utils"
	"github.com/eparparita/nic-queue-top/qstats"
)

type DisplayConfig struct {
	// Start w/ human readable units instead of raw counts; `u' toggles
	// at runtime:
	HumanUnits bool `yaml:"human_units"`
}

func DefaultDisplayConfig() *DisplayConfig {
	return &DisplayConfig{}
}

// Gbps derivation for the byte columns of the totals:
const GBPS_FACTOR = 8. / 1e9

var displayColumnHeaders = []string{"Queue", "TX packets", "RX packets", "TX bytes", "RX bytes"}

// Column# for a counter kind; 0 is the queue#:
func kindColumn(kind qstats.CounterKind) int {
	return int(kind) + 1
}

const displayBar = "------------"

// Display owns the tview application. The monitor goroutine posts cycle
// results via Update, every other access happens on the UI thread.
type Display struct {
	app    *tview.Application
	header *tview.TextView
	table  *tview.Table
	footer *tview.TextView

	numQueues  int
	humanUnits bool

	// Interface description for the header line:
	ifName, driver string
}

func NewDisplay(cfg *DisplayConfig, ifName, driver string, numQueues int) *Display {
	d := &Display{
		app:        tview.NewApplication(),
		header:     tview.NewTextView().SetDynamicColors(true),
		table:      tview.NewTable(),
		footer:     tview.NewTextView().SetDynamicColors(true),
		numQueues:  numQueues,
		humanUnits: cfg.HumanUnits,
		ifName:     ifName,
		driver:     driver,
	}

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(d.header, 2, 0, false).
		AddItem(d.table, 0, 1, true).
		AddItem(d.footer, 1, 0, false)

	d.app.SetRoot(flex, true).SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Rune() {
		case 'q', 'Q':
			d.app.Stop()
			return nil
		case 'u', 'U':
			d.humanUnits = !d.humanUnits
			return nil
		}
		return ev
	})

	d.renderHeader()
	d.renderTableFrame()
	return d
}

// Run blocks until Stop (`q' keypress or a monitor error); the terminal
// is restored before it returns:
func (d *Display) Run() error {
	return d.app.Run()
}

func (d *Display) Stop() {
	d.app.Stop()
}

// Update posts one cycle result to the UI thread:
func (d *Display) Update(result *CycleResult) {
	d.app.QueueUpdateDraw(func() {
		d.renderHeader()
		d.renderResult(result)
	})
}

func (d *Display) renderHeader() {
	uptime, load := utils.UptimeAndLoad()
	d.header.SetText(fmt.Sprintf(
		"[yellow]nqtop[-] %s driver=%s queues=%d cpus=%d %s %s load=%.2f up=%s\n(q)uit, (u)nits",
		d.ifName, d.driver, d.numQueues, utils.NumCpus,
		utils.OSName, utils.OSRelease, load, formatUptime(uptime),
	))
}

// The fixed rows around the per-queue ones:
func (d *Display) renderTableFrame() {
	setBarRow := func(row int) {
		d.table.SetCell(row, 0, valueCell("-----"))
		for col := 1; col < len(displayColumnHeaders); col++ {
			d.table.SetCell(row, col, valueCell(displayBar))
		}
	}

	for col, header := range displayColumnHeaders {
		d.table.SetCell(
			0, col,
			tview.NewTableCell(header).
				SetAlign(tview.AlignRight).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false),
		)
	}
	setBarRow(1)
	setBarRow(2 + d.numQueues)
	d.table.SetCell(3+d.numQueues, 0, labelCell("Total"))
	d.table.SetCell(4+d.numQueues, 0, labelCell("Gbps"))
}

func labelCell(text string) *tview.TableCell {
	return tview.NewTableCell(text).
		SetAlign(tview.AlignRight).
		SetTextColor(tcell.ColorYellow).
		SetSelectable(false)
}

func valueCell(text string) *tview.TableCell {
	return tview.NewTableCell(text).
		SetAlign(tview.AlignRight).
		SetSelectable(false)
}

func (d *Display) renderResult(result *CycleResult) {
	for queue, deltas := range result.Deltas {
		row := 2 + queue
		d.table.SetCell(row, 0, labelCell(strconv.Itoa(queue)))
		for kind, delta := range deltas {
			d.table.SetCell(
				row, kindColumn(qstats.CounterKind(kind)),
				valueCell(d.formatDelta(qstats.CounterKind(kind), delta)),
			)
		}
	}

	totalRow := 3 + d.numQueues
	for kind, delta := range result.Total {
		d.table.SetCell(
			totalRow, kindColumn(qstats.CounterKind(kind)),
			valueCell(d.formatDelta(qstats.CounterKind(kind), delta)),
		)
	}

	gbpsRow := totalRow + 1
	d.table.SetCell(gbpsRow, kindColumn(qstats.TX_PACKETS), valueCell(""))
	d.table.SetCell(gbpsRow, kindColumn(qstats.RX_PACKETS), valueCell(""))
	d.table.SetCell(gbpsRow, kindColumn(qstats.TX_BYTES), valueCell(formatGbps(result.Total[qstats.TX_BYTES])))
	d.table.SetCell(gbpsRow, kindColumn(qstats.RX_BYTES), valueCell(formatGbps(result.Total[qstats.RX_BYTES])))

	d.renderFooter(result.Qdisc)
}

func (d *Display) renderFooter(qdiscResult *QdiscResult) {
	if qdiscResult == nil {
		d.footer.SetText("")
		return
	}
	d.footer.SetText(fmt.Sprintf(
		"qdisc %s: drops/s=%d requeues/s=%d backlog=%s",
		qdiscResult.Kind, qdiscResult.Drops, qdiscResult.Requeues,
		units.HumanSize(float64(qdiscResult.Backlog)),
	))
}

// Byte columns honor the units toggle; packet counts stay numeric either
// way:
func (d *Display) formatDelta(kind qstats.CounterKind, delta int64) string {
	if d.humanUnits && (kind == qstats.TX_BYTES || kind == qstats.RX_BYTES) {
		return units.HumanSize(float64(delta)) + "/s"
	}
	return strconv.FormatInt(delta, 10)
}

func formatGbps(byteDelta int64) string {
	return strconv.FormatFloat(float64(byteDelta)*GBPS_FACTOR, 'f', 3, 64)
}

func formatUptime(uptime time.Duration) string {
	days := int(uptime / (24 * time.Hour))
	hours := int(uptime/time.Hour) % 24
	minutes := int(uptime/time.Minute) % 60
	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
