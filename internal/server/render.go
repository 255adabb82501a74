package server

import (
	_ "embed"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/agbru/hostmon/internal/format"
	"github.com/agbru/hostmon/internal/stats"
)

//go:embed templates/index.html
var indexTemplate string

// renderCoresSection builds the per-core fieldset, or "" when the snapshot
// carries no per-core data.
func renderCoresSection(cpu stats.CPUStats) string {
	if cpu.CoreCount == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<fieldset><legend>CPU — per core</legend>")
	for i, core := range cpu.PerCore {
		pct := format.Percent(core.TotalPercent)
		fmt.Fprintf(&b, `<p>Core %d: <progress value=%q max="100">%s%%</progress> %s%%</p>`, i, pct, pct, pct)
	}
	b.WriteString("</fieldset>")
	return b.String()
}

// renderPage substitutes a snapshot into the embedded dashboard template.
// Placeholder substitution mirrors the template's {name} markers; the
// hostname is the only free-form string and is HTML-escaped.
func renderPage(snap stats.Snapshot, ttlSeconds int) string {
	replacer := strings.NewReplacer(
		"{hostname}", html.EscapeString(snap.Hostname),
		"{cpu_percent}", format.Percent(snap.CPU.Overall.TotalPercent),
		"{cpu_user_percent}", format.Percent(snap.CPU.Overall.UserPercent),
		"{cpu_system_percent}", format.Percent(snap.CPU.Overall.SystemPercent),
		"{cpu_nice_percent}", format.Percent(snap.CPU.Overall.NicePercent),
		"{cpu_cores_section}", renderCoresSection(snap.CPU),
		"{memory_total_mb}", strconv.FormatUint(format.Mebibytes(snap.MemoryTotal), 10),
		"{memory_used_mb}", strconv.FormatUint(format.Mebibytes(snap.MemoryUsed), 10),
		"{memory_available_mb}", strconv.FormatUint(format.Mebibytes(snap.MemoryAvailable), 10),
		"{memory_cached_mb}", strconv.FormatUint(format.Mebibytes(snap.MemoryCached), 10),
		"{memory_free_mb}", strconv.FormatUint(format.Mebibytes(snap.MemoryFree), 10),
		"{uptime}", format.Uptime(snap.Uptime),
		"{load_avg}", fmt.Sprintf("%.2f", snap.Load1),
		"{timestamp}", snap.CapturedAt.Format("2006-01-02 15:04:05"),
		"{refresh_seconds}", strconv.Itoa(ttlSeconds),
	)
	return replacer.Replace(indexTemplate)
}
