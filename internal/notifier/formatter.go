package notifier

import (
	"fmt"
	"strings"
	"time"

	"FlowState/internal/model"
)

// regimeColors are the embed accent colors per regime.
var regimeColors = map[model.Regime]int{
	model.RegimeAggressive: 0x10B981, // green
	model.RegimeBalanced:   0xF59E0B, // amber
	model.RegimeDefensive:  0xEF4444, // red
}

var metricDisplayNames = map[model.Metric]string{
	model.MetricWALCL:      "Fed Balance Sheet",
	model.MetricRRP:        "Reverse Repo",
	model.MetricHYSpread:   "HY Credit Spread",
	model.MetricDXY:        "Dollar Index",
	model.MetricStablecoin: "Stablecoin Supply",
}

func signalIcon(signal int) string {
	switch {
	case signal > 0:
		return "🟢"
	case signal < 0:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatBriefing builds the daily briefing embed: regime headline,
// per-indicator signal lines, the BTC gate, and the narrative.
func FormatBriefing(score model.CompositeScore, info model.RegimeInfo, expl model.Explanation, snaps model.Snapshots, dashboardURL string) Embed {
	var lines []string
	for _, m := range model.ScoredMetrics {
		entry, ok := score.Entries[m]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s **%s** %+d · %s",
			signalIcon(entry.Signal), metricDisplayNames[m], entry.Signal, entry.Reason))
	}

	fields := []EmbedField{
		{
			Name: fmt.Sprintf("Composite Score: %+.1f / %.1f", score.Total, score.MaxPossible),
			Value: strings.Join(lines, "\n"),
		},
		{Name: "BTC Trend Gate", Value: formatGate(snaps.BTC)},
	}
	if expl.Body != "" {
		fields = append(fields, EmbedField{Name: "Read", Value: expl.Body})
	}
	if expl.Warnings != "" {
		fields = append(fields, EmbedField{Name: "Warnings", Value: expl.Warnings})
	}
	if dashboardURL != "" {
		fields = append(fields, EmbedField{Name: "Dashboard", Value: dashboardURL})
	}

	return Embed{
		Title:       fmt.Sprintf("Liquidity Briefing · %s", strings.ToUpper(info.Regime.String())),
		Description: expl.Headline,
		Color:       regimeColors[info.Regime],
		Fields:      fields,
		Footer:      &EmbedFooter{Text: expl.Posture},
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

func formatGate(btc model.BTCSnapshot) string {
	if btc.CurrentPrice == nil || btc.MA200 == nil {
		return "❌ insufficient price history"
	}
	icon := "❌ below"
	if btc.AboveMA {
		icon = "✅ above"
	}
	out := fmt.Sprintf("%s 200DMA · $%.0f vs $%.0f", icon, *btc.CurrentPrice, *btc.MA200)
	if btc.Distance != nil {
		out += fmt.Sprintf(" (%+.1f%%)", *btc.Distance*100)
	}
	return out
}

// FormatFlipAlert builds the alert embed sent when a regime flip confirms.
func FormatFlipAlert(from, to model.Regime, score float64, info model.RegimeInfo) Embed {
	desc := fmt.Sprintf("**%s → %s** at composite score %+.1f",
		strings.ToUpper(from.String()), strings.ToUpper(to.String()), score)
	if info.ScoreTrend != "" {
		desc += fmt.Sprintf("\nScore trend: %s", info.ScoreTrend)
	}
	return Embed{
		Title:       "⚠️ Regime Flip",
		Description: desc,
		Color:       regimeColors[to],
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}
