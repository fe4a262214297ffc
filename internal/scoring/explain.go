package scoring

import (
	"fmt"
	"strings"

	"FlowState/internal/model"
)

// stretchWarning is the |distance| from the 200-sample MA beyond which BTC
// is flagged as extended.
const stretchWarning = 0.30

// Explain generates the opinionated narrative for the current regime from
// the scores and snapshots that produced it.
func Explain(regime model.Regime, score model.CompositeScore, snaps model.Snapshots, info model.RegimeInfo) model.Explanation {
	switch regime {
	case model.RegimeAggressive:
		return explainAggressive(score, snaps, info)
	case model.RegimeDefensive:
		return explainDefensive(score, snaps, info)
	default:
		return explainBalanced(score, snaps, info)
	}
}

func explainAggressive(score model.CompositeScore, snaps model.Snapshots, info model.RegimeInfo) model.Explanation {
	var parts []string

	if e := score.Entries[model.MetricWALCL]; e.Signal > 0 {
		snap := snaps.Metrics[model.MetricWALCL]
		accelStr := ""
		if snap.Acceleration != nil && *snap.Acceleration > 0 {
			accelStr = " and accelerating"
		}
		delta := 0.0
		if snap.Delta != nil {
			delta = *snap.Delta
		}
		parts = append(parts, fmt.Sprintf("Fed liquidity expanding at %+.1f%% over 4 weeks%s.", delta*100, accelStr))
	}
	if e := score.Entries[model.MetricRRP]; e.Signal > 0 {
		parts = append(parts, "Reverse repo drawdown continues, capital returning to risk markets.")
	}
	if e := score.Entries[model.MetricHYSpread]; e.Signal > 0 {
		parts = append(parts, "Credit spreads tightening, signaling risk appetite.")
	}
	if e := score.Entries[model.MetricStablecoin]; e.Signal > 0 {
		snap := snaps.Metrics[model.MetricStablecoin]
		delta := 0.0
		if snap.Delta != nil {
			delta = *snap.Delta
		}
		parts = append(parts, fmt.Sprintf("Stablecoin supply growing %+.1f%% over 21 days.", delta*100))
	}
	if snaps.BTC.Distance != nil {
		parts = append(parts, fmt.Sprintf("BTC trading %.1f%% above 200DMA.", *snaps.BTC.Distance*100))
	}

	body := "Multiple liquidity indicators aligned bullish."
	if len(parts) > 0 {
		body = strings.Join(parts, " ")
	}

	// Surface any dissenting signals.
	var dissent []string
	for _, m := range model.ScoredMetrics {
		if e := score.Entries[m]; e.Signal < 0 {
			dissent = append(dissent, fmt.Sprintf("%s: %s", strings.ToUpper(m.String()), e.Reason))
		}
	}
	if len(dissent) > 0 {
		body += " However, watch: " + strings.Join(dissent, "; ")
	}

	return model.Explanation{
		Headline: "AGGRESSIVE" + daySuffix(info),
		Body:     body,
		Posture:  "Full risk-on appropriate. Consider max exposure to quality assets.",
		Warnings: overlayWarnings(snaps),
	}
}

func explainDefensive(score model.CompositeScore, snaps model.Snapshots, info model.RegimeInfo) model.Explanation {
	var parts []string

	if e := score.Entries[model.MetricWALCL]; e.Signal < 0 {
		snap := snaps.Metrics[model.MetricWALCL]
		delta := 0.0
		if snap.Delta != nil {
			delta = *snap.Delta
		}
		parts = append(parts, fmt.Sprintf("Fed balance sheet contracting %.1f%% over 4 weeks.", delta*100))
	}
	if e := score.Entries[model.MetricRRP]; e.Signal < 0 {
		parts = append(parts, "Reverse repo building, capital fleeing risk markets for safety.")
	}
	if e := score.Entries[model.MetricHYSpread]; e.Signal < 0 {
		snap := snaps.Metrics[model.MetricHYSpread]
		levelStr := ""
		if snap.Current != nil {
			levelStr = fmt.Sprintf(" now at %.0fbps", *snap.Current*100)
		}
		parts = append(parts, fmt.Sprintf("Credit spreads widening%s, signaling stress.", levelStr))
	}
	if e := score.Entries[model.MetricDXY]; e.Signal < 0 {
		parts = append(parts, "Dollar strengthening, adding pressure to risk assets.")
	}
	if e := score.Entries[model.MetricStablecoin]; e.Signal < 0 {
		parts = append(parts, "Stablecoin supply contracting, capital exiting crypto.")
	}
	if !snaps.BTC.AboveMA && snaps.BTC.Distance != nil {
		parts = append(parts, fmt.Sprintf("BTC trading %.1f%% below 200DMA.", -*snaps.BTC.Distance*100))
	}

	body := "Multiple liquidity indicators aligned bearish."
	if len(parts) > 0 {
		body = strings.Join(parts, " ")
	}

	return model.Explanation{
		Headline: "DEFENSIVE" + daySuffix(info),
		Body:     body,
		Posture:  "Risk-off posture. Reduce exposure, raise cash, avoid leverage.",
		Warnings: overlayWarnings(snaps),
	}
}

func explainBalanced(score model.CompositeScore, snaps model.Snapshots, info model.RegimeInfo) model.Explanation {
	var bullish, bearish []string
	for _, m := range model.ScoredMetrics {
		e := score.Entries[m]
		line := fmt.Sprintf("%s: %s", strings.ToUpper(m.String()), e.Reason)
		switch {
		case e.Signal > 0:
			bullish = append(bullish, line)
		case e.Signal < 0:
			bearish = append(bearish, line)
		}
	}

	var parts []string
	if len(bullish) > 0 {
		parts = append(parts, "Bullish: "+strings.Join(bullish, "; ")+".")
	}
	if len(bearish) > 0 {
		parts = append(parts, "Bearish: "+strings.Join(bearish, "; ")+".")
	}
	if len(parts) == 0 {
		parts = append(parts, "Mixed signals across liquidity indicators.")
	}

	switch info.ScoreTrend {
	case model.ScoreImproving:
		parts = append(parts, "Overall trend improving.")
	case model.ScoreDeteriorating:
		parts = append(parts, "Overall trend deteriorating.")
	}

	if info.PendingFlip && info.DaysUntilFlip != nil && *info.DaysUntilFlip > 0 {
		parts = append(parts, fmt.Sprintf("Potential flip to %s in %d day(s) if trend continues.",
			strings.ToUpper(info.ProposedRegime.String()), *info.DaysUntilFlip))
	}

	return model.Explanation{
		Headline: "BALANCED" + daySuffix(info),
		Body:     strings.Join(parts, " "),
		Posture:  "Neutral posture. Maintain moderate exposure, be selective.",
		Warnings: overlayWarnings(snaps),
	}
}

func daySuffix(info model.RegimeInfo) string {
	if info.DaysInRegime == nil {
		return ""
	}
	return fmt.Sprintf(" (Day %d of regime)", *info.DaysInRegime)
}

func overlayWarnings(snaps model.Snapshots) string {
	d := snaps.BTC.Distance
	if d == nil || *d > -stretchWarning && *d < stretchWarning {
		return ""
	}
	if *d > 0 {
		return "BTC extended >30% above 200DMA, consider scaling out"
	}
	return "BTC deeply oversold >30% below 200DMA, potential bounce zone"
}
