package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowState/internal/model"
)

func fp(v float64) *float64 { return &v }

func TestDiscordNotifier_Send(t *testing.T) {
	var received webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dn := NewDiscordNotifier(srv.URL)
	err := dn.Send(Embed{Title: "hello", Color: 0x10B981})
	require.NoError(t, err)

	assert.Equal(t, "FlowState", received.Username)
	require.Len(t, received.Embeds, 1)
	assert.Equal(t, "hello", received.Embeds[0].Title)
}

func TestDiscordNotifier_SendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	dn := NewDiscordNotifier(srv.URL)
	err := dn.Send(Embed{Title: "hello"})
	assert.Error(t, err)
}

func TestSendWithRetry_RecoversAfterFailure(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dn := NewDiscordNotifier(srv.URL)
	err := dn.SendWithRetry(context.Background(), Embed{Title: "retry me"}, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestFormatBriefing(t *testing.T) {
	score := model.CompositeScore{
		Total:       3.5,
		MaxPossible: 6.5,
		Entries: map[model.Metric]model.ScoreEntry{
			model.MetricWALCL:      {Signal: 1, Reason: "Expanding +1.2%"},
			model.MetricRRP:        {Signal: 1, Reason: "Draining -6.0%"},
			model.MetricHYSpread:   {Signal: 0, Reason: "Stable (+0.1%) (320bps)"},
			model.MetricDXY:        {Signal: -1, Reason: "Strengthening +1.0%"},
			model.MetricStablecoin: {Signal: 1, Reason: "Growing +4.0% ($250B)"},
		},
	}
	info := model.RegimeInfo{Regime: model.RegimeBalanced}
	expl := model.Explanation{Headline: "BALANCED", Body: "Mixed signals.", Posture: "Neutral posture."}
	snaps := model.Snapshots{BTC: model.BTCSnapshot{
		CurrentPrice: fp(64000), MA200: fp(58000), AboveMA: true, Distance: fp(0.1034),
	}}

	embed := FormatBriefing(score, info, expl, snaps, "https://dash.example")

	assert.Contains(t, embed.Title, "BALANCED")
	assert.Equal(t, regimeColors[model.RegimeBalanced], embed.Color)
	require.NotEmpty(t, embed.Fields)
	assert.Contains(t, embed.Fields[0].Name, "+3.5 / 6.5")
	lines := strings.Split(embed.Fields[0].Value, "\n")
	assert.Len(t, lines, 5, "one line per scored indicator")
	assert.Contains(t, embed.Fields[1].Value, "✅ above")
	assert.Contains(t, embed.Fields[1].Value, "+10.3%")
}

func TestFormatFlipAlert(t *testing.T) {
	embed := FormatFlipAlert(model.RegimeBalanced, model.RegimeDefensive, -4.5, model.RegimeInfo{ScoreTrend: model.ScoreDeteriorating})
	assert.Contains(t, embed.Description, "BALANCED → DEFENSIVE")
	assert.Contains(t, embed.Description, "-4.5")
	assert.Equal(t, regimeColors[model.RegimeDefensive], embed.Color)
}
