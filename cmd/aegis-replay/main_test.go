package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coherencelabs/aegis"
)

func TestDecodeDrift(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantAlerts int
		wantTraces int64
		wantErr    bool
	}{
		{
			name:       "bare array",
			line:       `[{"alert_type": "integrity_degradation"}, {"alert_type": "value_drift"}]`,
			wantAlerts: 2,
			wantTraces: 2,
		},
		{
			name:       "envelope with traces_analyzed",
			line:       `{"alerts": [{"alert_type": "integrity_degradation"}], "traces_analyzed": 25}`,
			wantAlerts: 1,
			wantTraces: 25,
		},
		{
			name:       "envelope without traces_analyzed",
			line:       `{"alerts": [{}, {}, {}]}`,
			wantAlerts: 3,
			wantTraces: 3,
		},
		{
			name:       "empty envelope",
			line:       `{}`,
			wantAlerts: 0,
			wantTraces: 0,
		},
		{
			name:    "not json",
			line:    `drift happened, trust me`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts, traces, err := decodeDrift([]byte(tt.line))
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(alerts) != tt.wantAlerts {
				t.Errorf("alerts = %d, want %d", len(alerts), tt.wantAlerts)
			}
			if traces != tt.wantTraces {
				t.Errorf("traces = %d, want %d", traces, tt.wantTraces)
			}
		})
	}
}

func silentAegis(t *testing.T) *aegis.Aegis {
	t.Helper()
	cfg := aegis.Default()
	cfg.Console.Enabled = false
	a, _, err := aegis.New(cfg)
	if err != nil {
		t.Fatalf("aegis.New() error: %v", err)
	}
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func setKind(t *testing.T, kind string) {
	t.Helper()
	prev := recordKind
	recordKind = kind
	t.Cleanup(func() { recordKind = prev })
}

func TestReplay_CountsReplayedAndSkipped(t *testing.T) {
	setKind(t, "integrity")
	a := silentAegis(t)

	input := strings.NewReader(`{"checkpoint": {"verdict": "clear"}}

just some text
{"checkpoint": {"verdict": "review_needed"}, "proceed": true}
`)

	replayed, skipped, err := replay(context.Background(), a, input)
	if err != nil {
		t.Fatalf("replay() error: %v", err)
	}
	if replayed != 2 {
		t.Errorf("replayed = %d, want 2", replayed)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
}

func TestReplay_AllKinds(t *testing.T) {
	tests := []struct {
		kind string
		line string
	}{
		{"integrity", `{"checkpoint": {"verdict": "clear"}}`},
		{"verification", `{"verified": true, "trace_id": "tr-1"}`},
		{"coherence", `{"compatible": true, "score": 0.9}`},
		{"drift", `{"alerts": [{"alert_type": "integrity_degradation"}], "traces_analyzed": 10}`},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			setKind(t, tt.kind)
			a := silentAegis(t)

			replayed, skipped, err := replay(context.Background(), a, strings.NewReader(tt.line+"\n"))
			if err != nil {
				t.Fatalf("replay() error: %v", err)
			}
			if replayed != 1 || skipped != 0 {
				t.Errorf("replayed/skipped = %d/%d, want 1/0", replayed, skipped)
			}
		})
	}
}

func TestReplayPasses_Repeat(t *testing.T) {
	setKind(t, "integrity")
	a := silentAegis(t)

	path := filepath.Join(t.TempDir(), "checks.jsonl")
	lines := `{"checkpoint": {"verdict": "clear"}}
{"checkpoint": {"verdict": "review_needed"}}
`
	if err := os.WriteFile(path, []byte(lines), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	prev := inputPath
	inputPath = path
	t.Cleanup(func() { inputPath = prev })

	replayed, skipped, err := replayPasses(context.Background(), a, 3)
	if err != nil {
		t.Fatalf("replayPasses() error: %v", err)
	}
	if replayed != 6 {
		t.Errorf("replayed = %d, want 6", replayed)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
}

func TestReplayLine_UnknownKind(t *testing.T) {
	setKind(t, "frappuccino")
	a := silentAegis(t)

	if err := replayLine(context.Background(), a.Recorder(), []byte(`{}`)); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestBuildConfig_Stdout(t *testing.T) {
	prevStdout, prevMetrics, prevEndpoint := useStdout, withMetrics, endpoint
	t.Cleanup(func() { useStdout, withMetrics, endpoint = prevStdout, prevMetrics, prevEndpoint })

	useStdout = true
	withMetrics = true
	endpoint = ""

	cfg := buildConfig()
	if !cfg.Tracing.Enabled || cfg.Tracing.Exporter != "stdout" {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Exporter != "stdout" {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
	if cfg.ServiceName != "aegis-replay" {
		t.Errorf("service = %q", cfg.ServiceName)
	}
}
