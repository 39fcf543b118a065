// Command aegis-replay replays JSONL evaluation records as OpenTelemetry
// spans and metrics. Each input line is one record of the chosen kind.
//
// Usage:
//
//	aegis-replay --input checks.jsonl --kind integrity --endpoint localhost:4317
//	cat verifications.jsonl | aegis-replay --kind verification --stdout
//	aegis-replay --input drift.jsonl --kind drift --endpoint collector:4318 --protocol http --metrics
//	aegis-replay --input checks.jsonl --endpoint localhost:4317 --metrics --repeat 500
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coherencelabs/aegis"
	"github.com/coherencelabs/aegis/fields"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var (
	inputPath   string
	recordKind  string
	endpoint    string
	protocol    string
	useStdout   bool
	withMetrics bool
	repeatCount int

	rootCmd = &cobra.Command{
		Use:           "aegis-replay",
		Short:         "Replay JSONL evaluation records through OpenTelemetry",
		Long:          "Reads newline-delimited JSON evaluation records and re-emits them as aegis spans and metrics, against an OTLP collector or stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runReplay,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "JSONL file to replay, - for stdin")
	rootCmd.Flags().StringVarP(&recordKind, "kind", "k", "integrity", "record kind: integrity, verification, coherence, drift")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "OTLP endpoint (host:port or URL)")
	rootCmd.Flags().StringVar(&protocol, "protocol", "grpc", "OTLP protocol: grpc or http")
	rootCmd.Flags().BoolVar(&useStdout, "stdout", false, "print spans to stdout instead of exporting")
	rootCmd.Flags().BoolVar(&withMetrics, "metrics", false, "also export metric instruments")
	rootCmd.Flags().IntVar(&repeatCount, "repeat", 1, "replay the input N times, for load generation (file input only)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aegis-replay:", err)
		os.Exit(1)
	}
}

func runReplay(cmd *cobra.Command, _ []string) error {
	if !useStdout && endpoint == "" {
		return fmt.Errorf("either --endpoint or --stdout is required")
	}
	if repeatCount < 1 {
		return fmt.Errorf("--repeat must be at least 1")
	}
	if repeatCount > 1 && (inputPath == "" || inputPath == "-") {
		return fmt.Errorf("--repeat requires --input pointing at a file")
	}

	cfg := buildConfig()
	a, warnings, err := aegis.New(cfg)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "aegis-replay:", w.Error())
	}
	defer func() {
		// Shutdown flushes the batch processors so replayed spans reach the
		// exporter before the process exits.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Shutdown(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "aegis-replay: shutdown:", err)
		}
	}()

	replayed, skipped, err := replayPasses(cmd.Context(), a, repeatCount)
	if err != nil {
		return err
	}
	a.Info(cmd.Context(), "replay complete",
		aegis.Int("replayed", replayed),
		aegis.Int("skipped", skipped),
		aegis.String("kind", recordKind))
	return nil
}

// replayPasses streams the input through replay the requested number of
// times, reopening the file per pass.
func replayPasses(ctx context.Context, a *aegis.Aegis, passes int) (replayed, skipped int, err error) {
	for pass := 0; pass < passes; pass++ {
		in, closeIn, err := openInput(inputPath)
		if err != nil {
			return replayed, skipped, err
		}
		r, s, err := replay(ctx, a, in)
		closeIn()
		if err != nil {
			return replayed, skipped, err
		}
		replayed += r
		skipped += s
	}
	return replayed, skipped, nil
}

func buildConfig() aegis.Config {
	cfg := aegis.Default().WithService("aegis-replay")
	cfg.Tracing.Enabled = true
	cfg.Tracing.Endpoint = endpoint
	cfg.Tracing.Protocol = protocol
	if useStdout {
		cfg.Tracing.Exporter = "stdout"
	}
	if withMetrics {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Endpoint = endpoint
		cfg.Metrics.Protocol = protocol
		if useStdout {
			cfg.Metrics.Exporter = "stdout"
		}
	}
	return cfg
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// driftLine is the envelope drift records are exported in. A bare JSON array
// of alerts is accepted too.
type driftLine struct {
	Alerts         []aegis.DriftAlert `json:"alerts"`
	TracesAnalyzed *int64             `json:"traces_analyzed"`
}

func replay(ctx context.Context, a *aegis.Aegis, in io.Reader) (replayed, skipped int, err error) {
	rec := a.Recorder()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := replayLine(ctx, rec, line); err != nil {
			skipped++
			a.Warn(ctx, "skipping record", fields.ErrorMsg(err), aegis.Int("line", lineNo))
			continue
		}
		replayed++
	}
	if err := scanner.Err(); err != nil {
		return replayed, skipped, fmt.Errorf("read input: %w", err)
	}
	return replayed, skipped, nil
}

func replayLine(ctx context.Context, rec *aegis.Recorder, line []byte) error {
	switch recordKind {
	case "integrity":
		signal, err := aegis.DecodeIntegritySignal(line)
		if err != nil {
			return err
		}
		rec.RecordIntegrityCheck(ctx, signal)
	case "verification":
		result, err := aegis.DecodeVerificationResult(line)
		if err != nil {
			return err
		}
		rec.RecordVerification(ctx, result)
	case "coherence":
		result, err := aegis.DecodeCoherenceResult(line)
		if err != nil {
			return err
		}
		rec.RecordCoherence(ctx, result)
	case "drift":
		alerts, traces, err := decodeDrift(line)
		if err != nil {
			return err
		}
		rec.RecordDrift(ctx, alerts, traces)
	default:
		return fmt.Errorf("unknown kind %q (want integrity, verification, coherence, or drift)", recordKind)
	}
	return nil
}

func decodeDrift(line []byte) ([]aegis.DriftAlert, int64, error) {
	if len(line) > 0 && line[0] == '[' {
		alerts, err := aegis.DecodeDriftAlerts(line)
		if err != nil {
			return nil, 0, err
		}
		return alerts, int64(len(alerts)), nil
	}
	var envelope driftLine
	if err := json.Unmarshal(line, &envelope); err != nil {
		return nil, 0, fmt.Errorf("unmarshal drift record: %w", err)
	}
	traces := int64(len(envelope.Alerts))
	if envelope.TracesAnalyzed != nil {
		traces = *envelope.TracesAnalyzed
	}
	return envelope.Alerts, traces, nil
}
