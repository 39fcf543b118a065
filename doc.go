// Package aegis exports AI agent evaluation signals through OpenTelemetry.
//
// Aegis maps integrity checkpoints, trace verifications, coherence checks,
// and drift alerts produced by evaluation pipelines onto OTel spans, events,
// and metrics under the aip.* and aap.* attribute namespaces. It also unifies
// structured logging (Zap) and provider setup behind a minimal,
// context-first API.
//
// # Guarantees
//
//   - Process Safety: Aegis never terminates the process (no os.Exit, no panic).
//   - Concurrency: All Logger, Recorder, and Instruments APIs are safe for concurrent use.
//   - Failure Isolation: Telemetry backend failures never crash application logic.
//   - Lifecycle: Shutdown(ctx) flushes all buffers on a best-effort basis.
//
// # Architecture
//
//   - Logs: Synchronous, structured, strongly typed.
//   - Traces: Asynchronous, sampled, batched; evaluation spans end immediately.
//   - Metrics: Counters and histograms keyed by verdict/result labels.
//   - Correlation: Automatic injection of trace_id/span_id from context.Context.
//
// Aegis is designed for long-running evaluation services. Recording is
// passive: it observes results, it never alters them.
package aegis
