// Package metrics provides an observability framework for chore store metrics.
//
// # Design Philosophy
//
// This package implements the Null Object pattern to enable metrics collection
// without requiring explicit nil checks throughout the codebase. By default,
// the repository uses NoopRecorder which implements the Recorder interface with
// no-op methods.
//
// # Usage Pattern
//
// Components receive a Recorder through dependency injection:
//
//	repo, err := chore.NewRepository(ctx, adapter,
//	    chore.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// # Export
//
// The CLI is short-lived, so instead of serving /metrics it writes the registry
// to a node_exporter textfile (see WriteTextfile) after each command.
package metrics
