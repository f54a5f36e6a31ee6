// Package logging constructs the slog loggers used by the hopper CLI and the
// hopperd daemon.
//
// Two formats are supported: a compact console handler for interactive use
// and a JSON handler for machine consumption. Output can fan out to stdout,
// stderr, and log files simultaneously. The queue core itself never logs;
// only the long-running surfaces (worker loop, HTTP control plane, daemon
// lifecycle) do.
package logging
