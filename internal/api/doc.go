// Package api defines the transport-friendly request and response types
// shared by the HTTP control plane and the CLI's JSON output, plus the
// conversions from internal queue types.
package api
