// Package daemon wires the queue worker and the HTTP control plane into a
// single lifecycle with flock-based locking to prevent multiple hopperd
// instances from binding the same log directory.
package daemon
