// Command hopper is the operator CLI for the filesystem job queue: submit,
// claim, release, finalize, move, inspect, and process jobs from the shell.
package main
