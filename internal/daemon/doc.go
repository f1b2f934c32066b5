// Package daemon wires configuration, collaborators, and the voting
// engine into the long-running tonearmd process.
//
// It enforces single-instance execution with a lock file and owns the
// IPC server lifecycle. All voting semantics live in internal/voting;
// the daemon only assembles and supervises.
package daemon
