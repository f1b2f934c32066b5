// Package player is a thin JSON HTTP client for the external playback
// daemon that owns the real queue.
//
// It implements the voting engine's QueueSnapshot and Actuator
// collaborators. Nothing is cached: every call fetches fresh state, and
// slot indices are only meaningful against the snapshot they came from.
package player
