// Package immunity tracks which tracks are protected from the gong.
//
// The registry is a grow-only set of track keys held for the lifetime of
// the process. Tracks enter it when a gong quorum sweeps them away (so the
// same track cannot be gonged twice) or when an immunity vote reaches
// quorum. Entries never expire.
package immunity
