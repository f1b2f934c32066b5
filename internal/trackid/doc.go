// Package trackid normalizes heterogeneous track references into stable
// comparison keys.
//
// Chat users refer to tracks by bare titles, by title/artist pairs, or by
// whatever the playback daemon reports for a queue slot. KeyOf collapses
// all of those shapes into one canonical key so the voting topics and the
// immunity registry can compare tracks without caring where the reference
// came from.
package trackid
