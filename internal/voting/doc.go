// Package voting implements the quorum votes that gate destructive queue
// actions: gonging the current track, promoting a queued track, granting a
// track immunity, and flushing the whole queue.
//
// All topic state lives inside a single Engine constructed once at startup.
// Every mutation happens in one locked step; calls out to the playback
// daemon, the messenger, and the action log happen outside the lock, so a
// ballot can observe a slightly stale queue snapshot but a recorded ballot
// is never lost or double counted. Quorum limits are read from the live
// config.LimitStore on every check, never cached in a topic.
package voting
