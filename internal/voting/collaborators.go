package voting

import (
	"context"

	"tonearm/internal/trackid"
)

// Slot is one externally-numbered position in the live playback queue.
type Slot struct {
	Index int
	Track trackid.Ref
}

// QueueSnapshot reads the external player's queue. Implementations must not
// cache across calls; slot indices are only meaningful against the snapshot
// they came from.
type QueueSnapshot interface {
	// NowPlaying returns the currently playing track, or ok=false when the
	// player is idle.
	NowPlaying(ctx context.Context) (ref trackid.Ref, ok bool, err error)
	Queue(ctx context.Context) ([]Slot, error)
}

// Actuator applies quorum-approved actions to the external player. Failures
// are logged and announced; vote state is finalized regardless, so a flaky
// player can never wedge a topic.
type Actuator interface {
	// Skip advances playback past the current track.
	Skip(ctx context.Context) error
	// Reorder moves the given slot up to play immediately after the
	// current track.
	Reorder(ctx context.Context, slot int) error
	// Flush clears the entire queue.
	Flush(ctx context.Context) error
	// InsertAfterCurrent inserts the URI immediately after the current
	// position and returns the slot it landed in.
	InsertAfterCurrent(ctx context.Context, uri string) (int, error)
	// Remove deletes the given slot from the queue.
	Remove(ctx context.Context, slot int) error
}

// Messenger delivers user-visible vote outcomes to chat. Sends are
// fire-and-forget; the engine never depends on delivery.
type Messenger interface {
	Send(ctx context.Context, text string) error
}

// ActionLog records user actions for auditing. Best effort only; the
// engine swallows failures.
type ActionLog interface {
	Record(ctx context.Context, user, action string) error
}
