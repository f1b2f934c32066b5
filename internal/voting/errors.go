package voting

import "errors"

// Ballot rejection reasons. All of them are reported back to chat through
// the messenger; none of them is a fault the dispatcher needs to handle.
var (
	// ErrNothingPlaying means a gong ballot arrived while the player was idle.
	ErrNothingPlaying = errors.New("nothing is playing")

	// ErrImmune means the targeted track is protected from the gong.
	ErrImmune = errors.New("track is immune")

	// ErrCapReached means the user spent their ballot allowance for the topic.
	ErrCapReached = errors.New("vote cap reached")

	// ErrAlreadyVoted means the user already holds a ballot in this topic or slot.
	ErrAlreadyVoted = errors.New("already voted")

	// ErrSlotNotFound means the targeted slot is absent from the current queue.
	ErrSlotNotFound = errors.New("queue slot not found")
)
