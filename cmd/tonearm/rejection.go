package main

import (
	"fmt"

	"tonearm/internal/ipc"
)

// rejectionMessage turns a wire rejection code into a human sentence.
func rejectionMessage(code, track string) string {
	switch code {
	case ipc.RejectionNothingPlaying:
		return "Nothing is playing."
	case ipc.RejectionImmune:
		if track != "" {
			return fmt.Sprintf("%s is immune and cannot be gonged.", track)
		}
		return "That track is immune."
	case ipc.RejectionCapReached:
		return "You have used up your votes."
	case ipc.RejectionAlreadyVoted:
		return "You already voted for that."
	case ipc.RejectionSlotNotFound:
		return "No track occupies that queue slot."
	default:
		return fmt.Sprintf("Ballot rejected: %s", code)
	}
}
