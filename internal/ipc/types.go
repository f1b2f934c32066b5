package ipc

import (
	"errors"

	"tonearm/internal/config"
	"tonearm/internal/voting"
)

// Rejection codes carried in responses for ballots the engine refused.
const (
	RejectionNothingPlaying = "nothing_playing"
	RejectionImmune         = "immune"
	RejectionCapReached     = "cap_reached"
	RejectionAlreadyVoted   = "already_voted"
	RejectionSlotNotFound   = "slot_not_found"
)

// rejectionOf maps engine sentinel errors onto wire codes. Unexpected
// errors are not rejections and propagate as RPC faults.
func rejectionOf(err error) (string, bool) {
	switch {
	case errors.Is(err, voting.ErrNothingPlaying):
		return RejectionNothingPlaying, true
	case errors.Is(err, voting.ErrImmune):
		return RejectionImmune, true
	case errors.Is(err, voting.ErrCapReached):
		return RejectionCapReached, true
	case errors.Is(err, voting.ErrAlreadyVoted):
		return RejectionAlreadyVoted, true
	case errors.Is(err, voting.ErrSlotNotFound):
		return RejectionSlotNotFound, true
	default:
		return "", false
	}
}

// GongRequest casts a skip-vote ballot for the named user.
type GongRequest struct {
	User string `json:"user"`
}

// GongResponse reports the ballot outcome.
type GongResponse struct {
	Accepted  bool   `json:"accepted"`
	Rejection string `json:"rejection,omitempty"`
	Track     string `json:"track,omitempty"`
	Tally     int    `json:"tally"`
	Needed    int    `json:"needed"`
	Skipped   bool   `json:"skipped"`
}

// GongCheckRequest fetches the read-only gong status.
type GongCheckRequest struct{}

// GongCheckResponse mirrors voting.GongStatus.
type GongCheckResponse struct {
	Playing   bool   `json:"playing"`
	Track     string `json:"track,omitempty"`
	Immune    bool   `json:"immune"`
	Tally     int    `json:"tally"`
	Remaining int    `json:"remaining"`
}

// SlotVoteRequest casts a promotion or immunity ballot for a queue slot.
type SlotVoteRequest struct {
	User string `json:"user"`
	Slot int    `json:"slot"`
}

// SlotVoteResponse reports the ballot outcome.
type SlotVoteResponse struct {
	Accepted  bool   `json:"accepted"`
	Rejection string `json:"rejection,omitempty"`
	Slot      int    `json:"slot"`
	Track     string `json:"track,omitempty"`
	Tally     int    `json:"tally"`
	Needed    int    `json:"needed"`
	Triggered bool   `json:"triggered"`
}

// SlotVoteStatus describes one open slot vote.
type SlotVoteStatus struct {
	Slot   int    `json:"slot"`
	Track  string `json:"track,omitempty"`
	Tally  int    `json:"tally"`
	Needed int    `json:"needed"`
}

// SlotChecksRequest lists open votes in one table.
type SlotChecksRequest struct{}

// SlotChecksResponse contains open slot votes.
type SlotChecksResponse struct {
	Votes []SlotVoteStatus `json:"votes"`
}

// FlushRequest casts a flush-queue ballot for the named user.
type FlushRequest struct {
	User string `json:"user"`
}

// FlushResponse reports the ballot outcome.
type FlushResponse struct {
	Accepted  bool   `json:"accepted"`
	Rejection string `json:"rejection,omitempty"`
	Tally     int    `json:"tally"`
	Needed    int    `json:"needed"`
	Opened    bool   `json:"opened"`
	Flushed   bool   `json:"flushed"`
}

// ImmuneListRequest lists immune tracks.
type ImmuneListRequest struct{}

// ImmuneListResponse contains immune track display names.
type ImmuneListResponse struct {
	Tracks []string `json:"tracks"`
}

// BanRequest marks a track immune without a vote.
type BanRequest struct {
	User   string `json:"user"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// BanResponse acknowledges the ban.
type BanResponse struct {
	Track string `json:"track"`
}

// LimitsGetRequest fetches the live voting limits.
type LimitsGetRequest struct{}

// LimitsSetRequest applies a partial limits update.
type LimitsSetRequest struct {
	Patch config.LimitPatch `json:"patch"`
}

// LimitsResponse carries the resulting limit values.
type LimitsResponse struct {
	Limits config.Limits `json:"limits"`
}

// StatusRequest fetches daemon runtime information.
type StatusRequest struct{}

// StatusResponse describes the running daemon.
type StatusResponse struct {
	PID          int           `json:"pid"`
	SocketPath   string        `json:"socket_path"`
	ActionDBPath string        `json:"action_db_path,omitempty"`
	ImmuneCount  int           `json:"immune_count"`
	Limits       config.Limits `json:"limits"`
}
