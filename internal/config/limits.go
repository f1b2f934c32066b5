package config

import "sync"

// Limits carries the quorum and cap values the voting engine consults.
type Limits struct {
	GongLimit            int `json:"gong_limit"`
	VoteLimit            int `json:"vote_limit"`
	VoteImmuneLimit      int `json:"vote_immune_limit"`
	FlushVoteLimit       int `json:"flush_vote_limit"`
	VoteTimeLimitMinutes int `json:"vote_time_limit_minutes"`
	UserGongCap          int `json:"user_gong_cap"`
	UserVoteCap          int `json:"user_vote_cap"`
}

// LimitPatch describes a partial runtime update. Nil fields keep the
// current value; non-positive values are ignored the same way, so a bad
// update can never wedge a vote.
type LimitPatch struct {
	GongLimit            *int `json:"gong_limit,omitempty"`
	VoteLimit            *int `json:"vote_limit,omitempty"`
	VoteImmuneLimit      *int `json:"vote_immune_limit,omitempty"`
	FlushVoteLimit       *int `json:"flush_vote_limit,omitempty"`
	VoteTimeLimitMinutes *int `json:"vote_time_limit_minutes,omitempty"`
	UserGongCap          *int `json:"user_gong_cap,omitempty"`
	UserVoteCap          *int `json:"user_vote_cap,omitempty"`
}

// LimitStore holds the live limit values. Voting topics read a fresh
// snapshot on every quorum check rather than caching limits, so runtime
// changes take effect on the very next ballot.
type LimitStore struct {
	mu     sync.RWMutex
	limits Limits
}

// NewLimitStore seeds a store from the loaded configuration.
func NewLimitStore(v Voting) *LimitStore {
	return &LimitStore{limits: Limits{
		GongLimit:            v.GongLimit,
		VoteLimit:            v.VoteLimit,
		VoteImmuneLimit:      v.VoteImmuneLimit,
		FlushVoteLimit:       v.FlushVoteLimit,
		VoteTimeLimitMinutes: v.VoteTimeLimitMinutes,
		UserGongCap:          v.UserGongCap,
		UserVoteCap:          v.UserVoteCap,
	}}
}

// Snapshot returns the current limit values.
func (s *LimitStore) Snapshot() Limits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits
}

// Apply merges a patch into the store and returns the resulting limits.
func (s *LimitStore) Apply(patch LimitPatch) Limits {
	s.mu.Lock()
	defer s.mu.Unlock()
	merge := func(dst *int, src *int) {
		if src != nil && *src > 0 {
			*dst = *src
		}
	}
	merge(&s.limits.GongLimit, patch.GongLimit)
	merge(&s.limits.VoteLimit, patch.VoteLimit)
	merge(&s.limits.VoteImmuneLimit, patch.VoteImmuneLimit)
	merge(&s.limits.FlushVoteLimit, patch.FlushVoteLimit)
	merge(&s.limits.VoteTimeLimitMinutes, patch.VoteTimeLimitMinutes)
	merge(&s.limits.UserGongCap, patch.UserGongCap)
	merge(&s.limits.UserVoteCap, patch.UserVoteCap)
	return s.limits
}
