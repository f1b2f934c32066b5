package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration invariants that would make the daemon
// misbehave at runtime.
func (c *Config) Validate() error {
	var problems []string

	check := func(name string, value int) {
		if value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive (got %d)", name, value))
		}
	}
	check("voting.gong_limit", c.Voting.GongLimit)
	check("voting.vote_limit", c.Voting.VoteLimit)
	check("voting.vote_immune_limit", c.Voting.VoteImmuneLimit)
	check("voting.flush_vote_limit", c.Voting.FlushVoteLimit)
	check("voting.vote_time_limit_minutes", c.Voting.VoteTimeLimitMinutes)
	check("voting.user_gong_cap", c.Voting.UserGongCap)
	check("voting.user_vote_cap", c.Voting.UserVoteCap)
	check("voting.fanfare_seconds", c.Voting.FanfareSeconds)

	switch c.Voting.GongCapScope {
	case "", "track", "lifetime":
	default:
		problems = append(problems, fmt.Sprintf("voting.gong_cap_scope must be track or lifetime (got %q)", c.Voting.GongCapScope))
	}

	if strings.TrimSpace(c.Player.BaseURL) == "" {
		problems = append(problems, "player.base_url is required")
	}
	switch c.Logging.Format {
	case "", "text", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be text or json (got %q)", c.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}
