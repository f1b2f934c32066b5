package config

const (
	defaultLogDir               = "~/.local/share/tonearm/logs"
	defaultSocketPath           = "~/.local/share/tonearm/tonearmd.sock"
	defaultPlayerBaseURL        = "http://127.0.0.1:6680"
	defaultRequestTimeout       = 10
	defaultGongLimit            = 3
	defaultVoteLimit            = 3
	defaultVoteImmuneLimit      = 3
	defaultFlushVoteLimit       = 3
	defaultVoteTimeLimitMinutes = 5
	defaultUserGongCap          = 1
	defaultUserVoteCap          = 4
	defaultGongCapScope         = "track"
	defaultFanfareURI           = "tonearm:fanfare"
	defaultFanfareSeconds       = 7
)

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:     defaultLogDir,
			SocketPath: defaultSocketPath,
		},
		Player: Player{
			BaseURL:        defaultPlayerBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Messenger: Messenger{
			RequestTimeout: defaultRequestTimeout,
		},
		Voting: Voting{
			GongLimit:            defaultGongLimit,
			VoteLimit:            defaultVoteLimit,
			VoteImmuneLimit:      defaultVoteImmuneLimit,
			FlushVoteLimit:       defaultFlushVoteLimit,
			VoteTimeLimitMinutes: defaultVoteTimeLimitMinutes,
			UserGongCap:          defaultUserGongCap,
			UserVoteCap:          defaultUserVoteCap,
			GongCapScope:         defaultGongCapScope,
			FanfareURI:           defaultFanfareURI,
			FanfareSeconds:       defaultFanfareSeconds,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}
