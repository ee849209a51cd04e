package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the orchestrator reads from the environment
type Config struct {
	Port             string `env:"PORT" envDefault:"8080"`
	AWSRegion        string `env:"AWS_REGION" envDefault:"us-east-1"`
	RecordingsBucket string `env:"RECORDINGS_BUCKET"`

	// Invitation policy
	MinExchanges      int           `env:"MIN_EXCHANGES" envDefault:"4"`
	MaxWait           time.Duration `env:"MAX_WAIT" envDefault:"300s"`
	InviteRequireBoth bool          `env:"INVITE_REQUIRE_BOTH" envDefault:"false"`
	InviteTimeout     time.Duration `env:"INVITE_TIMEOUT" envDefault:"15s"`

	// Matching queue
	SoftTimeout   time.Duration `env:"MATCH_SOFT_TIMEOUT" envDefault:"30s"`
	HardTimeout   time.Duration `env:"MATCH_HARD_TIMEOUT" envDefault:"120s"`
	SweepInterval time.Duration `env:"MATCH_SWEEP_INTERVAL" envDefault:"10s"`
	QueueMaxWait  time.Duration `env:"QUEUE_MAX_WAIT" envDefault:"0"` // 0 = requests never expire

	MaxParticipants int `env:"SESSION_MAX_PARTICIPANTS" envDefault:"3"`
}

// Load parses the environment and sanity-checks the thresholds
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.HardTimeout < cfg.SoftTimeout {
		return nil, fmt.Errorf("MATCH_HARD_TIMEOUT (%s) must not be shorter than MATCH_SOFT_TIMEOUT (%s)", cfg.HardTimeout, cfg.SoftTimeout)
	}
	if cfg.MinExchanges < 1 {
		return nil, fmt.Errorf("MIN_EXCHANGES must be at least 1, got %d", cfg.MinExchanges)
	}
	return &cfg, nil
}
