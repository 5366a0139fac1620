package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string `envconfig:"PORT" default:"7070"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS"`
	Debug          bool   `envconfig:"DEBUG" default:"false"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"console"`
	PostgresURL    string `envconfig:"POSTGRES_URL"`
	StaticDir      string `envconfig:"STATIC_DIR"`

	MinPlayers       int           `envconfig:"MIN_PLAYERS" default:"2"`
	CountdownSeconds int           `envconfig:"COUNTDOWN_SECONDS" default:"20"`
	RoundDuration    time.Duration `envconfig:"ROUND_DURATION" default:"120s"`
	SessionDuration  time.Duration `envconfig:"SESSION_DURATION" default:"600s"`
	RoundGap         time.Duration `envconfig:"ROUND_GAP" default:"5s"`
	ResetDelay       time.Duration `envconfig:"RESET_DELAY" default:"10s"`
	GuessPoints      int           `envconfig:"GUESS_POINTS" default:"10"`
	DrawerPoints     int           `envconfig:"DRAWER_POINTS" default:"5"`

	PingPeriod time.Duration `envconfig:"PING_PERIOD" default:"30s"`
	SendBuffer int           `envconfig:"SEND_BUFFER" default:"256"`
	ChatRate   float64       `envconfig:"CHAT_RATE" default:"1"`
	ChatBurst  int           `envconfig:"CHAT_BURST" default:"5"`
}

// Load reads the process environment into a Config.
func Load() (Config, error) {
	c := Config{}
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("processing the config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch {
	case c.MinPlayers < 1:
		return fmt.Errorf("MIN_PLAYERS must be at least 1, got %d", c.MinPlayers)
	case c.CountdownSeconds < 0:
		return fmt.Errorf("COUNTDOWN_SECONDS cannot be negative, got %d", c.CountdownSeconds)
	case c.RoundDuration <= 0, c.SessionDuration <= 0:
		return fmt.Errorf("round and session durations must be positive")
	case c.SendBuffer < 1:
		return fmt.Errorf("SEND_BUFFER must be at least 1, got %d", c.SendBuffer)
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS. An empty result means every origin is accepted.
func (c Config) Origins() []string {
	origins := []string{}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
