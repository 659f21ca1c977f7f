package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port string }

// Mode selects how the gateway client talks to the processor. Offline
// mode never touches the network and hands out deterministic mock
// instruments instead; it is a construction-time switch, not something
// inferred from failures at runtime.
type Mode string

const (
	ModeLive    Mode = "live"
	ModeOffline Mode = "offline"
)

type PixCfg struct {
	BaseURL   string
	SecretKey string
	Mode      Mode
	Timeout   time.Duration
}

type SessionCfg struct {
	PollInterval  time.Duration
	ExpirySeconds int
}

type Cfg struct {
	App     AppCfg
	Pix     PixCfg
	Session SessionCfg
}

func Load() Cfg {
	// 1) Load .env into process env (if file exists)
	_ = godotenv.Load(".env")

	// 2) Read from env via viper
	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("PIX_MODE", string(ModeLive))
	viper.SetDefault("PIX_TIMEOUT_SEC", 30)
	viper.SetDefault("POLL_INTERVAL_SEC", 10)
	viper.SetDefault("EXPIRY_SECONDS", 1800)

	mode := Mode(strings.TrimSpace(viper.GetString("PIX_MODE")))

	cfg := Cfg{
		App: AppCfg{
			Env:  viper.GetString("APP_ENV"),
			Port: viper.GetString("APP_PORT"),
		},
		Pix: PixCfg{
			BaseURL:   strings.TrimRight(viper.GetString("PIX_API_BASE_URL"), "/"),
			SecretKey: strings.TrimSpace(viper.GetString("PIX_SECRET_KEY")),
			Mode:      mode,
			Timeout:   time.Duration(viper.GetInt("PIX_TIMEOUT_SEC")) * time.Second,
		},
		Session: SessionCfg{
			PollInterval:  time.Duration(viper.GetInt("POLL_INTERVAL_SEC")) * time.Second,
			ExpirySeconds: viper.GetInt("EXPIRY_SECONDS"),
		},
	}

	// 3) Fail fast on required settings
	if mode != ModeLive && mode != ModeOffline {
		log.Fatal().Str("mode", string(mode)).Msg("PIX_MODE must be 'live' or 'offline'")
	}
	if mode == ModeLive {
		if cfg.Pix.BaseURL == "" {
			log.Fatal().Msg("PIX_API_BASE_URL is required in live mode")
		}
		if cfg.Pix.SecretKey == "" {
			log.Fatal().Msg("PIX_SECRET_KEY is required in live mode")
		}
	}
	if cfg.Session.PollInterval <= 0 {
		log.Fatal().Msg("POLL_INTERVAL_SEC must be positive")
	}
	if cfg.Session.ExpirySeconds <= 0 {
		log.Fatal().Msg("EXPIRY_SECONDS must be positive")
	}

	return cfg
}
