// Package config assembles Nova's settings from defaults, an env file,
// NOVA_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"nova/internal/validate"
)

// Modes.
const (
	ModeText   = "text"
	ModeVoice  = "voice"
	ModeDaemon = "daemon"
	ModeBus    = "bus"
	ModeHTTP   = "http"
)

type Config struct {
	Mode     string `env:"NOVA_MODE" validate:"oneof=text voice daemon bus http"`
	User     string `env:"NOVA_USER" validate:"required"`
	LogLevel string `env:"NOVA_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Seed     uint64 `env:"NOVA_SEED"`

	Proxy        string        `env:"NOVA_PROXY" validate:"omitempty,hostname_port"`
	HTTPTimeout  time.Duration `env:"NOVA_HTTP_TIMEOUT" validate:"min=0"`
	WikipediaURL string        `env:"NOVA_WIKIPEDIA_URL" validate:"required,url"`
	Sentences    int           `env:"NOVA_WIKI_SENTENCES" validate:"gte=0"`

	ScreenshotDir string `env:"NOVA_SCREENSHOT_DIR"`
	AllowPower    bool   `env:"NOVA_ALLOW_POWER"`

	WakeWords    []string `env:"NOVA_WAKE_WORDS"`
	RequireWake  bool     `env:"NOVA_REQUIRE_WAKE"`
	WhisperModel string   `env:"NOVA_WHISPER_MODEL" validate:"required_if=Mode voice,required_if=Mode daemon,required_if=Mode bus"`
	Language     string   `env:"NOVA_LANGUAGE" validate:"required"`
	Voice        string   `env:"NOVA_VOICE" validate:"required"`
	BeepPath     string   `env:"NOVA_BEEP"`
	DuckFactor   float64  `env:"NOVA_DUCK_FACTOR" validate:"gte=0,lte=1"`

	Socket   string        `env:"NOVA_SOCKET" validate:"required_if=Mode daemon"`
	BusURL   string        `env:"NOVA_BUS_URL" validate:"required_if=Mode bus,omitempty,url"`
	Shard    string        `env:"NOVA_SHARD" validate:"required_if=Mode bus"`
	Reconn   time.Duration `env:"NOVA_RECONNECT" validate:"min=0"`
	HTTPAddr string        `env:"NOVA_HTTP_ADDR" validate:"required_if=Mode http,omitempty,hostname_port"`
}

func Default() Config {
	return Config{
		Mode:         ModeText,
		User:         "Sir",
		LogLevel:     "info",
		HTTPTimeout:  15 * time.Second,
		WikipediaURL: "https://en.wikipedia.org",
		Sentences:    3,
		WakeWords:    []string{"nova"},
		Language:     "auto",
		Voice:        "en",
		BeepPath:     "beep.mp3",
		DuckFactor:   0.3,
		Socket:       "/tmp/nova.sock",
		Shard:        "nova",
		Reconn:       2 * time.Second,
		HTTPAddr:     "127.0.0.1:8093",
	}
}

// setting ties one field to its flag and environment variable.
type setting struct {
	flag, short, env, usage string
	set                     func(c *Config, v string) error
}

func str(p func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error { *p(c) = v; return nil }
}

func boolean(p func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*p(c) = b
		return nil
	}
}

func duration(p func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*p(c) = d
		return nil
	}
}

var settings = []setting{
	{"mode", "m", "NOVA_MODE", "Front end: text, voice, daemon, bus or http", str(func(c *Config) *string { return &c.Mode })},
	{"user", "u", "NOVA_USER", "How Nova addresses you", str(func(c *Config) *string { return &c.User })},
	{"log", "l", "NOVA_LOG_LEVEL", "Log level", str(func(c *Config) *string { return &c.LogLevel })},
	{"seed", "", "NOVA_SEED", "Random seed for replies, 0 seeds from the clock", func(c *Config, v string) error {
		n, err := strconv.ParseUint(v, 10, 64)
		c.Seed = n
		return err
	}},
	{"proxy", "p", "NOVA_PROXY", "SOCKS5 proxy for web lookups (host:port)", str(func(c *Config) *string { return &c.Proxy })},
	{"http-timeout", "", "NOVA_HTTP_TIMEOUT", "Timeout for web lookups", duration(func(c *Config) *time.Duration { return &c.HTTPTimeout })},
	{"wikipedia", "", "NOVA_WIKIPEDIA_URL", "Wikipedia base URL", str(func(c *Config) *string { return &c.WikipediaURL })},
	{"wiki-sentences", "", "NOVA_WIKI_SENTENCES", "Sentences read from a Wikipedia summary, 0 reads all", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Sentences = n
		return err
	}},
	{"screenshots", "", "NOVA_SCREENSHOT_DIR", "Screenshot directory", str(func(c *Config) *string { return &c.ScreenshotDir })},
	{"allow-power", "", "NOVA_ALLOW_POWER", "Let shutdown and restart commands act", boolean(func(c *Config) *bool { return &c.AllowPower })},
	{"wake", "w", "NOVA_WAKE_WORDS", "Comma separated wake phrases", func(c *Config, v string) error {
		c.WakeWords = splitList(v)
		return nil
	}},
	{"require-wake", "", "NOVA_REQUIRE_WAKE", "Ignore utterances without a wake phrase", boolean(func(c *Config) *bool { return &c.RequireWake })},
	{"model", "", "NOVA_WHISPER_MODEL", "Whisper model path", str(func(c *Config) *string { return &c.WhisperModel })},
	{"lang", "", "NOVA_LANGUAGE", "Speech recognition language", str(func(c *Config) *string { return &c.Language })},
	{"voice", "", "NOVA_VOICE", "espeak-ng voice", str(func(c *Config) *string { return &c.Voice })},
	{"beep", "", "NOVA_BEEP", "Listening cue (mp3), empty disables", str(func(c *Config) *string { return &c.BeepPath })},
	{"duck", "", "NOVA_DUCK_FACTOR", "Volume factor for other apps while listening", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		c.DuckFactor = f
		return err
	}},
	{"socket", "s", "NOVA_SOCKET", "Control socket path", str(func(c *Config) *string { return &c.Socket })},
	{"bus", "b", "NOVA_BUS_URL", "Websocket bus URL", str(func(c *Config) *string { return &c.BusURL })},
	{"shard", "", "NOVA_SHARD", "Name on the bus", str(func(c *Config) *string { return &c.Shard })},
	{"reconnect", "", "NOVA_RECONNECT", "Delay between bus reconnect attempts", duration(func(c *Config) *time.Duration { return &c.Reconn })},
	{"addr", "a", "NOVA_HTTP_ADDR", "HTTP listen address", str(func(c *Config) *string { return &c.HTTPAddr })},
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RegisterFlags adds every setting to fs, plus --env for the env file.
// Flag defaults mirror Default so --help is accurate.
func RegisterFlags(flags *cli.FlagSet) {
	flags.StringP("env", "e", ".env", "Env file path")
	def := Default()
	for _, s := range settings {
		flags.StringP(s.flag, s.short, defaultString(def, s.flag), s.usage+" ("+s.env+")")
	}
}

func defaultString(c Config, flag string) string {
	switch flag {
	case "mode":
		return c.Mode
	case "user":
		return c.User
	case "log":
		return c.LogLevel
	case "http-timeout":
		return c.HTTPTimeout.String()
	case "wikipedia":
		return c.WikipediaURL
	case "wiki-sentences":
		return strconv.Itoa(c.Sentences)
	case "wake":
		return strings.Join(c.WakeWords, ",")
	case "lang":
		return c.Language
	case "voice":
		return c.Voice
	case "beep":
		return c.BeepPath
	case "duck":
		return strconv.FormatFloat(c.DuckFactor, 'f', -1, 64)
	case "socket":
		return c.Socket
	case "shard":
		return c.Shard
	case "reconnect":
		return c.Reconn.String()
	case "addr":
		return c.HTTPAddr
	case "allow-power", "require-wake":
		return "false"
	}
	return ""
}

// Load reads the env file named by --env, then builds and validates the
// configuration. Flags only win when given explicitly.
func Load(flags *cli.FlagSet) (Config, error) {
	envFile, _ := flags.GetString("env")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("env file %s: %w", envFile, err)
		}
	}
	return Build(flags, os.LookupEnv)
}

// Build applies environment lookups and changed flags over the defaults.
func Build(flags *cli.FlagSet, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	for _, s := range settings {
		if v, ok := lookup(s.env); ok && v != "" {
			if err := s.set(&cfg, v); err != nil {
				return Config{}, fmt.Errorf("%s=%q: %w", s.env, v, err)
			}
		}
	}
	if flags != nil {
		for _, s := range settings {
			f := flags.Lookup(s.flag)
			if f == nil || !f.Changed {
				continue
			}
			if err := s.set(&cfg, f.Value.String()); err != nil {
				return Config{}, fmt.Errorf("--%s=%q: %w", s.flag, f.Value.String(), err)
			}
		}
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
