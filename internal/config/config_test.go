package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cli "github.com/spf13/pflag"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func flags(t *testing.T, args ...string) *cli.FlagSet {
	t.Helper()
	fs := cli.NewFlagSet("nova", cli.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return fs
}

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()

	cfg, err := Build(flags(t), env(nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.Mode != ModeText || cfg.User != "Sir" || cfg.Reconn != 2*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestPrecedenceFlagOverEnvOverDefault(t *testing.T) {
	t.Parallel()

	e := env(map[string]string{
		"NOVA_USER":           "Pepper",
		"NOVA_LOG_LEVEL":      "debug",
		"NOVA_ALLOW_POWER":    "true",
		"NOVA_WAKE_WORDS":     "nova, hey nova ,",
		"NOVA_WIKI_SENTENCES": "1",
	})
	cfg, err := Build(flags(t, "--user", "Tony"), e)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.User != "Tony" {
		t.Errorf("User = %q, flag should win", cfg.User)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, env should beat default", cfg.LogLevel)
	}
	if !cfg.AllowPower {
		t.Error("AllowPower not read from env")
	}
	if cfg.Sentences != 1 {
		t.Errorf("Sentences = %d", cfg.Sentences)
	}
	if strings.Join(cfg.WakeWords, "|") != "nova|hey nova" {
		t.Errorf("WakeWords = %q", cfg.WakeWords)
	}
}

func TestUnchangedFlagDoesNotMaskEnv(t *testing.T) {
	t.Parallel()

	cfg, err := Build(flags(t), env(map[string]string{"NOVA_MODE": "http"}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeHTTP {
		t.Fatalf("Mode = %q", cfg.Mode)
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"bad mode", []string{"--mode", "telepathy"}, "NOVA_MODE"},
		{"bad level", []string{"--log", "loud"}, "NOVA_LOG_LEVEL"},
		{"voice needs model", []string{"--mode", "voice"}, "NOVA_WHISPER_MODEL"},
		{"bus needs url", []string{"--mode", "bus", "--model", "m.bin"}, "NOVA_BUS_URL"},
		{"bad duck", []string{"--duck", "1.5"}, "NOVA_DUCK_FACTOR"},
		{"bad proxy", []string{"--proxy", "nowhere"}, "NOVA_PROXY"},
		{"negative sentences", []string{"--wiki-sentences=-1"}, "NOVA_WIKI_SENTENCES"},
	}
	for _, tc := range cases {
		_, err := Build(flags(t, tc.args...), env(nil))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err = %v, want mention of %s", tc.name, err, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	if _, err := Build(flags(t), env(map[string]string{"NOVA_ALLOW_POWER": "maybe"})); err == nil {
		t.Error("accepted a non-boolean")
	}
	if _, err := Build(flags(t, "--reconnect", "soon"), env(nil)); err == nil {
		t.Error("accepted a bad duration")
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nova.env")
	if err := os.WriteFile(path, []byte("NOVA_SHARD=jarvis\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOVA_SHARD", "")
	os.Unsetenv("NOVA_SHARD")

	cfg, err := Load(flags(t, "--env", path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Shard != "jarvis" {
		t.Fatalf("Shard = %q", cfg.Shard)
	}
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	if _, err := Load(flags(t, "--env", filepath.Join(t.TempDir(), "absent.env"))); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
