// Package system drives the local desktop: launching applications,
// screenshots, volume, screen lock and power.
package system

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrAppNotFound        = errors.New("application not found")
	ErrNoScreenshotTool   = errors.New("no screenshot tool installed")
	ErrPowerActionsLocked = errors.New("power actions are disabled")
)

// VolumeStep is the change applied by "volume up" and "volume down".
const VolumeStep = 10

// apps maps spoken names to candidate command lines, first installed wins.
var apps = map[string][][]string{
	"firefox":            {{"firefox"}},
	"chrome":             {{"google-chrome"}, {"chromium"}, {"chromium-browser"}},
	"google chrome":      {{"google-chrome"}, {"chromium"}},
	"chromium":           {{"chromium"}, {"chromium-browser"}},
	"browser":            {{"firefox"}, {"chromium"}, {"google-chrome"}},
	"notepad":            {{"gnome-text-editor"}, {"gedit"}, {"kate"}, {"mousepad"}},
	"text editor":        {{"gnome-text-editor"}, {"gedit"}, {"kate"}, {"mousepad"}},
	"calculator":         {{"gnome-calculator"}, {"kcalc"}, {"galculator"}},
	"terminal":           {{"gnome-terminal"}, {"konsole"}, {"alacritty"}, {"kitty"}, {"foot"}, {"xterm"}},
	"files":              {{"nautilus"}, {"dolphin"}, {"thunar"}, {"pcmanfm"}},
	"file manager":       {{"nautilus"}, {"dolphin"}, {"thunar"}, {"pcmanfm"}},
	"vscode":             {{"code"}, {"codium"}},
	"vs code":            {{"code"}, {"codium"}},
	"visual studio code": {{"code"}, {"codium"}},
	"code":               {{"code"}, {"codium"}},
	"paint":              {{"pinta"}, {"kolourpaint"}, {"gimp"}},
	"word":               {{"libreoffice", "--writer"}},
	"excel":              {{"libreoffice", "--calc"}},
	"powerpoint":         {{"libreoffice", "--impress"}},
	"mail":               {{"thunderbird"}, {"evolution"}},
	"outlook":            {{"thunderbird"}, {"evolution"}},
	"teams":              {{"teams-for-linux"}},
	"spotify":            {{"spotify"}},
	"discord":            {{"discord"}},
	"steam":              {{"steam"}},
	"zoom":               {{"zoom"}},
	"slack":              {{"slack"}},
	"vlc":                {{"vlc"}},
	"gimp":               {{"gimp"}},
	"telegram":           {{"telegram-desktop"}},
}

// screenshotTools are tried in order; the output path replaces "{path}".
var screenshotTools = [][]string{
	{"grim", "{path}"},
	{"gnome-screenshot", "-f", "{path}"},
	{"spectacle", "-b", "-n", "-o", "{path}"},
	{"scrot", "{path}"},
	{"import", "-window", "root", "{path}"},
}

type Option func(*Controller)

func WithRunner(r Runner) Option {
	return func(c *Controller) { c.run = r }
}

// WithScreenshotDir sets where screenshots are written.
func WithScreenshotDir(dir string) Option {
	return func(c *Controller) { c.shotDir = dir }
}

// WithPowerActions allows Shutdown and Restart to reach systemctl.
func WithPowerActions(allow bool) Option {
	return func(c *Controller) { c.allowPower = allow }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

type Controller struct {
	run        Runner
	pactl      *Pactl
	shotDir    string
	allowPower bool
	now        func() time.Time
	log        *slog.Logger
}

func New(opts ...Option) *Controller {
	c := &Controller{
		run:     ExecRunner{},
		shotDir: defaultScreenshotDir(),
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	c.pactl = NewPactl(c.run)
	return c
}

func defaultScreenshotDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Pictures")
	}
	return os.TempDir()
}

// PowerActionsAllowed reports whether Shutdown and Restart do anything.
func (c *Controller) PowerActionsAllowed() bool { return c.allowPower }

// Pactl exposes the mixer used for volume control.
func (c *Controller) Pactl() *Pactl { return c.pactl }

// OpenApp launches an application by its spoken name. Known names map to
// installed binaries; anything else is looked up on PATH as typed, with
// spaces turned into dashes.
func (c *Controller) OpenApp(ctx context.Context, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ErrAppNotFound
	}

	candidates := apps[name]
	if len(candidates) == 0 {
		candidates = [][]string{{strings.ReplaceAll(name, " ", "-")}, {strings.ReplaceAll(name, " ", "")}}
	}

	for _, argv := range candidates {
		if _, err := c.run.LookPath(argv[0]); err != nil {
			continue
		}
		c.log.Debug("Launching", "app", name, "cmd", argv)
		return c.run.Start(ctx, argv[0], argv[1:]...)
	}
	return fmt.Errorf("%q: %w", name, ErrAppNotFound)
}

// Screenshot captures the whole screen and returns the file path.
func (c *Controller) Screenshot(ctx context.Context) (string, error) {
	if err := os.MkdirAll(c.shotDir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot dir: %w", err)
	}
	path := filepath.Join(c.shotDir, "screenshot_"+c.now().Format("20060102_150405")+".png")

	for _, tool := range screenshotTools {
		if _, err := c.run.LookPath(tool[0]); err != nil {
			continue
		}
		args := make([]string, 0, len(tool)-1)
		for _, a := range tool[1:] {
			args = append(args, strings.ReplaceAll(a, "{path}", path))
		}
		if _, err := c.run.Output(ctx, tool[0], args...); err != nil {
			return "", fmt.Errorf("screenshot: %w", err)
		}
		return path, nil
	}
	return "", ErrNoScreenshotTool
}

func (c *Controller) Volume(ctx context.Context) (int, error) {
	return c.pactl.SinkVolume(ctx)
}

// SetVolume sets the output level, clamped to 0..100.
func (c *Controller) SetVolume(ctx context.Context, percent int) error {
	return c.pactl.SetSinkVolume(ctx, min(max(percent, 0), 100))
}

// AdjustVolume moves the output level by delta and returns the new level.
func (c *Controller) AdjustVolume(ctx context.Context, delta int) (int, error) {
	cur, err := c.pactl.SinkVolume(ctx)
	if err != nil {
		return 0, err
	}
	next := min(max(cur+delta, 0), 100)
	if err := c.pactl.SetSinkVolume(ctx, next); err != nil {
		return 0, err
	}
	return next, nil
}

func (c *Controller) SetMute(ctx context.Context, mute bool) error {
	return c.pactl.SetSinkMute(ctx, mute)
}

func (c *Controller) Lock(ctx context.Context) error {
	_, err := c.run.Output(ctx, "loginctl", "lock-session")
	return err
}

func (c *Controller) Shutdown(ctx context.Context) error {
	return c.power(ctx, "poweroff")
}

func (c *Controller) Restart(ctx context.Context) error {
	return c.power(ctx, "reboot")
}

func (c *Controller) power(ctx context.Context, verb string) error {
	if !c.allowPower {
		return ErrPowerActionsLocked
	}
	c.log.Warn("Power action", "verb", verb)
	_, err := c.run.Output(ctx, "systemctl", verb)
	return err
}
