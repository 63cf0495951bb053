// Package voice turns the microphone into a session source: cue, duck
// other audio, record until silence, transcribe.
package voice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nova/internal/session"
)

type Recorder interface {
	RecordAuto(ctx context.Context) ([]float32, error)
	RecordUntil(ctx context.Context, stop <-chan struct{}, maxDur time.Duration) ([]float32, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
}

type Ducker interface {
	DuckOthers(ctx context.Context, factor float64, duration time.Duration) error
	UnduckOthers(ctx context.Context, duration time.Duration) error
}

type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

const (
	duckFade   = 150 * time.Millisecond
	unduckFade = 400 * time.Millisecond
)

// MaxHold caps a push-to-talk recording.
const MaxHold = 30 * time.Second

type Option func(*Listener)

// WithCue plays a sound before each recording.
func WithCue(cue func(ctx context.Context) error) Option {
	return func(l *Listener) { l.cue = cue }
}

// WithDucker lowers other playback to factor while recording.
func WithDucker(d Ducker, factor float64) Option {
	return func(l *Listener) {
		l.ducker = d
		l.factor = factor
	}
}

func WithNotifier(n Notifier) Option {
	return func(l *Listener) { l.notifier = n }
}

func WithLogger(lg *slog.Logger) Option {
	return func(l *Listener) { l.log = lg }
}

type Listener struct {
	rec      Recorder
	stt      Transcriber
	cue      func(ctx context.Context) error
	ducker   Ducker
	factor   float64
	notifier Notifier
	log      *slog.Logger
}

func NewListener(rec Recorder, stt Transcriber, opts ...Option) *Listener {
	l := &Listener{rec: rec, stt: stt, factor: 0.3, log: slog.Default()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Listen captures one utterance. Silence yields session.ErrNoInput.
func (l *Listener) Listen(ctx context.Context) (session.Input, error) {
	text, err := l.Capture(ctx)
	if err != nil {
		return session.Input{}, err
	}
	return session.Input{Text: text}, nil
}

// Capture records one utterance, ended by silence, and transcribes it.
func (l *Listener) Capture(ctx context.Context) (string, error) {
	return l.capture(ctx, l.rec.RecordAuto)
}

// CaptureUntil is push-to-talk: it records until stop is closed or
// MaxHold passes, then transcribes.
func (l *Listener) CaptureUntil(ctx context.Context, stop <-chan struct{}) (string, error) {
	return l.capture(ctx, func(ctx context.Context) ([]float32, error) {
		return l.rec.RecordUntil(ctx, stop, MaxHold)
	})
}

func (l *Listener) capture(ctx context.Context, rec func(context.Context) ([]float32, error)) (string, error) {
	l.prepare(ctx)

	l.log.Info("Starting listening")
	pcm, err := l.record(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("record: %w", err)
	}
	if len(pcm) == 0 {
		return "", session.ErrNoInput
	}
	l.log.Info("Recorded", "samples", len(pcm))

	text, err := l.stt.Transcribe(ctx, pcm)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" || isNonSpeech(text) {
		l.log.Debug("Nothing recognised", "raw", text)
		return "", session.ErrNoInput
	}
	l.log.Info("Transcribed", "text", text)
	return text, nil
}

func (l *Listener) prepare(ctx context.Context) {
	if l.cue != nil {
		if err := l.cue(ctx); err != nil {
			l.log.Warn("Failed to play cue", "err", err)
		}
	}
	if l.notifier != nil {
		if err := l.notifier.Notify(ctx, "Listening...", ""); err != nil {
			l.log.Debug("Failed to notify", "err", err)
		}
	}
}

func (l *Listener) record(ctx context.Context, rec func(context.Context) ([]float32, error)) ([]float32, error) {
	if l.ducker != nil {
		if err := l.ducker.DuckOthers(ctx, l.factor, duckFade); err != nil {
			l.log.Warn("Failed to duck", "err", err)
		}
		defer func() {
			// Restore volume even when ctx is already done.
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := l.ducker.UnduckOthers(rctx, unduckFade); err != nil {
				l.log.Warn("Failed to unduck", "err", err)
			}
		}()
	}

	return rec(ctx)
}

// isNonSpeech spots whisper's annotations for silence or noise, such as
// "[BLANK_AUDIO]" or "(music)".
func isNonSpeech(text string) bool {
	for _, pair := range [][2]string{{"[", "]"}, {"(", ")"}, {"*", "*"}} {
		if strings.HasPrefix(text, pair[0]) && strings.HasSuffix(text, pair[1]) {
			return true
		}
	}
	return false
}
