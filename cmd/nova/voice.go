package main

import (
	"context"
	"fmt"
	log "log/slog"

	"nova/internal/audio"
	"nova/internal/config"
	"nova/internal/notify"
	"nova/internal/system"
	"nova/internal/voice"
	"nova/pkg/stt"
)

// Streams Nova plays itself; ducking leaves them alone.
var selfStreams = []string{"nova", "ALSA plug-in [nova]", "espeak-ng"}

// minDuckVolume keeps ducked music faintly audible.
const minDuckVolume = 5

func newListener(cfg config.Config, sys *system.Controller) (*voice.Listener, func(), error) {
	rec := audio.NewRecorder(audio.DefaultVAD())
	if err := rec.Init(); err != nil {
		return nil, nil, fmt.Errorf("init audio: %w", err)
	}
	log.Debug("Loaded recorder")

	tr, err := stt.NewTranscriber(cfg.WhisperModel, stt.Options{Language: cfg.Language})
	if err != nil {
		rec.Close()
		return nil, nil, fmt.Errorf("init whisper: %w", err)
	}
	log.Debug("Loaded whisper", "model", cfg.WhisperModel)

	opts := []voice.Option{
		voice.WithDucker(audio.NewDucker(sys.Pactl(), selfStreams, minDuckVolume), cfg.DuckFactor),
		voice.WithNotifier(notify.Desktop{}),
		voice.WithLogger(log.Default()),
	}
	if cfg.BeepPath != "" {
		opts = append(opts, voice.WithCue(func(ctx context.Context) error {
			return notify.Beep(ctx, cfg.BeepPath)
		}))
	}

	cleanup := func() {
		if err := tr.Close(); err != nil {
			log.Warn("Failed to close whisper", "err", err)
		}
		rec.Close()
	}
	return voice.NewListener(rec, tr, opts...), cleanup, nil
}
