// Package notify gives audible and visual cues that Nova is listening.
package notify

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	"nova/internal/system"
)

var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

// initSpeaker opens the output device once per sample rate.
func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerRate == rate {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	speakerRate = rate
	return nil
}

// Beep plays the mp3 at path and waits for it to finish or ctx to end.
func Beep(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cue: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode cue %s: %w", path, err)
	}
	defer streamer.Close()

	if err := initSpeaker(format.SampleRate); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// Desktop posts notifications through notify-send.
type Desktop struct {
	Run     system.Runner
	AppName string
}

func (d Desktop) Notify(ctx context.Context, summary, body string) error {
	r := d.Run
	if r == nil {
		r = system.ExecRunner{}
	}
	app := d.AppName
	if app == "" {
		app = "Nova"
	}
	args := []string{"--app-name", app, "--expire-time", "3000", summary}
	if body != "" {
		args = append(args, body)
	}
	_, err := r.Output(ctx, "notify-send", args...)
	return err
}
