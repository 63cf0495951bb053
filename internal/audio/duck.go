// Package audio captures speech from the microphone and keeps other
// playback quiet while Nova listens.
package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"nova/internal/system"
)

// Mixer controls per-stream playback volume. *system.Pactl implements it.
type Mixer interface {
	SinkInputs(ctx context.Context) ([]system.SinkInput, error)
	SetSinkInputVolume(ctx context.Context, id, percent int) error
}

type fadeTarget struct {
	id   int
	from int
	to   int
}

// Ducker fades out every playback stream except Nova's own, and brings
// them back afterwards.
type Ducker struct {
	mixer Mixer
	sleep func(time.Duration)

	mu          sync.Mutex
	active      bool
	selfNames   []string    // application.name values left untouched
	originalVol map[int]int // stream id -> volume before ducking
	minVolume   int
}

func NewDucker(mixer Mixer, selfNames []string, minVolume int) *Ducker {
	if minVolume < 0 {
		minVolume = 0
	}
	if minVolume > system.MaxVolume {
		minVolume = system.MaxVolume
	}

	return &Ducker{
		mixer:       mixer,
		sleep:       time.Sleep,
		selfNames:   append([]string(nil), selfNames...),
		originalVol: make(map[int]int),
		minVolume:   minVolume,
	}
}

// Active reports whether other streams are currently ducked.
func (d *Ducker) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// DuckOthers fades foreign streams to current*factor, never below the
// minimum volume.
func (d *Ducker) DuckOthers(ctx context.Context, factor float64, duration time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := d.mixer.SinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list streams: %w", err)
	}

	d.originalVol = make(map[int]int)

	var targets []fadeTarget
	for _, s := range streams {
		if d.isSelfStream(s) {
			continue
		}

		to := math.Max(float64(s.Volume)*factor, float64(d.minVolume))
		to = math.Min(to, system.MaxVolume)

		d.originalVol[s.ID] = s.Volume
		targets = append(targets, fadeTarget{id: s.ID, from: s.Volume, to: int(math.Round(to))})
	}

	if err := d.fade(ctx, targets, duration); err != nil {
		return err
	}
	d.active = true
	return nil
}

// UnduckOthers fades ducked streams back to where they were. Streams that
// appeared after ducking are left alone.
func (d *Ducker) UnduckOthers(ctx context.Context, duration time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := d.mixer.SinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list streams: %w", err)
	}

	var targets []fadeTarget
	for _, s := range streams {
		if d.isSelfStream(s) {
			continue
		}
		orig, ok := d.originalVol[s.ID]
		if !ok {
			continue
		}
		targets = append(targets, fadeTarget{id: s.ID, from: s.Volume, to: orig})
	}

	if err := d.fade(ctx, targets, duration); err != nil {
		return err
	}

	d.originalVol = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) isSelfStream(s system.SinkInput) bool {
	for _, name := range d.selfNames {
		if s.AppName == name {
			return true
		}
	}
	return false
}

// fade steps every target from its start to its end volume.
func (d *Ducker) fade(ctx context.Context, targets []fadeTarget, duration time.Duration) error {
	if len(targets) == 0 {
		return nil
	}
	if duration <= 0 {
		for _, t := range targets {
			if err := d.mixer.SetSinkInputVolume(ctx, t.id, t.to); err != nil {
				return fmt.Errorf("set volume id=%d: %w", t.id, err)
			}
		}
		return nil
	}

	const minStepDuration = 10 * time.Millisecond

	steps := max(int(duration/minStepDuration), 1)
	stepDuration := duration / time.Duration(steps)

	for i := 0; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frac := float64(i) / float64(steps)
		for _, t := range targets {
			v := int(math.Round(float64(t.from) + float64(t.to-t.from)*frac))
			if err := d.mixer.SetSinkInputVolume(ctx, t.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", t.id, err)
			}
		}

		if i < steps {
			d.sleep(stepDuration)
		}
	}
	return nil
}
