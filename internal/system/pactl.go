package system

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

// MaxVolume is the loudest level pactl is asked for.
const MaxVolume = 150

// SinkInput is one playback stream known to PulseAudio/PipeWire.
type SinkInput struct {
	ID      int
	Volume  int
	AppName string
}

// Pactl wraps the pactl CLI.
type Pactl struct {
	run Runner
}

func NewPactl(r Runner) *Pactl {
	if r == nil {
		r = ExecRunner{}
	}
	return &Pactl{run: r}
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// SinkVolume returns the default sink volume in percent.
func (p *Pactl) SinkVolume(ctx context.Context) (int, error) {
	out, err := p.run.Output(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@")
	if err != nil {
		return 0, err
	}
	m := percentRe.FindStringSubmatch(string(out))
	if len(m) < 2 {
		return 0, fmt.Errorf("pactl get-sink-volume: no percentage in %q", strings.TrimSpace(string(out)))
	}
	return strconv.Atoi(m[1])
}

func (p *Pactl) SetSinkVolume(ctx context.Context, percent int) error {
	_, err := p.run.Output(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", clampVolume(percent)))
	return err
}

func (p *Pactl) SetSinkMute(ctx context.Context, mute bool) error {
	v := "0"
	if mute {
		v = "1"
	}
	_, err := p.run.Output(ctx, "pactl", "set-sink-mute", "@DEFAULT_SINK@", v)
	return err
}

// SinkInputs lists playback streams with their volume and application name.
func (p *Pactl) SinkInputs(ctx context.Context) ([]SinkInput, error) {
	out, err := p.run.Output(ctx, "pactl", "list", "sink-inputs")
	if err != nil {
		return nil, err
	}
	return parseSinkInputs(string(out)), nil
}

func (p *Pactl) SetSinkInputVolume(ctx context.Context, id, percent int) error {
	_, err := p.run.Output(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), fmt.Sprintf("%d%%", clampVolume(percent)))
	return err
}

func parseSinkInputs(text string) []SinkInput {
	parts := strings.Split(text, "Sink Input #")
	if len(parts) <= 1 {
		return nil
	}

	var res []SinkInput
	for _, block := range parts[1:] {
		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(block[:newline]))
		if err != nil {
			continue
		}

		s := SinkInput{ID: id}
		for _, line := range strings.Split(block[newline+1:], "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}

			// application.name = "Firefox"
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if i := strings.IndexByte(line, '"'); i >= 0 {
					rest := line[i+1:]
					if j := strings.IndexByte(rest, '"'); j >= 0 {
						s.AppName = rest[:j]
					}
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}
	return res
}
