package audio

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const SampleRate = 16000

// VAD tunes the energy based end-of-speech detection of RecordAuto.
type VAD struct {
	FrameSize     int           // samples per frame
	Threshold     float64       // frame RMS that counts as speech
	Silence       time.Duration // trailing silence that ends an utterance
	MaxLength     time.Duration // hard cap on one recording
	LeadingWindow time.Duration // give up when nobody speaks this long, 0 = MaxLength
}

func DefaultVAD() VAD {
	return VAD{
		FrameSize: 320, // 20ms
		Threshold: 0.015,
		Silence:   600 * time.Millisecond,
		MaxLength: 10 * time.Second,
	}
}

// endpointer decides, frame by frame, which audio belongs to the utterance.
type endpointer struct {
	vad      VAD
	frameDur time.Duration
	speaking bool
	silent   time.Duration
	elapsed  time.Duration
	out      []float32
}

func newEndpointer(v VAD) *endpointer {
	return &endpointer{
		vad:      v,
		frameDur: time.Duration(v.FrameSize) * time.Second / SampleRate,
		out:      make([]float32, 0, SampleRate*3),
	}
}

// feed consumes one frame and reports whether recording should stop.
func (e *endpointer) feed(frame []float32) bool {
	e.elapsed += e.frameDur

	if frameRMS(frame) > e.vad.Threshold {
		e.speaking = true
		e.silent = 0
		e.out = append(e.out, frame...)
	} else if e.speaking {
		e.silent += e.frameDur
		if e.silent >= e.vad.Silence {
			return true
		}
		e.out = append(e.out, frame...)
	} else if e.vad.LeadingWindow > 0 && e.elapsed >= e.vad.LeadingWindow {
		return true
	}
	return e.elapsed >= e.vad.MaxLength
}

type Recorder struct {
	vad VAD
}

func NewRecorder(v VAD) *Recorder {
	if v.FrameSize <= 0 {
		v = DefaultVAD()
	}
	return &Recorder{vad: v}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordAuto records from the default input until the speaker falls
// silent. It returns no samples when nobody spoke.
func (r *Recorder) RecordAuto(ctx context.Context) ([]float32, error) {
	buf := make([]float32, r.vad.FrameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	ep := newEndpointer(r.vad)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, err
		}
		if ep.feed(buf) {
			break
		}
	}
	return ep.out, nil
}

// RecordUntil records everything until stop fires, ctx ends or maxDur
// passes.
func (r *Recorder) RecordUntil(ctx context.Context, stop <-chan struct{}, maxDur time.Duration) ([]float32, error) {
	if maxDur <= 0 {
		maxDur = 15 * time.Second
	}

	const frameSize = 1024

	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(SampleRate), len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	deadline := time.Now().Add(maxDur)
	out := make([]float32, 0, int(float64(SampleRate)*maxDur.Seconds()))

	for time.Now().Before(deadline) {
		select {
		case <-stop:
			return out, nil
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}

	if len(out) == 0 {
		return nil, errors.New("no audio recorded")
	}
	return out, nil
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
