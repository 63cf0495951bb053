package audioconv

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavBytes encodes interleaved 16-bit samples as a WAV file.
func wavBytes(t *testing.T, rate, channels int, data []int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestDecodeWAVStereo8k(t *testing.T) {
	t.Parallel()

	// 0.1s of stereo: left at half scale, right silent.
	var data []int
	for i := 0; i < 800; i++ {
		data = append(data, 16384, 0)
	}
	pcm, err := Decode(bytes.NewReader(wavBytes(t, 8000, 2, data)), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(pcm) != 1600 {
		t.Fatalf("len = %d, want 1600", len(pcm))
	}
	if math.Abs(float64(pcm[10])-0.25) > 1e-3 {
		t.Fatalf("sample = %v, want 0.25", pcm[10])
	}
}

func TestDecodeMaxSamples(t *testing.T) {
	t.Parallel()
	data := make([]int, 16000)
	pcm, err := Decode(bytes.NewReader(wavBytes(t, 16000, 1, data)), Options{MaxSamples: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm) != 100 {
		t.Fatalf("len = %d", len(pcm))
	}
}

func TestDecodeUnsupported(t *testing.T) {
	t.Parallel()
	if _, err := Decode(bytes.NewReader([]byte("hello world")), Options{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Decode(bytes.NewReader(nil), Options{}); err == nil {
		t.Fatal("decoded an empty stream")
	}
}

func TestSniff(t *testing.T) {
	t.Parallel()
	cases := map[string]Format{
		"RIFF....":         FormatWAV,
		"OggS":             FormatOgg,
		"ID3\x04":          FormatMP3,
		"\xff\xfb\x90\x00": FormatMP3,
		"fLaC":             FormatUnknown,
		"":                 FormatUnknown,
	}
	for in, want := range cases {
		if got := Sniff([]byte(in)); got != want {
			t.Errorf("Sniff(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResampleLinear(t *testing.T) {
	t.Parallel()
	out := resampleLinear([]float32{0, 1, 0, 1}, 32000, 16000)
	if len(out) != 2 || out[0] != 0 || out[1] != 0 {
		t.Fatalf("out = %v", out)
	}
	if got := resampleLinear([]float32{1, 2}, 16000, 16000); len(got) != 2 {
		t.Fatalf("identity resample changed length: %v", got)
	}
}
