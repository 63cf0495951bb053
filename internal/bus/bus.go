// Package bus attaches Nova to the shard bus. Utterances addressed to
// Nova arrive as text or audio and are answered with a reply envelope.
package bus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"nova/internal/dispatch"
	"nova/internal/persona"
	"nova/internal/session"
	"nova/pkg/audioconv"
	"nova/pkg/protocol"
)

// Transcriber turns 16 kHz mono samples into text.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
}

// Conn is the part of the bus protocol a Source needs.
type Conn interface {
	Receive(ctx context.Context) (*protocol.Message, error)
	Reply(req *protocol.Message, reply protocol.Message) error
}

type Option func(*Source)

// WithPhraser sets where failure replies come from.
func WithPhraser(p persona.Phraser) Option {
	return func(s *Source) { s.phrases = p }
}

// WithTranscriber lets the source accept audio utterances.
func WithTranscriber(t Transcriber) Option {
	return func(s *Source) { s.stt = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Source) { s.log = l }
}

// Source is a session.Source fed by bus messages.
type Source struct {
	conn    Conn
	stt     Transcriber
	phrases persona.Phraser
	log     *slog.Logger
}

func NewSource(conn Conn, opts ...Option) *Source {
	s := &Source{conn: conn, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	if s.phrases == nil {
		s.phrases = persona.NewPicker(nil, nil).Phraser("")
	}
	return s
}

// MaxAudioSamples caps decoded audio at 30 seconds.
const MaxAudioSamples = 30 * 16000

func (s *Source) Listen(ctx context.Context) (session.Input, error) {
	msg, err := s.conn.Receive(ctx)
	if err != nil {
		if errors.Is(err, protocol.ErrClosed) {
			return session.Input{}, io.EOF
		}
		return session.Input{}, err
	}

	if msg.Kind != protocol.KindUtterance {
		s.log.Debug("Ignoring bus message", "kind", msg.Kind, "from", msg.From)
		return session.Input{}, session.ErrNoInput
	}

	text := strings.TrimSpace(msg.Content)
	if text == "" && len(msg.Audio) > 0 {
		if text, err = s.transcribe(ctx, msg.Audio); err != nil {
			s.log.Error("Failed to transcribe bus audio", "from", msg.From, "err", err)
			s.fail(msg)
			return session.Input{}, session.ErrNoInput
		}
	}
	if text == "" {
		return session.Input{}, session.ErrNoInput
	}

	s.log.Info("Bus utterance", "from", msg.From, "id", msg.ID, "text", text)
	return session.Input{
		Text: text,
		Respond: func(_ context.Context, res dispatch.Result) error {
			return s.conn.Reply(msg, protocol.Message{
				Content: res.Text,
				Intent:  res.Intent,
				Outcome: string(res.Outcome),
			})
		},
	}, nil
}

func (s *Source) transcribe(ctx context.Context, audio []byte) (string, error) {
	if s.stt == nil {
		return "", errors.New("audio is not supported")
	}
	pcm, err := audioconv.Decode(bytes.NewReader(audio), audioconv.Options{MaxSamples: MaxAudioSamples})
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	text, err := s.stt.Transcribe(ctx, pcm)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// fail answers msg with an error phrase. The cause is only logged.
func (s *Source) fail(msg *protocol.Message) {
	reply := protocol.Message{Content: s.phrases.Phrase(persona.Error), Outcome: "error"}
	if err := s.conn.Reply(msg, reply); err != nil {
		s.log.Warn("Failed to report error", "err", err)
	}
}
