// Package protocol speaks the shard bus: JSON envelopes over a websocket,
// addressed by shard name.
package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Broadcast addresses every shard on the bus.
const Broadcast = "ALL"

// Message kinds.
const (
	KindUtterance = "utterance"
	KindReply     = "reply"
	KindAnnounce  = "announce"
)

type Message struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content,omitempty"`
	Audio   []byte `json:"audio,omitempty"`
	ReplyTo string `json:"reply_to,omitempty"`
	Intent  string `json:"intent,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}

type PtclConfig struct {
	Shard  string
	Url    string
	Reconn time.Duration
}

type Protocol struct {
	ws    *WebSocket
	shard string
}

func NewProtocol(ctx context.Context, cfg PtclConfig) (*Protocol, error) {
	if !isToken(cfg.Shard) {
		return nil, fmt.Errorf("invalid shard name %q", cfg.Shard)
	}
	if cfg.Reconn <= 0 {
		cfg.Reconn = 2 * time.Second
	}

	ws, err := NewWebSocket(ctx, cfg.Url, cfg.Reconn)
	if err != nil {
		log.Error("Failed to init ws connection")
		return nil, err
	}

	return &Protocol{
		shard: cfg.Shard,
		ws:    ws,
	}, nil
}

func (ptcl *Protocol) Shard() string { return ptcl.shard }

// Transmit stamps msg with this shard and a fresh ID when it has none.
func (ptcl *Protocol) Transmit(msg Message) error {
	msg.From = ptcl.shard
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := ptcl.ws.Write(data); err != nil {
		log.Error("Failed to transmit", "id", msg.ID, "err", err)
		return err
	}
	return nil
}

// Reply answers req on behalf of this shard.
func (ptcl *Protocol) Reply(req *Message, reply Message) error {
	reply.To = req.From
	reply.Kind = KindReply
	reply.ReplyTo = req.ID
	return ptcl.Transmit(reply)
}

// Receive returns the next message addressed to this shard, reconnecting
// when the bus drops.
func (ptcl *Protocol) Receive(ctx context.Context) (*Message, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		in := ptcl.ws.Read(ctx)
		switch in.kind {
		case CONN_CLOSE, READ_FAILURE:
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if in.kind == READ_FAILURE {
				// A failed read leaves the connection unusable.
				log.Error("Failed to read", "err", in.err)
			}
			log.Warn("Trying to reconnect on", "url", ptcl.ws.url)
			if err := ptcl.ws.TryReconn(ctx); err != nil {
				return nil, err
			}
			log.Info("Succefully reconnected")

		case READ_OK:
			msg, err := Parse(in.msg)
			if err != nil {
				log.Warn("Failed to parse", "msg", string(in.msg), "err", err)
				continue
			}
			if !ptcl.checkRecipient(msg) {
				continue
			}
			return msg, nil
		}
	}
}

func (ptcl *Protocol) Close() error {
	return ptcl.ws.Close()
}

func (ptcl *Protocol) checkRecipient(msg *Message) bool {
	return msg.From != ptcl.shard && (msg.To == ptcl.shard || msg.To == Broadcast)
}

// Parse decodes and checks one envelope.
func Parse(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Kind == "" {
		return nil, errors.New("missing kind")
	}
	if !isToken(m.To) {
		return nil, fmt.Errorf("invalid TO token: %q", m.To)
	}
	if !isToken(m.From) {
		return nil, fmt.Errorf("invalid FROM token: %q", m.From)
	}
	return &m, nil
}

var tokenRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func isToken(s string) bool {
	return tokenRe.MatchString(s)
}
