package protocol

import (
	"context"
	"errors"
	log "log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

var ErrClosed = errors.New("websocket closed")

type WebSocket struct {
	url    string
	reconn time.Duration
	dialer *ws.Dialer

	mu     sync.Mutex
	conn   *ws.Conn
	closed bool
}

func NewWebSocket(ctx context.Context, url string, reconn time.Duration) (*WebSocket, error) {
	log.Debug("init websocket protocol", "url", url)

	web := &WebSocket{
		url:    url,
		reconn: reconn,
		dialer: ws.DefaultDialer,
	}

	conn, _, err := web.dialer.DialContext(ctx, url, nil)
	if err != nil {
		log.Error("Failed to dial url", "err", err)
		return nil, err
	}
	web.conn = conn

	return web, nil
}

func (web *WebSocket) current() *ws.Conn {
	web.mu.Lock()
	defer web.mu.Unlock()
	return web.conn
}

func (web *WebSocket) Write(payload []byte) error {
	web.mu.Lock()
	defer web.mu.Unlock()
	if web.conn == nil {
		return ErrClosed
	}
	log.Debug("Write ws", "msg", string(payload))
	return web.conn.WriteMessage(ws.TextMessage, payload)
}

type WsIncomeKind uint

const (
	CONN_CLOSE WsIncomeKind = iota
	READ_FAILURE
	READ_OK
)

type Income struct {
	kind WsIncomeKind
	msg  []byte
	err  error
}

// Read blocks for the next frame. Cancelling ctx closes the connection
// to unblock it.
func (web *WebSocket) Read(ctx context.Context) Income {
	conn := web.current()
	if conn == nil {
		return Income{kind: CONN_CLOSE, err: ErrClosed}
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	_, msg, err := conn.ReadMessage()
	if err != nil {
		if WsIsClosed(err) || ctx.Err() != nil {
			return Income{
				kind: CONN_CLOSE,
				err:  err,
			}
		}
		return Income{
			kind: READ_FAILURE,
			err:  err,
		}
	}

	log.Debug("Read ws", "msg", string(msg))
	return Income{
		kind: READ_OK,
		msg:  msg,
	}
}

// TryReconn dials until it succeeds or ctx is done.
func (web *WebSocket) TryReconn(ctx context.Context) error {
	for {
		if web.isClosed() {
			return ErrClosed
		}
		conn, _, err := web.dialer.DialContext(ctx, web.url, nil)
		if err == nil {
			web.mu.Lock()
			defer web.mu.Unlock()
			if web.closed {
				_ = conn.Close()
				return ErrClosed
			}
			if web.conn != nil {
				_ = web.conn.Close()
			}
			web.conn = conn
			return nil
		}
		log.Debug("Reconnect failed", "url", web.url, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(web.reconn):
		}
	}
}

func (web *WebSocket) isClosed() bool {
	web.mu.Lock()
	defer web.mu.Unlock()
	return web.closed
}

func (web *WebSocket) Close() error {
	web.mu.Lock()
	defer web.mu.Unlock()
	web.closed = true
	if web.conn == nil {
		return nil
	}
	_ = web.conn.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := web.conn.Close()
	web.conn = nil
	return err
}

func WsIsClosed(err error) bool {
	return errors.Is(err, ErrClosed) || ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
