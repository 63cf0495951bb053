package proxy

import (
	"net/http"
	"testing"
	"time"
)

func TestDirectClientWithoutProxy(t *testing.T) {
	t.Parallel()

	c, err := NewHTTPClient("", 3*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if c.Transport != nil {
		t.Fatalf("direct client should use the default transport")
	}
	if c.Timeout != 3*time.Second {
		t.Fatalf("Timeout = %v", c.Timeout)
	}
}

func TestSocksClientHasTransport(t *testing.T) {
	t.Parallel()

	c, err := NewHTTPClient("127.0.0.1:1080", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Transport.(*http.Transport); !ok {
		t.Fatalf("Transport = %T", c.Transport)
	}
}
