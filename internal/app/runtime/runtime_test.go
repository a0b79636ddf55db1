package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json honours level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&buf, slog.LevelWarn, "json")

		log.Info("dropped")
		log.Warn("kept", slog.String("os_id", "abc"))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "kept", line["msg"])
		assert.Equal(t, "abc", line["os_id"])
		assert.Equal(t, "catering-ops", line["service"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, slog.LevelInfo, "text").Info("hello")

		assert.Contains(t, buf.String(), "msg=hello")
	})
}

func TestHTTPServer_StartAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewHTTPServer(addr, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), log)
	errc := srv.Start()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, srv.Shutdown(context.Background(), time.Second))
	_, open := <-errc
	assert.False(t, open)
}

func TestHTTPServer_ReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := NewHTTPServer(ln.Addr().String(), http.NotFoundHandler(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	select {
	case err := <-srv.Start():
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("expected listen error")
	}
}

func TestCloseAll_ContinuesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelDebug, "json")

	var order []string
	CloseAll(log,
		Closer{Name: "consumer", Close: func() error { order = append(order, "consumer"); return errors.New("broker gone") }},
		Closer{Name: "skipped"},
		Closer{Name: "db", Close: func() error { order = append(order, "db"); return nil }},
	)

	assert.Equal(t, []string{"consumer", "db"}, order)
	assert.Contains(t, buf.String(), "broker gone")
}
