package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgPkg "github.com/rimsha-sudo/RAG-Chatbot/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &cfgPkg.Config{}
	cfg.LLM.Mode = "span"
	cfg.Embedding.Provider = "local"
	cfg.Embedding.Dimension = 128
	cfg.Index.Backend = "memory"
	cfg.Processor.ChunkSize = 200
	cfg.Retrieval.TopK = 3

	server, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(server.cleanup)
	return server
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketLoadAndAsk(t *testing.T) {
	server := newTestServer(t)
	ts := httptest.NewServer(http.HandlerFunc(server.handleWebSocket))
	defer ts.Close()

	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(Message{
		Type: "load",
		Name: "notes.txt",
		Data: []byte("The capital of France is Paris."),
	}))
	reply := readMessage(t, conn)
	assert.Equal(t, "status", reply.Type)

	require.NoError(t, conn.WriteJSON(Message{
		Type:    "ask",
		Content: "What is the capital of France?",
	}))
	reply = readMessage(t, conn)
	assert.Equal(t, "response", reply.Type)
	assert.Equal(t, "Paris", reply.Content)
}

func TestWebSocketSessionsAreIsolated(t *testing.T) {
	server := newTestServer(t)
	ts := httptest.NewServer(http.HandlerFunc(server.handleWebSocket))
	defer ts.Close()

	first := dialWS(t, ts)
	second := dialWS(t, ts)

	require.NoError(t, first.WriteJSON(Message{
		Type: "load",
		Name: "notes.txt",
		Data: []byte("The capital of France is Paris."),
	}))
	reply := readMessage(t, first)
	require.Equal(t, "status", reply.Type)

	// The second connection never loaded a document, so the first
	// connection's document must not leak into it.
	require.NoError(t, second.WriteJSON(Message{
		Type:    "ask",
		Content: "What is the capital of France?",
	}))
	reply = readMessage(t, second)
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Content, "no document loaded")

	require.NoError(t, first.WriteJSON(Message{
		Type:    "ask",
		Content: "What is the capital of France?",
	}))
	reply = readMessage(t, first)
	assert.Equal(t, "response", reply.Type)
	assert.Equal(t, "Paris", reply.Content)
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	server := newTestServer(t)
	ts := httptest.NewServer(http.HandlerFunc(server.handleWebSocket))
	defer ts.Close()

	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(Message{Type: "scrape", Content: "https://example.com"}))
	reply := readMessage(t, conn)
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Content, "unknown message type")
}
