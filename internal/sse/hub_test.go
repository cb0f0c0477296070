package sse

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "test-event",
			data:      "hello world",
			expected:  "event: test-event\ndata: hello world\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "notice",
			data:      "{\n  \"title\": \"x\"\n}",
			expected:  "event: notice\ndata: {\ndata:   \"title\": \"x\"\ndata: }\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", []string{""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient()
	require.True(t, hub.Register(client))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastEvent("test", "payload")

	select {
	case msg := <-client.send:
		assert.Equal(t, "event: test\ndata: payload\n\n", string(msg))
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
	}

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	// The send channel is closed on unregister
	_, ok := <-client.send
	assert.False(t, ok)
}

func TestHub_NotifyEncodesNotice(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient()
	require.True(t, hub.Register(client))

	hub.Notify(model.Notice{Title: "Item delivered!", Description: "AK-47", OrderID: 42})

	select {
	case msg := <-client.send:
		text := string(msg)
		require.True(t, strings.HasPrefix(text, "event: notice\ndata: "))
		payload := strings.TrimSuffix(strings.TrimPrefix(text, "event: notice\ndata: "), "\n\n")

		var event NoticeEvent
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		assert.Equal(t, "Item delivered!", event.Title)
		assert.Equal(t, "AK-47", event.Description)
		assert.Equal(t, "default", event.Variant)
		assert.Equal(t, int64(42), event.OrderID)
	case <-time.After(time.Second):
		t.Fatal("client did not receive notice")
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	client := NewClient()
	require.True(t, hub.Register(client))

	hub.Close()
	hub.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	_, ok := <-client.send
	assert.False(t, ok)
	assert.False(t, hub.Register(NewClient()))
}

func TestServeSSE_StreamsNotices(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub)
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "":
				return name, data
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data += strings.TrimPrefix(line, "data: ")
			}
		}
	}

	name, data := readEvent()
	assert.Equal(t, EventConnected, name)
	assert.Contains(t, data, "client_id")

	hub.Notify(model.Notice{Title: "Delivery failed", Variant: model.NoticeDestructive})

	name, data = readEvent()
	assert.Equal(t, EventNotice, name)
	assert.Contains(t, data, `"variant":"destructive"`)
}
