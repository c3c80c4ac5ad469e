package analysispool

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"combatlog_check/analysis"
	"combatlog_check/cache"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls int32
}

func (f *fakeRunner) Do(ctx context.Context, reqData *analysis.RequestData, progress func(p string), buf *bytes.Buffer) bool {
	atomic.AddInt32(&f.calls, 1)
	progress("half way")
	buf.WriteString("<p>" + reqData.ReportCode + "</p>")
	return reqData.SourceID != 99
}

func newTestServer(t *testing.T) (*fakeRunner, string) {
	results, err := cache.NewStorage(t.TempDir(), time.Hour)
	require.NoError(t, err)

	runner := &fakeRunner{}
	p := New(runner, results)
	p.CloseDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	p.Start(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		p.Do(r.Context(), ws)
	}))
	t.Cleanup(srv.Close)

	return runner, "ws" + strings.TrimPrefix(srv.URL, "http")
}

type message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func exchange(t *testing.T, url string, req analysis.RequestData) []message {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	var m message
	require.NoError(t, ws.ReadJSON(&m))
	require.Equal(t, "ready", m.Event)

	require.NoError(t, ws.WriteJSON(&req))

	var messages []message
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var m message
		if err := ws.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		messages = append(messages, m)
		if m.Event == "complete" || m.Event == "error" {
			return messages
		}
	}
}

func events(messages []message) []string {
	r := make([]string, len(messages))
	for i, m := range messages {
		r[i] = m.Event
	}
	return r
}

func validRequest() analysis.RequestData {
	return analysis.RequestData{
		Preset:     "tiger-palm",
		ReportCode: "aBcD1234eFgH5678",
		FightIDs:   []int{1},
		SourceID:   7,
	}
}

func TestDoRunsAndCaches(t *testing.T) {
	runner, url := newTestServer(t)

	messages := exchange(t, url, validRequest())
	ev := events(messages)
	assert.Contains(t, ev, "waiting")
	assert.Contains(t, ev, "start")
	assert.Contains(t, ev, "progress")

	last := messages[len(messages)-1]
	assert.Equal(t, "complete", last.Event)
	assert.Equal(t, "<p>aBcD1234eFgH5678</p>", last.Data)

	messages = exchange(t, url, validRequest())
	assert.Equal(t, []string{"complete"}, events(messages))
	assert.Equal(t, "<p>aBcD1234eFgH5678</p>", messages[0].Data)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runner.calls))
}

func TestDoReportsFailure(t *testing.T) {
	runner, url := newTestServer(t)

	req := validRequest()
	req.SourceID = 99
	messages := exchange(t, url, req)
	assert.Equal(t, "error", messages[len(messages)-1].Event)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runner.calls))

	// failures are not cached
	exchange(t, url, req)
	assert.Equal(t, int32(2), atomic.LoadInt32(&runner.calls))
}

func TestDoRejectsInvalidRequest(t *testing.T) {
	runner, url := newTestServer(t)

	req := validRequest()
	req.ReportCode = "x"
	messages := exchange(t, url, req)
	assert.Equal(t, []string{"error"}, events(messages))
	assert.Equal(t, int32(0), atomic.LoadInt32(&runner.calls))
}
