package wcl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"combatlog_check/cache"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	tokens   int32
	queries  int32
	failNext int32
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokens, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		io.WriteString(w, `{"access_token":"tok","expires_in":3600}`)
	})
	mux.HandleFunc("/api/v2/client", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.queries, 1)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		if atomic.CompareAndSwapInt32(&f.failNext, 1, 0) {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&body))

		switch {
		case strings.Contains(body.Query, `code: "missing"`):
			io.WriteString(w, `{"data":{"reportData":{"report":null}}}`)
		case strings.Contains(body.Query, "fights(fightIDs: [3,4])"):
			io.WriteString(w, `{"data":{"reportData":{"report":{
				"fights":[{"id":3,"encounterID":2902,"name":"Boss","startTime":10000,"endTime":70000,"kill":true}],
				"masterData":{"actors":[{"id":7,"name":"Brewer","server":"Hyjal","subType":"Monk"}]}}}}}`)
		case strings.Contains(body.Query, "startTime: 10000"):
			io.WriteString(w, `{"data":{"reportData":{"report":{"events":{
				"data":[{"timestamp":11000,"type":"cast","sourceID":7,"abilityGameID":100780}],
				"nextPageTimestamp":20000}}}}}`)
		case strings.Contains(body.Query, "startTime: 20000"):
			io.WriteString(w, `{"data":{"reportData":{"report":{"events":{
				"data":[{"timestamp":21000,"type":"cast","sourceID":7,"abilityGameID":119582}]}}}}}`)
		default:
			io.WriteString(w, `{"errors":[{"message":"unknown query"}]}`)
		}
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeServer, events *cache.Storage) *Client {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	return New(Options{
		Endpoint:     srv.URL + "/api/v2/client",
		TokenURL:     srv.URL + "/oauth/token",
		ClientID:     "id",
		ClientSecret: "secret",
		HTTPClient:   srv.Client(),
		Events:       events,
		RetryDelay:   time.Millisecond,
	})
}

func TestFights(t *testing.T) {
	f := &fakeServer{}
	c := newTestClient(t, f, nil)

	r, err := c.Fights(context.Background(), "aBcD1234eFgH5678", []int{3, 4})
	require.NoError(t, err)
	require.Len(t, r.Fights, 1)
	assert.Equal(t, 2902, r.Fights[0].EncounterID)

	actor, ok := r.Actor(7)
	assert.True(t, ok)
	assert.Equal(t, "Brewer", actor.Name)

	_, err = c.Fights(context.Background(), "aBcD1234eFgH5678", []int{9})
	assert.EqualError(t, err, "report aBcD1234eFgH5678: unknown query")
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.tokens))
}

func TestFightsNotFound(t *testing.T) {
	c := newTestClient(t, &fakeServer{}, nil)

	_, err := c.Fights(context.Background(), "missing", []int{1})
	require.Error(t, err)
	assert.Equal(t, ErrReportNotFound, errors.Cause(err))
}

func TestCastEventsPagesAndCaches(t *testing.T) {
	f := &fakeServer{}
	events, err := cache.NewStorage(t.TempDir(), 0)
	require.NoError(t, err)
	c := newTestClient(t, f, events)

	fight := Fight{ID: 3, StartTime: 10000, EndTime: 70000}

	got, err := c.CastEvents(context.Background(), "code", fight, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1000, got[0].Timestamp)
	assert.Equal(t, 11000, got[1].Timestamp)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.queries))

	got, err = c.CastEvents(context.Background(), "code", fight, 7)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.queries), "second run served from cache")
}

func TestCallGraphQLRetries(t *testing.T) {
	f := &fakeServer{failNext: 1}
	c := newTestClient(t, f, nil)

	_, err := c.CastEvents(context.Background(), "code", Fight{ID: 3, StartTime: 20000, EndTime: 70000}, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.queries))
}

func TestCallGraphQLCancelled(t *testing.T) {
	f := &fakeServer{}
	c := newTestClient(t, f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fights(ctx, "code", []int{3, 4})
	assert.Error(t, err)
}
