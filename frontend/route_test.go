package frontend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"combatlog_check/analysis"
	"combatlog_check/wow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	g := gin.New()
	s := &Server{
		Presets:   analysis.DefaultPresets,
		Abilities: wow.Default,
	}
	s.Route(g)
	return g
}

func post(g *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestAnalyze(t *testing.T) {
	g := newTestEngine()

	body := `{
		"preset": "tiger-palm",
		"source_id": 1,
		"events": [
			{"timestamp": 25000, "type": "cast", "sourceID": 1, "abilityGameID": 100780},
			{"timestamp": 0, "type": "cast", "sourceID": 1, "abilityGameID": 119582},
			{"timestamp": 1000, "type": "cast", "sourceID": 1, "abilityGameID": 100780, "classResources": [{"type": 3, "amount": 80, "max": 100}]},
			{"timestamp": 2000, "type": "cast", "sourceID": 2, "abilityGameID": 100780}
		]
	}`

	w := post(g, "/api/analyze", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var r analysis.FightResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))

	assert.Equal(t, 2, r.Counters.TotalCasts)
	assert.Equal(t, 1, r.Counters.WastedCasts)
	assert.Equal(t, 1000, r.Counters.EffectiveReduction)
	assert.Equal(t, 1000, r.Counters.WastedReduction)
	require.Len(t, r.Casts, 1)
	assert.Equal(t, 25000, r.Casts[0].Timestamp)
}

func TestAnalyzeUnknownPreset(t *testing.T) {
	g := newTestEngine()

	w := post(g, "/api/analyze", `{"preset": "nope", "source_id": 1, "events": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(g, "/api/analyze", `{"preset": "tiger-palm"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(g, "/api/analyze", `{"preset": "Tiger-Palm", "source_id": 1, "events": []}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeeding(t *testing.T) {
	g := newTestEngine()

	body := `{
		"expanded": false,
		"categories": [
			{"name": "Beacon", "total": 1000, "abilities": {
				"19750": {"name": "Flash of Light", "healing": 400},
				"82326": {"name": "Holy Light", "healing": 600}
			}},
			{"name": "Empty", "total": 0, "abilities": {}}
		]
	}`

	w := post(g, "/api/feeding", body)
	require.Equal(t, http.StatusOK, w.Code)

	html := w.Body.String()
	assert.Contains(t, html, "Beacon")
	assert.NotContains(t, html, "Empty")
	assert.Less(t, bytes.Index(w.Body.Bytes(), []byte("Holy Light")), bytes.Index(w.Body.Bytes(), []byte("Flash of Light")))
}

func TestPresetsAndNoRoute(t *testing.T) {
	g := newTestEngine()

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/presets", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var presets map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &presets))
	assert.Contains(t, presets, "tiger-palm")

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
