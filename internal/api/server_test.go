package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shlokapp/narrate-server/internal/domain"
	"github.com/shlokapp/narrate-server/internal/ratelimit"
	"github.com/shlokapp/narrate-server/internal/search"
	"github.com/shlokapp/narrate-server/internal/service"
	"github.com/shlokapp/narrate-server/internal/store"
)

// setupTestServer creates a test server with all dependencies and a single
// stored reading.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "narrate-api-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ix, err := search.NewIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })

	reading := testAlignedReading()
	ctx := context.Background()
	require.NoError(t, st.PutReading(ctx, reading))
	require.NoError(t, ix.IndexReading(ctx, search.DocumentsForReading(reading)))

	library := service.NewLibraryService(st, ix, "", logger)
	playback := service.NewPlaybackService(st, library, service.PlaybackOptions{
		SampleInterval:  time.Millisecond,
		PersistInterval: time.Hour,
	}, logger)
	t.Cleanup(func() { playback.Shutdown(context.Background()) })

	return NewServer(library, playback, nil, logger)
}

func testAlignedReading() *domain.AlignedReading {
	return &domain.AlignedReading{
		AudioFileRef:    "Ch02_Verses_47-47_hi.mp3",
		ReadingKey:      "Ch02_Verses_47-47",
		Language:        "hi",
		DurationSeconds: 60,
		Sections: []domain.Section{
			{
				Kind: domain.KindVerse,
				Text: "karmanye vadhikaraste",
				Words: []domain.TimedWord{
					{Text: "karmanye", StartSeconds: 0.5, EndSeconds: 1.3, Matched: true},
					{Text: "vadhikaraste", StartSeconds: 1.3, EndSeconds: 2.4, Matched: true},
				},
			},
			{
				Kind: domain.KindVerseTranslation,
				Text: "Your right is to action alone.",
				Words: []domain.TimedWord{
					{Text: "Your", StartSeconds: 4.0, EndSeconds: 4.3},
					{Text: "right", StartSeconds: 4.3, EndSeconds: 4.7},
					{Text: "is", StartSeconds: 4.7, EndSeconds: 4.9},
					{Text: "to", StartSeconds: 4.9, EndSeconds: 5.1},
					{Text: "action", StartSeconds: 5.1, EndSeconds: 5.6},
					{Text: "alone.", StartSeconds: 5.6, EndSeconds: 6.2},
				},
			},
		},
	}
}

// doRequest executes a request against the server and decodes the envelope.
func doRequest(t *testing.T, server *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func dataField(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "envelope data is not an object: %v", envelope)
	return data
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "healthy", dataField(t, envelope)["status"])
}

func TestListReadings(t *testing.T) {
	server := setupTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/readings", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)

	summary := data[0].(map[string]any)
	assert.Equal(t, "Ch02_Verses_47-47", summary["reading_key"])
	assert.Equal(t, float64(2), summary["section_count"])
}

func TestGetReading(t *testing.T) {
	server := setupTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/readings/Ch02_Verses_47-47?lang=hi", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	data := dataField(t, envelope)
	assert.Equal(t, "hi", data["language"])
	sections, ok := data["sections"].([]any)
	require.True(t, ok)
	assert.Len(t, sections, 2)
}

func TestGetReading_DefaultLanguage(t *testing.T) {
	server := setupTestServer(t)

	rec, _ := doRequest(t, server, http.MethodGet, "/api/v1/readings/Ch02_Verses_47-47", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetReading_NotFound(t *testing.T) {
	server := setupTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/readings/Ch09_Verses_01-01", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestReadingKey(t *testing.T) {
	server := setupTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/readings/key?chapter=1&verses=1-3", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	data := dataField(t, envelope)
	assert.Equal(t, "Ch01_Verses_01-03", data["reading_key"])
	assert.Equal(t, false, data["available"]) // nothing stored under chapter 1
}

func TestReadingKey_ReportsStoredReading(t *testing.T) {
	server := setupTestServer(t)

	// The fixture stores Ch02_Verses_47-47 in hi only.
	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/readings/key?chapter=2&verses=47", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	data := dataField(t, envelope)
	assert.Equal(t, "Ch02_Verses_47-47", data["reading_key"])
	assert.Equal(t, true, data["available"])

	rec, envelope = doRequest(t, server, http.MethodGet, "/api/v1/readings/key?chapter=2&verses=47&lang=en", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, dataField(t, envelope)["available"])
}

func TestReadingKey_Invalid(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name string
		path string
	}{
		{name: "missing chapter", path: "/api/v1/readings/key?verses=1-3"},
		{name: "bad verses", path: "/api/v1/readings/key?chapter=1&verses=x-3"},
		{name: "reversed range", path: "/api/v1/readings/key?chapter=1&verses=5-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doRequest(t, server, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMarkAssetEndpoint(t *testing.T) {
	server := setupTestServer(t)

	rec, _ := doRequest(t, server, http.MethodPost, "/api/v1/assets", MarkAssetRequest{
		AudioFileRef: "Ch02_Verses_47-47_hi.mp3",
		LocalPath:    "/data/audio/ch02.mp3",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// A session loaded afterwards resolves the downloaded path.
	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/playback/load", LoadReadingRequest{
		SessionID:  "ses-asset",
		ReadingID:  7,
		ReadingKey: "Ch02_Verses_47-47",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataField(t, envelope)
	assert.Equal(t, "Ch02_Verses_47-47_hi.mp3", data["audio_file_ref"])
	assert.Equal(t, "/data/audio/ch02.mp3", data["audio_path"])
}

func TestMarkAssetEndpoint_Invalid(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name string
		body MarkAssetRequest
	}{
		{name: "missing audio file ref", body: MarkAssetRequest{LocalPath: "/data/audio/x.mp3"}},
		{name: "missing local path", body: MarkAssetRequest{AudioFileRef: "x.mp3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := doRequest(t, server, http.MethodPost, "/api/v1/assets", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestSearchEndpoint(t *testing.T) {
	server := setupTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/search?q=action", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	results, ok := envelope["data"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)

	result := results[0].(map[string]any)
	hit := result["hit"].(map[string]any)
	assert.Equal(t, "Ch02_Verses_47-47", hit["reading_key"])
	assert.Equal(t, "translation", hit["category"])

	highlight := result["highlight"].(map[string]any)
	assert.Equal(t, float64(1), highlight["section_index"])
	assert.Equal(t, float64(4), highlight["word_index"])
}

func TestSearchEndpoint_EmptyQuery(t *testing.T) {
	server := setupTestServer(t)

	rec, _ := doRequest(t, server, http.MethodGet, "/api/v1/search?q=", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchLimit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "absent", raw: "", want: defaultSearchLimit},
		{name: "explicit", raw: "25", want: 25},
		{name: "at cap", raw: "100", want: 100},
		{name: "over cap is clamped", raw: "1000000", want: maxSearchLimit},
		{name: "zero", raw: "0", want: defaultSearchLimit},
		{name: "negative", raw: "-5", want: defaultSearchLimit},
		{name: "not a number", raw: "many", want: defaultSearchLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchLimit(tt.raw))
		})
	}
}

func TestSearchEndpoint_OversizedLimit(t *testing.T) {
	server := setupTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/search?q=action&limit=1000000", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope["success"])
}

func TestSearchEndpoint_RateLimited(t *testing.T) {
	server := setupTestServer(t)
	server.searchLimiter = ratelimit.New(1, 1)

	rec, _ := doRequest(t, server, http.MethodGet, "/api/v1/search?q=action", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, server, http.MethodGet, "/api/v1/search?q=action", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
