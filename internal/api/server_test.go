package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MixMasterMitch/mint-amazon-linker/internal/domain/ledger"
	"github.com/MixMasterMitch/mint-amazon-linker/internal/infrastructure/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Storage) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewServer(store, nil), store
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetRuns(t *testing.T) {
	// Arrange
	server, store := newTestServer(t)
	runID, err := store.StartRun(false)
	require.NoError(t, err)
	require.NoError(t, store.CompleteRun(runID, 3, 1, 0, 0))
	router := server.Router()

	// Act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var runs []storage.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 3, runs[0].JoinedCount)
}

func TestGetRuns_EmptyIsList(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestGetRunDetail(t *testing.T) {
	server, store := newTestServer(t)
	runID, err := store.StartRun(false)
	require.NoError(t, err)
	require.NoError(t, store.SaveJoinedRecord(runID, &ledger.JoinedRecord{
		TransactionID: "tx-1",
		OrderID:       "111-222",
		OrderDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:        -25.50,
		Items: []ledger.JoinedItem{
			{TrackingID: "T1", Description: "Amazon: Widget", Amount: -25.50},
		},
	}))
	router := server.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/runs/"+runID, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, runID, resp.ID)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "tx-1", resp.Records[0].TransactionID)
	assert.Equal(t, "2024-03-01", resp.Records[0].OrderDate)
	require.Len(t, resp.Records[0].Items, 1)
	assert.Equal(t, "Amazon: Widget", resp.Records[0].Items[0].Description)
}

func TestGetRunDetail_NotFound(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStats(t *testing.T) {
	server, store := newTestServer(t)
	runID, err := store.StartRun(false)
	require.NoError(t, err)
	require.NoError(t, store.SaveJoinedRecord(runID, &ledger.JoinedRecord{
		TransactionID: "tx-1", OrderID: "o-1",
		OrderDate: time.Now(), Amount: -10.00, IsUnmodified: true,
	}))
	router := server.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var stats storage.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.TotalJoined)
}
