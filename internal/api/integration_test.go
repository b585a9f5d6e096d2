package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabRuby/calcTacos/internal/api/dto"
	"github.com/GabRuby/calcTacos/internal/application/service"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
)

// =============================================================================
// API Integration Tests
// =============================================================================
// These tests use real SQLite databases to test the full stack:
// HTTP request → Router → Handlers → Services → Storage → SQLite
//
// This catches issues that mock-based tests miss, like:
// - decimal columns losing precision on the way back
// - NULL start times on released tables
// - JSON serialization through the full pipeline

func createTestServer(t *testing.T) (*httptest.Server, *storage.Storage) {
	t.Helper()

	store, err := storage.NewStorage(filepath.Join(t.TempDir(), "api_integration.db"))
	require.NoError(t, err)

	env := buildServer(t, store)
	ts := httptest.NewServer(env.server.Router())

	t.Cleanup(func() {
		ts.Close()
		_ = store.Close()
	})
	return ts, store
}

func call(t *testing.T, ts *httptest.Server, method, path string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestAPI_Integration_HealthCheck(t *testing.T) {
	ts, _ := createTestServer(t)

	resp := call(t, ts, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_Integration_WeightItemSplitAndClose(t *testing.T) {
	ts, store := createTestServer(t)

	resp := call(t, ts, http.MethodPut, "/api/menu/carne", map[string]interface{}{
		"name": "Carne asada", "price": "320", "isPesos": true, "unit": "kg",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, ts, http.MethodPost, "/api/tables", map[string]string{"name": "Terraza"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var table dto.TableResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))

	resp = call(t, ts, http.MethodPut, "/api/tables/"+table.ID+"/order", map[string]interface{}{
		"items": []map[string]string{
			{"itemId": "carne", "quantity": "0.75"},
			{"itemId": "soda", "quantity": "2"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))
	assert.True(t, decimal.NewFromInt(250).Equal(table.OrderTotal), table.OrderTotal.String())

	base := "/api/tables/" + table.ID + "/split"
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, base, nil).StatusCode)

	// $80 of meat is a quarter kilo
	resp = call(t, ts, http.MethodPut, base+"/tabs/A/items/carne", map[string]string{"amount": "80"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, base+"/tabs/A/pay", nil).StatusCode)

	resp = call(t, ts, http.MethodPut, base+"/tabs/Rest/payment", map[string]string{"method": "transfer"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPost, base+"/tabs/Rest/pay", nil).StatusCode)

	resp = call(t, ts, http.MethodPost, base+"/close", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result service.CloseResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, decimal.NewFromInt(80).Equal(result.Sale.CashPart))
	assert.True(t, decimal.NewFromInt(170).Equal(result.Sale.TransferPart))

	// Persisted with exact decimals
	stored, err := store.ListSales(t.Context(), result.BusinessDate)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, decimal.RequireFromString("0.75").Equal(stored[0].Items[0].Quantity))
	assert.True(t, decimal.NewFromInt(250).Equal(stored[0].Total))

	released, err := store.GetTable(t.Context(), table.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.TableAvailable, released.Status)
	assert.Nil(t, released.StartTime)

	resp = call(t, ts, http.MethodGet, "/api/sales/daily?date="+result.BusinessDate, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary sales.DailySummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.True(t, decimal.NewFromInt(250).Equal(summary.Total))
	assert.True(t, decimal.NewFromInt(170).Equal(summary.Payments.Transfer))
}
