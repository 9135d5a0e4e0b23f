package trading212

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/piewatch/internal/common"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"Unauthorized"}`))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetAccountCash(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v0/equity/account/cash": `{"free":50.25,"total":1050,"invested":950,"ppl":12.5,"result":3}`,
	})

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	cash, err := client.GetAccountCash(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50.25, cash.Free)
	assert.Equal(t, 1050.0, cash.Total)
	assert.Equal(t, 950.0, cash.Invested)
	assert.Equal(t, 12.5, cash.PPL)
}

func TestGetAccountCash_NonNumericFieldsCoerceToZero(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v0/equity/account/cash": `{"free":"abc","total":null}`,
	})

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	cash, err := client.GetAccountCash(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, cash.Free)
	assert.Equal(t, 0.0, cash.Total)
}

func TestGetPies_ResolvesNames(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v0/equity/pies": `[
			{"id":1,"result":{"priceAvgValue":600,"priceAvgResultCoef":-0.04}},
			{"id":2,"settings":{"name":"Outer Limits"},"result":{"value":400}},
			{"id":3,"value":10}
		]`,
		"/api/v0/equity/pies/1": `{"settings":{"name":"AI Leaders"}}`,
		"/api/v0/equity/pies/3": `{"instruments":[]}`,
	})

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	pies, err := client.GetPies(context.Background())
	require.NoError(t, err)
	require.Len(t, pies, 3)

	assert.Equal(t, "1", pies[0].ID)
	assert.Equal(t, "AI Leaders", pies[0].Name)
	assert.Equal(t, 600.0, pies[0].Value)
	require.NotNil(t, pies[0].ResultCoef)
	assert.InDelta(t, -0.04, *pies[0].ResultCoef, 1e-9)

	assert.Equal(t, "Outer Limits", pies[1].Name)
	assert.Equal(t, 400.0, pies[1].Value)
	assert.Nil(t, pies[1].ResultCoef, "missing coefficient must stay unknown")

	assert.Equal(t, "pie-3", pies[2].Name)
	assert.Equal(t, 10.0, pies[2].Value)
}

func TestGetTransactions_ItemsEnvelope(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"type":"DEPOSIT","amount":100,"dateTime":"2024-05-01T09:00:00Z"},{"type":"WITHDRAW","amount":50}],"nextPagePath":null}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0), WithTransactionsLimit(20))
	txs, err := client.GetTransactions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "20", gotLimit)
	require.Len(t, txs, 2)
	assert.Equal(t, "DEPOSIT", txs[0]["type"])
	assert.Equal(t, 100.0, common.ToSafeNumber(txs[0]["amount"]))
}

func TestGet_NonSuccessIsUpstreamError(t *testing.T) {
	srv := newTestServer(t, map[string]string{})

	client := NewClient("wrong-key", WithBaseURL(srv.URL), WithRateLimit(0))
	_, err := client.GetAccountCash(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, errors.Is(err, common.ErrUpstream))
}

func TestGet_MalformedBodyIsUpstreamError(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v0/equity/pies": `not json`,
	})

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	_, err := client.GetPies(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUpstream))
}
