package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/hedger/broker"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "ACCT-001", "test-token")
}

func TestGetPricing(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/v3/accounts/ACCT-001/pricing", r.URL.Path)
		assert.Equal(t, "EUR_USD", r.URL.Query().Get("instruments"))

		fmt.Fprint(w, `{"prices":[{
			"time":"2026-08-31T10:00:00.000000000Z",
			"instrument":"EUR_USD",
			"bids":[{"price":"1.08490"}],
			"asks":[{"price":"1.08510"}]
		}]}`)
	})

	tick, err := client.GetPricing(context.Background(), "EUR_USD")
	require.NoError(t, err)
	assert.Equal(t, 1.0849, tick.Bid)
	assert.Equal(t, 1.0851, tick.Ask)
	assert.NotZero(t, tick.Time)
	assert.True(t, tick.Valid())
}

func TestGetPricingEmpty(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"prices":[]}`)
	})

	_, err := client.GetPricing(context.Background(), "EUR_USD")
	assert.Error(t, err)
}

func TestGetOpenPositions(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/accounts/ACCT-001/openPositions", r.URL.Path)
		fmt.Fprint(w, `{"positions":[
			{"instrument":"EUR_USD","long":{"units":"100000"},"short":{"units":"0"}},
			{"instrument":"USD_JPY","long":{"units":"0"},"short":{"units":"-2500"}}
		]}`)
	})

	positions, err := client.GetOpenPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, broker.Position{Instrument: "EUR_USD", Units: 100000}, positions[0])
	assert.Equal(t, broker.Position{Instrument: "USD_JPY", Units: -2500}, positions[1])
}

func TestCreateMarketOrder(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/accounts/ACCT-001/orders", r.URL.Path)

		var req orderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "MARKET", req.Order.Type)
		assert.Equal(t, "EUR_USD", req.Order.Instrument)
		assert.Equal(t, "-5000", req.Order.Units)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"orderFillTransaction":{"price":"1.08500","units":"-5000"}}`)
	})

	fill, err := client.CreateMarketOrder(context.Background(), broker.MarketOrderRequest{
		Instrument: "EUR_USD",
		Units:      -5000,
	})
	require.NoError(t, err)
	require.NotNil(t, fill)
	assert.Equal(t, 1.085, fill.Price)
	assert.Equal(t, int64(-5000), fill.Units)
}

func TestCreateMarketOrderNoFill(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"orderCancelTransaction":{"reason":"INSUFFICIENT_LIQUIDITY"}}`)
	})

	fill, err := client.CreateMarketOrder(context.Background(), broker.MarketOrderRequest{
		Instrument: "EUR_USD",
		Units:      100,
	})
	require.NoError(t, err)
	assert.Nil(t, fill)
}

func TestServerErrorSurfacesBody(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessage":"Insufficient authorization"}`, http.StatusUnauthorized)
	})

	_, err := client.GetOpenPositions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Insufficient authorization")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("OANDA_URL", "https://api-fxpractice.oanda.com")
	t.Setenv("OANDA_ACCOUNT", "ACCT-001")
	t.Setenv("OANDA_API_KEY", "key")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ACCT-001", c.AccountID)

	t.Setenv("OANDA_API_KEY", "")
	_, err = FromEnv()
	assert.Error(t, err)
}
