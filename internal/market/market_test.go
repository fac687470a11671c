package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	return &Client{http: srv.Client(), baseURL: srv.URL}
}

func TestGetTicker(t *testing.T) {
	c := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PEPETOPIA/USDT", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"code":0,"data":{"symbol":"PEPETOPIA/USDT",
			"open":"0.0010","close":"0.0012","high":"0.0013","low":"0.0009","volume":"50000"}}`))
	})

	ticker, err := c.GetTicker(context.Background(), "PEPETOPIA/USDT")
	require.NoError(t, err)
	assert.Equal(t, "PEPETOPIA", ticker.Name)
	assert.Equal(t, 0.0012, ticker.PriceUSD)
	assert.InDelta(t, 20.0, ticker.ChangePercent, 1e-9)
	assert.Equal(t, 50000.0, ticker.Volume24h)
	assert.Contains(t, ticker.TradeURL, "pepetopia")
}

func TestGetTickerAPIErrorCode(t *testing.T) {
	c := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":300001,"data":{}}`))
	})
	_, err := c.GetTicker(context.Background(), "PEPETOPIA/USDT")
	assert.Error(t, err)
}

func TestGetTickerHTTPError(t *testing.T) {
	c := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.GetTicker(context.Background(), "PEPETOPIA/USDT")
	assert.Error(t, err)
}

func TestGetTickerEmptyData(t *testing.T) {
	c := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"data":{}}`))
	})
	_, err := c.GetTicker(context.Background(), "PEPETOPIA/USDT")
	assert.Error(t, err)
}

func TestGetTickerZeroOpenNoDivideByZero(t *testing.T) {
	c := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"data":{"symbol":"X/USDT","open":"0","close":"1"}}`))
	})
	ticker, err := c.GetTicker(context.Background(), "X/USDT")
	require.NoError(t, err)
	assert.Zero(t, ticker.ChangePercent)
}
