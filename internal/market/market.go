// Package market fetches public ticker data from the AscendEX exchange for
// the /price command.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	tickerEndpoint = "https://ascendex.com/api/pro/v1/ticker"
	tradeURLBase   = "https://ascendex.com/en/cashtrade-spottrading/usdt/"
)

// Ticker is a normalized market snapshot for one trading pair.
type Ticker struct {
	Name          string
	Symbol        string
	PriceUSD      float64
	ChangePercent float64
	Volume24h     float64
	High24h       float64
	Low24h        float64
	TradeURL      string
}

// Client queries the AscendEX public API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a market client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: tickerEndpoint,
	}
}

// tickerResponse mirrors the AscendEX public ticker payload:
// { "code": 0, "data": { "symbol": "...", "open": "...", "close": "...", ... } }
type tickerResponse struct {
	Code int `json:"code"`
	Data struct {
		Symbol string `json:"symbol"`
		Open   string `json:"open"`
		Close  string `json:"close"`
		High   string `json:"high"`
		Low    string `json:"low"`
		Volume string `json:"volume"`
	} `json:"data"`
}

// GetTicker fetches the ticker for a "BASE/QUOTE" symbol.
func (c *Client) GetTicker(ctx context.Context, symbol string) (*Ticker, error) {
	reqURL := c.baseURL + "?symbol=" + url.QueryEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build ticker request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticker request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticker request: unexpected status %d", resp.StatusCode)
	}

	var payload tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode ticker response: %w", err)
	}
	if payload.Code != 0 {
		return nil, fmt.Errorf("ticker request: API error code %d", payload.Code)
	}
	if payload.Data.Symbol == "" {
		return nil, fmt.Errorf("ticker request: empty data for %s", symbol)
	}

	open := parseFloat(payload.Data.Open)
	close_ := parseFloat(payload.Data.Close)

	changePct := 0.0
	if open != 0 {
		changePct = (close_ - open) / open * 100
	}

	base := strings.SplitN(symbol, "/", 2)[0]
	return &Ticker{
		Name:          base,
		Symbol:        symbol,
		PriceUSD:      close_,
		ChangePercent: changePct,
		Volume24h:     parseFloat(payload.Data.Volume),
		High24h:       parseFloat(payload.Data.High),
		Low24h:        parseFloat(payload.Data.Low),
		TradeURL:      tradeURLBase + strings.ToLower(base),
	}, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
