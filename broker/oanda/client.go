// Package oanda implements the broker adapter against the OANDA v3
// REST API.
package oanda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/hedger/agent"
	"github.com/rustyeddy/hedger/broker"
	"github.com/rustyeddy/hedger/market"
)

// Client talks to one OANDA account.
type Client struct {
	BaseURL   string // e.g. https://api-fxpractice.oanda.com
	AccountID string
	Token     string
	HTTP      *http.Client
}

// NewClient returns a client with a sane default HTTP timeout.
func NewClient(baseURL, accountID, token string) *Client {
	return &Client{
		BaseURL:   baseURL,
		AccountID: accountID,
		Token:     token,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FromEnv builds a client from OANDA_URL, OANDA_ACCOUNT and
// OANDA_API_KEY. Missing variables are a startup error, not a
// transient one.
func FromEnv() (*Client, error) {
	baseURL := os.Getenv("OANDA_URL")
	account := os.Getenv("OANDA_ACCOUNT")
	key := os.Getenv("OANDA_API_KEY")
	if baseURL == "" || account == "" || key == "" {
		return nil, fmt.Errorf("oanda: OANDA_URL, OANDA_ACCOUNT and OANDA_API_KEY must be set")
	}
	return NewClient(baseURL, account, key), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("oanda: bad base url: %w", err)
	}
	u.Path = path
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("oanda: marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return fmt.Errorf("oanda: %s %s http %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("oanda: decode %s response: %w", path, err)
	}
	return nil
}

type priceQuote struct {
	Price string `json:"price"`
}

type pricingResponse struct {
	Prices []struct {
		Time       string       `json:"time"`
		Instrument string       `json:"instrument"`
		Bids       []priceQuote `json:"bids"`
		Asks       []priceQuote `json:"asks"`
	} `json:"prices"`
}

// GetPricing fetches one quote for the instrument.
func (c *Client) GetPricing(ctx context.Context, instrument string) (market.Tick, error) {
	var pr pricingResponse
	path := fmt.Sprintf("/v3/accounts/%s/pricing", c.AccountID)
	if err := c.do(ctx, http.MethodGet, path, map[string]string{"instruments": instrument}, nil, &pr); err != nil {
		return market.Tick{}, err
	}
	if len(pr.Prices) == 0 || len(pr.Prices[0].Bids) == 0 || len(pr.Prices[0].Asks) == 0 {
		return market.Tick{}, fmt.Errorf("oanda: no pricing for %s", instrument)
	}

	p := pr.Prices[0]
	bid, err := strconv.ParseFloat(p.Bids[0].Price, 64)
	if err != nil {
		return market.Tick{}, fmt.Errorf("oanda: bad bid %q: %w", p.Bids[0].Price, err)
	}
	ask, err := strconv.ParseFloat(p.Asks[0].Price, 64)
	if err != nil {
		return market.Tick{}, fmt.Errorf("oanda: bad ask %q: %w", p.Asks[0].Price, err)
	}

	var epoch int64
	if ts, err := time.Parse(time.RFC3339Nano, p.Time); err == nil {
		epoch = ts.Unix()
	} else {
		epoch = time.Now().UTC().Unix()
	}
	return market.Tick{Time: epoch, Bid: bid, Ask: ask}, nil
}

type positionSide struct {
	Units string `json:"units"`
}

type openPositionsResponse struct {
	Positions []struct {
		Instrument string       `json:"instrument"`
		Long       positionSide `json:"long"`
		Short      positionSide `json:"short"`
	} `json:"positions"`
}

// GetOpenPositions lists the open positions of the account. Long and
// short units are netted per instrument.
func (c *Client) GetOpenPositions(ctx context.Context) ([]broker.Position, error) {
	var resp openPositionsResponse
	path := fmt.Sprintf("/v3/accounts/%s/openPositions", c.AccountID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]broker.Position, 0, len(resp.Positions))
	for _, p := range resp.Positions {
		units := parseUnits(p.Long.Units) + parseUnits(p.Short.Units)
		out = append(out, broker.Position{Instrument: p.Instrument, Units: units})
	}
	return out, nil
}

func parseUnits(s string) int64 {
	if s == "" {
		return 0
	}
	// OANDA reports units as decimal strings; fractional units are not
	// used for the instruments we trade
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

type orderRequest struct {
	Order struct {
		Type         string `json:"type"`
		Instrument   string `json:"instrument"`
		Units        string `json:"units"`
		TimeInForce  string `json:"timeInForce"`
		PositionFill string `json:"positionFill"`
	} `json:"order"`
}

type orderResponse struct {
	OrderFillTransaction *struct {
		Price string `json:"price"`
		Units string `json:"units"`
	} `json:"orderFillTransaction"`
}

// CreateMarketOrder posts a FOK market order. A response without a fill
// transaction returns (nil, nil); the loop retries next cycle.
func (c *Client) CreateMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (*agent.OrderFill, error) {
	var or orderRequest
	or.Order.Type = "MARKET"
	or.Order.Instrument = req.Instrument
	or.Order.Units = strconv.FormatInt(req.Units, 10)
	or.Order.TimeInForce = "FOK"
	or.Order.PositionFill = "DEFAULT"

	var resp orderResponse
	path := fmt.Sprintf("/v3/accounts/%s/orders", c.AccountID)
	if err := c.do(ctx, http.MethodPost, path, nil, or, &resp); err != nil {
		return nil, err
	}
	if resp.OrderFillTransaction == nil {
		return nil, nil
	}

	price, err := strconv.ParseFloat(resp.OrderFillTransaction.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("oanda: bad fill price %q: %w", resp.OrderFillTransaction.Price, err)
	}
	return &agent.OrderFill{
		Price: price,
		Units: parseUnits(resp.OrderFillTransaction.Units),
	}, nil
}
