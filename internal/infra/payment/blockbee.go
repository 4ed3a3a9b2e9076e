package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"social-platform-backend/internal/domain"
	"social-platform-backend/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.PaymentGateway = (*BlockBeeGateway)(nil)

// BlockBeeGateway talks to the BlockBee HTTP API. Every call is a single
// outbound request with a bounded timeout and no automatic retry; a failed
// call fails the issuance request and the caller may retry at the HTTP level.
type BlockBeeGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewBlockBeeGateway(apiKey, baseURL string, timeout time.Duration) *BlockBeeGateway {
	return &BlockBeeGateway{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *BlockBeeGateway) Name() string { return "blockbee" }

type createResponse struct {
	Status    string `json:"status"`
	AddressIn string `json:"address_in"`
}

type convertResponse struct {
	Status       string `json:"status"`
	ValueCoin    string `json:"value_coin"`
	ExchangeRate string `json:"exchange_rate"`
}

type estimateResponse struct {
	Status        string `json:"status"`
	EstimatedCost string `json:"estimated_cost"`
}

// IssueAddress registers the intent with the gateway and returns a one-time
// deposit address. The correlation token rides on the callback URL as query
// parameter "0"; the gateway echoes callback parameters back verbatim and
// splits oversized values across further numeric keys, which is exactly the
// shape the intent decoder reassembles.
func (g *BlockBeeGateway) IssueAddress(ctx context.Context, req adapter.AddressRequest) (string, error) {
	cb, err := url.Parse(req.CallbackURL)
	if err != nil {
		return "", fmt.Errorf("%w: bad callback url: %v", domain.ErrUpstreamFailure, err)
	}
	cbq := cb.Query()
	cbq.Set("0", req.Token)
	cb.RawQuery = cbq.Encode()

	q := url.Values{}
	q.Set("apikey", g.apiKey)
	q.Set("callback", cb.String())
	q.Set("confirmations", strconv.Itoa(req.Confirmations))
	q.Set("uniqueid", req.RequestID)

	var out createResponse
	if err := g.get(ctx, "/"+req.Coin+"/create/", q, &out); err != nil {
		return "", err
	}
	if out.Status != "success" || out.AddressIn == "" {
		return "", fmt.Errorf("%w: create returned status %q", domain.ErrUpstreamFailure, out.Status)
	}
	return out.AddressIn, nil
}

// GetConversionRate asks the gateway how many coin units one unit of currency
// buys (value_coin for value=1).
func (g *BlockBeeGateway) GetConversionRate(ctx context.Context, coin, currency string) (float64, error) {
	q := url.Values{}
	q.Set("apikey", g.apiKey)
	q.Set("value", "1")
	q.Set("from", currency)

	var out convertResponse
	if err := g.get(ctx, "/"+coin+"/convert/", q, &out); err != nil {
		return 0, err
	}
	rate, err := strconv.ParseFloat(out.ValueCoin, 64)
	if err != nil || out.Status != "success" || rate <= 0 {
		return 0, fmt.Errorf("%w: convert returned %q/%q", domain.ErrUpstreamFailure, out.Status, out.ValueCoin)
	}
	return rate, nil
}

func (g *BlockBeeGateway) GetFeeEstimate(ctx context.Context, coin string) (float64, error) {
	q := url.Values{}
	q.Set("apikey", g.apiKey)
	q.Set("addresses", "1")
	q.Set("priority", "default")

	var out estimateResponse
	if err := g.get(ctx, "/"+coin+"/estimate/", q, &out); err != nil {
		return 0, err
	}
	fee, err := strconv.ParseFloat(out.EstimatedCost, 64)
	if err != nil || out.Status != "success" {
		return 0, fmt.Errorf("%w: estimate returned %q/%q", domain.ErrUpstreamFailure, out.Status, out.EstimatedCost)
	}
	return fee, nil
}

func (g *BlockBeeGateway) get(ctx context.Context, path string, q url.Values, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway returned HTTP %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamFailure, err)
	}
	return nil
}
