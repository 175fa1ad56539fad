// Package supplier wraps the upstream flight-offers REST API. The rest of the
// codebase treats it as a black box that yields raw offer payloads; all
// reconstruction logic lives in internal/itinerary.
package supplier

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	httpClient *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://test.api.amadeus.com"
	}
	return &Client{
		baseURL:      baseURL,
		clientID:     strings.TrimSpace(cfg.ClientID),
		clientSecret: strings.TrimSpace(cfg.ClientSecret),
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Configured reports whether real API credentials are present. When false,
// SearchOffers serves the deterministic fallback set instead of calling out.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

func (c *Client) refreshToken() error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequest(http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-30) * time.Second)
	c.mu.Unlock()

	return nil
}

func (c *Client) token() (string, error) {
	c.mu.Lock()
	expired := time.Now().After(c.tokenExpiry)
	token := c.accessToken
	c.mu.Unlock()

	if expired || token == "" {
		if err := c.refreshToken(); err != nil {
			return "", err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}
	return token, nil
}

func (c *Client) get(path string) ([]byte, error) {
	token, err := c.token()
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supplier error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Query holds the search parameters forwarded to the supplier.
type Query struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Max           int
}

// SearchOffers queries the flight-offers endpoint and returns the raw offers.
// Without credentials it returns the deterministic fallback offers so the
// rest of the pipeline stays testable offline.
func (c *Client) SearchOffers(q Query) ([]Offer, error) {
	if !c.Configured() {
		return FallbackOffers(q), nil
	}

	adults := q.Adults
	if adults <= 0 {
		adults = 1
	}
	max := q.Max
	if max <= 0 {
		max = 10
	}

	path := fmt.Sprintf(
		"/v2/shopping/flight-offers?originLocationCode=%s&destinationLocationCode=%s&departureDate=%s&adults=%d&max=%d",
		url.QueryEscape(strings.ToUpper(strings.TrimSpace(q.Origin))),
		url.QueryEscape(strings.ToUpper(strings.TrimSpace(q.Destination))),
		url.QueryEscape(strings.TrimSpace(q.DepartureDate)),
		adults,
		max,
	)
	if rd := strings.TrimSpace(q.ReturnDate); rd != "" {
		path += "&returnDate=" + url.QueryEscape(rd)
	}

	body, err := c.get(path)
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}
	return parseOffers(body)
}
