// Package paypal habla con la API REST de PayPal: token OAuth2 por
// client_credentials, catálogo de productos, planes de facturación y
// suscripciones.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"poemas-backend/config"
)

const maxBodyBytes = 1 << 20

type Client struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string

	HTTPClient *http.Client
}

// NewClient builds a client from the loaded configuration. httpClient should
// carry the per-call timeout; nil falls back to http.DefaultClient.
func NewClient(cfg *config.Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.Secret,
		APIBaseURL:   strings.TrimRight(cfg.PayPal.APIBase, "/"),
		HTTPClient:   httpClient,
	}
}

// Token exchanges the client credentials for a fresh bearer token. Tokens are
// not cached: each billing operation asks for its own. Only a 200 answer is
// accepted, even though x/oauth2 alone would take any 2xx.
func (c *Client) Token(ctx context.Context) (string, error) {
	conf := clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.APIBaseURL + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.tokenHTTPClient())

	tok, err := conf.Token(ctx)
	if err != nil {
		var terr *TokenError
		if !errors.As(err, &terr) {
			terr = &TokenError{Err: err}
			var rerr *oauth2.RetrieveError
			if errors.As(err, &rerr) && rerr.Response != nil {
				terr.StatusCode = rerr.Response.StatusCode
				terr.Body = string(rerr.Body)
			}
		}
		log.Printf("[PAYPAL][token] error obteniendo token status=%d err=%v", terr.StatusCode, err)
		return "", terr
	}
	log.Printf("[PAYPAL][token] token obtenido type=%s", tok.TokenType)
	return tok.AccessToken, nil
}

// tokenHTTPClient is c.HTTPClient with its transport wrapped by
// requireOK.
func (c *Client) tokenHTTPClient() *http.Client {
	hc := http.Client{}
	if c.HTTPClient != nil {
		hc = *c.HTTPClient
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = requireOK{base}
	return &hc
}

// requireOK fails every response other than 200 with a *TokenError carrying
// its status and body.
type requireOK struct {
	next http.RoundTripper
}

func (t requireOK) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode == http.StatusOK {
		return resp, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	return nil, &TokenError{
		StatusCode: resp.StatusCode,
		Body:       string(b),
		Err:        fmt.Errorf("token endpoint respondió %d", resp.StatusCode),
	}
}

// do sends one authorized JSON request and returns the status and raw body.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.APIBaseURL+path, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("paypal %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}
