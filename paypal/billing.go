package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
)

// CreateProduct registers a catalog product. Only 201 counts as success.
// Calling it twice creates two products; PayPal does not dedupe them.
func (c *Client) CreateProduct(ctx context.Context, p Product) (*Resource, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[PAYPAL][product] creando producto %q", p.Name)
	status, body, err := c.do(ctx, http.MethodPost, "/v1/catalogs/products", token, p)
	if err != nil {
		return nil, err
	}
	log.Printf("[PAYPAL][product] status=%d body=%s", status, body)
	if status != http.StatusCreated {
		return nil, &APIError{Op: "create_product", StatusCode: status, Body: string(body)}
	}
	return decodeResource(body)
}

// CreatePlan registers a billing plan under an existing product. Only 201
// counts as success and, like CreateProduct, it is not idempotent.
func (c *Client) CreatePlan(ctx context.Context, plan PlanRequest) (*Resource, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[PAYPAL][plan] creando plan para producto: %s", plan.ProductID)
	status, body, err := c.do(ctx, http.MethodPost, "/v1/billing/plans", token, plan)
	if err != nil {
		return nil, err
	}
	log.Printf("[PAYPAL][plan] status=%d body=%s", status, body)
	if status != http.StatusCreated {
		return nil, &APIError{Op: "create_plan", StatusCode: status, Body: string(body)}
	}
	return decodeResource(body)
}

// GetSubscription reads a subscription's status and subscriber email. The
// HTTP status is not checked: any JSON body is accepted and missing fields
// are left nil.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	status, body, err := c.do(ctx, http.MethodGet, "/v1/billing/subscriptions/"+url.PathEscape(subscriptionID), token, nil)
	if err != nil {
		return nil, err
	}
	log.Printf("[PAYPAL][subscription] id=%s status=%d", subscriptionID, status)

	var raw struct {
		Status     *SubscriptionStatus `json:"status"`
		Subscriber *struct {
			EmailAddress *string `json:"email_address"`
		} `json:"subscriber"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("paypal get_subscription: respuesta inválida (status=%d): %w", status, err)
	}
	out := &SubscriptionDetails{Status: raw.Status}
	if raw.Subscriber != nil {
		out.SubscriberEmail = raw.Subscriber.EmailAddress
	}
	if out.Status != nil && !out.Status.Known() {
		log.Printf("[PAYPAL][subscription] id=%s estado desconocido %q", subscriptionID, *out.Status)
	}
	return out, nil
}

// CancelSubscription asks PayPal to cancel. Only 204 counts as success.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}
	payload := map[string]string{"reason": reason}
	status, body, err := c.do(ctx, http.MethodPost, "/v1/billing/subscriptions/"+url.PathEscape(subscriptionID)+"/cancel", token, payload)
	if err != nil {
		return err
	}
	log.Printf("[PAYPAL][cancel] id=%s status=%d", subscriptionID, status)
	if status != http.StatusNoContent {
		return &APIError{Op: "cancel_subscription", StatusCode: status, Body: string(body)}
	}
	return nil
}

func decodeResource(body []byte) (*Resource, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("paypal: respuesta inválida: %w", err)
	}
	str := func(k string) string {
		s, _ := raw[k].(string)
		return s
	}
	return &Resource{ID: str("id"), Name: str("name"), Status: str("status"), Raw: raw}, nil
}
