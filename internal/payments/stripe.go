// Package payments adapts Stripe to the core.PaymentGateway interface.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"profast-backend-go/internal/core"
)

// StripeGateway creates and inspects payment intents and verifies webhooks.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// Option tweaks a StripeGateway.
type Option func(*stripe.BackendConfig)

// WithBaseURL points the API backend at url instead of api.stripe.com.
func WithBaseURL(url string) Option {
	return func(c *stripe.BackendConfig) { c.URL = stripe.String(url) }
}

// NewStripeGateway builds a gateway for secretKey. Without webhookSecret
// every webhook is rejected.
func NewStripeGateway(secretKey, webhookSecret string, logger *zap.Logger, opts ...Option) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	cfg := &stripe.BackendConfig{LeveledLogger: logger.Sugar()}
	for _, opt := range opts {
		opt(cfg)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &StripeGateway{api: api, webhookSecret: webhookSecret}, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*core.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*core.Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment intent %s: %w", id, err)
	}
	return toIntent(pi), nil
}

// ParseWebhook checks the Stripe-Signature header and decodes the event.
// payment_intent.* events carry the intent.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*core.WebhookEvent, error) {
	if g.webhookSecret == "" {
		return nil, errors.New("stripe: webhook secret is not configured")
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("stripe: verify webhook: %w", err)
	}

	out := &core.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data != nil && event.Data.Object["object"] == "payment_intent" {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("stripe: decode payment intent of %s: %w", event.ID, err)
		}
		out.Intent = toIntent(&pi)
	}
	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) *core.Intent {
	in := &core.Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
	if pi.PaymentMethod != nil {
		in.PaymentMethod = pi.PaymentMethod.ID
	}
	return in
}
