package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Customer is an account on the platform.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ServiceRequest tracks a customer's request through its fulfillment states.
type ServiceRequest struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	FormID     string    `json:"form_id,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// SubscriptionPlan is a billable plan definition.
type SubscriptionPlan struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PriceCents     int64  `json:"price_cents"`
	Currency       string `json:"currency"`
	BillingPeriod  string `json:"billing_period"`
	Active         bool   `json:"active"`
	TrialDays      int    `json:"trial_days,omitempty"`
	MaxSeats       int    `json:"max_seats,omitempty"`
	DiscountPolicy string `json:"discount_policy,omitempty"`
}

// PaymentLink is a shareable checkout URL for a one-off charge.
type PaymentLink struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customer_id"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// MessageTemplate is a reusable notification body with {{variable}}
// placeholders, the same placeholder grammar the extractor scans.
type MessageTemplate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

// Customers lists customers one cursor page at a time.
func (c *Client) Customers(ctx context.Context, opts ListOptions) (Page[Customer], error) {
	var page Page[Customer]
	if err := c.list(ctx, "/customers", opts, &page); err != nil {
		return Page[Customer]{}, fmt.Errorf("backend: list customers: %w", err)
	}
	return page, nil
}

// Customer fetches a single customer by id.
func (c *Client) Customer(ctx context.Context, id string) (*Customer, error) {
	if id == "" {
		return nil, errors.New("backend: customer id is required")
	}
	var out Customer
	if err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("backend: fetch customer %s: %w", id, err)
	}
	return &out, nil
}

// ServiceRequests lists service requests, optionally filtered by customer.
func (c *Client) ServiceRequests(ctx context.Context, customerID string, opts ListOptions) (Page[ServiceRequest], error) {
	q := opts.query()
	if customerID != "" {
		q.Set("customer_id", customerID)
	}
	var page Page[ServiceRequest]
	if err := c.do(ctx, http.MethodGet, "/service-requests", q, nil, &page); err != nil {
		return Page[ServiceRequest]{}, fmt.Errorf("backend: list service requests: %w", err)
	}
	return page, nil
}

// SubscriptionPlans lists plan definitions.
func (c *Client) SubscriptionPlans(ctx context.Context, opts ListOptions) (Page[SubscriptionPlan], error) {
	var page Page[SubscriptionPlan]
	if err := c.list(ctx, "/subscription-plans", opts, &page); err != nil {
		return Page[SubscriptionPlan]{}, fmt.Errorf("backend: list subscription plans: %w", err)
	}
	return page, nil
}

// PaymentLinks lists payment links.
func (c *Client) PaymentLinks(ctx context.Context, opts ListOptions) (Page[PaymentLink], error) {
	var page Page[PaymentLink]
	if err := c.list(ctx, "/payment-links", opts, &page); err != nil {
		return Page[PaymentLink]{}, fmt.Errorf("backend: list payment links: %w", err)
	}
	return page, nil
}

// CreatePaymentLink asks the billing service to mint a checkout URL.
func (c *Client) CreatePaymentLink(ctx context.Context, link PaymentLink) (*PaymentLink, error) {
	if link.CustomerID == "" {
		return nil, errors.New("backend: payment link customer id is required")
	}
	if link.AmountCents <= 0 {
		return nil, errors.New("backend: payment link amount must be positive")
	}
	var out PaymentLink
	if err := c.do(ctx, http.MethodPost, "/payment-links", nil, link, &out); err != nil {
		return nil, fmt.Errorf("backend: create payment link: %w", err)
	}
	return &out, nil
}

// MessageTemplates lists notification templates.
func (c *Client) MessageTemplates(ctx context.Context, opts ListOptions) (Page[MessageTemplate], error) {
	var page Page[MessageTemplate]
	if err := c.list(ctx, "/message-templates", opts, &page); err != nil {
		return Page[MessageTemplate]{}, fmt.Errorf("backend: list message templates: %w", err)
	}
	return page, nil
}

// UpdateMessageTemplate replaces a template's content.
func (c *Client) UpdateMessageTemplate(ctx context.Context, template MessageTemplate) (*MessageTemplate, error) {
	if template.ID == "" {
		return nil, errors.New("backend: message template id is required")
	}
	var out MessageTemplate
	path := "/message-templates/" + url.PathEscape(template.ID)
	if err := c.do(ctx, http.MethodPut, path, nil, template, &out); err != nil {
		return nil, fmt.Errorf("backend: update message template %s: %w", template.ID, err)
	}
	return &out, nil
}
