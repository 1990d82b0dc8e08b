package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Discount program configs are a tagged union discriminated by "type". The
// union is validated when the payload is decoded, so a program with an
// unknown or malformed config never makes it past the client boundary.

const (
	DiscountTypeSubsidy  = "subsidy"
	DiscountTypeReferral = "referral"
)

// DiscountConfig is the closed set of discount program configurations.
type DiscountConfig interface {
	discountType() string
}

// SubsidyConfig discounts a percentage of the charge, optionally capped.
type SubsidyConfig struct {
	Type           string `json:"type"`
	Percentage     int    `json:"percentage"`
	MaxAmountCents int64  `json:"max_amount_cents,omitempty"`
}

func (SubsidyConfig) discountType() string { return DiscountTypeSubsidy }

// ReferralConfig rewards both sides of a referral with fixed amounts.
type ReferralConfig struct {
	Type               string `json:"type"`
	RewardCents        int64  `json:"reward_cents"`
	RefereeRewardCents int64  `json:"referee_reward_cents,omitempty"`
}

func (ReferralConfig) discountType() string { return DiscountTypeReferral }

// DiscountProgram is a named discount campaign.
type DiscountProgram struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Active    bool           `json:"active"`
	Config    DiscountConfig `json:"config"`
	StartsAt  *time.Time     `json:"starts_at,omitempty"`
	EndsAt    *time.Time     `json:"ends_at,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
}

// UnmarshalJSON decodes the config union by its type discriminator and
// rejects unknown variants.
func (p *DiscountProgram) UnmarshalJSON(data []byte) error {
	type alias DiscountProgram
	raw := struct {
		*alias
		Config json.RawMessage `json:"config"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Config) == 0 || string(raw.Config) == "null" {
		p.Config = nil
		return nil
	}
	config, err := decodeDiscountConfig(raw.Config)
	if err != nil {
		return fmt.Errorf("discount program %s: %w", p.ID, err)
	}
	p.Config = config
	return nil
}

func decodeDiscountConfig(data json.RawMessage) (DiscountConfig, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	switch head.Type {
	case DiscountTypeSubsidy:
		var cfg SubsidyConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode subsidy config: %w", err)
		}
		if cfg.Percentage <= 0 || cfg.Percentage > 100 {
			return nil, fmt.Errorf("subsidy percentage %d out of range", cfg.Percentage)
		}
		return cfg, nil
	case DiscountTypeReferral:
		var cfg ReferralConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode referral config: %w", err)
		}
		if cfg.RewardCents <= 0 {
			return nil, errors.New("referral reward must be positive")
		}
		return cfg, nil
	case "":
		return nil, errors.New("discount config missing type")
	default:
		return nil, fmt.Errorf("unknown discount config type %q", head.Type)
	}
}

// DiscountPrograms lists discount campaigns.
func (c *Client) DiscountPrograms(ctx context.Context, opts ListOptions) (Page[DiscountProgram], error) {
	var page Page[DiscountProgram]
	if err := c.list(ctx, "/discount-programs", opts, &page); err != nil {
		return Page[DiscountProgram]{}, fmt.Errorf("backend: list discount programs: %w", err)
	}
	return page, nil
}

// DiscountProgram fetches a single campaign by id.
func (c *Client) DiscountProgram(ctx context.Context, id string) (*DiscountProgram, error) {
	if id == "" {
		return nil, errors.New("backend: discount program id is required")
	}
	var out DiscountProgram
	if err := c.do(ctx, http.MethodGet, "/discount-programs/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("backend: fetch discount program %s: %w", id, err)
	}
	return &out, nil
}
