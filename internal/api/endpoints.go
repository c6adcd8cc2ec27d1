package api

import (
	"context"
	"net/url"
	"strconv"

	"kidofood-web/internal/model"
)

const (
	PathServerClaim  = "/api/server/claim"
	PathServerStatus = "/api/server/status"
	PathUserMe       = "/api/user/me"
)

// ClaimStatus returns the admin that claimed the server; a null payload
// means nobody did yet.
func (c *Client) ClaimStatus(ctx context.Context) Result[model.User] {
	return Get[model.User](ctx, c, PathServerClaim)
}

// Claim creates the first admin account.
func (c *Client) Claim(ctx context.Context, req model.ClaimRequest) Result[model.User] {
	return PostJSON[model.User](ctx, c, PathServerClaim, req)
}

// Me returns the user behind the forwarded backend session cookie.
func (c *Client) Me(ctx context.Context) Result[model.User] {
	return Get[model.User](ctx, c, PathUserMe)
}

type ServerStatus struct {
	OS      string  `json:"os"`
	Python  string  `json:"python"`
	FastAPI string  `json:"fastapi"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime"`
	Memory  struct {
		Real    float64 `json:"real"`
		Virtual float64 `json:"virtual"`
	} `json:"memory"`
}

func (c *Client) ServerStatus(ctx context.Context) Result[ServerStatus] {
	return Get[ServerStatus](ctx, c, PathServerStatus)
}

// ListParams are the backend's cursor pagination knobs.
type ListParams struct {
	Limit  int
	Cursor string
}

func (p ListParams) encode() string {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Cursor != "" {
		q.Set("cursor", p.Cursor)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) Items(ctx context.Context, p ListParams) Result[[]model.FoodItem] {
	return Get[[]model.FoodItem](ctx, c, "/api/items/"+p.encode())
}

func (c *Client) Item(ctx context.Context, id string) Result[model.FoodItem] {
	return Get[model.FoodItem](ctx, c, "/api/items/"+url.PathEscape(id))
}

func (c *Client) Merchant(ctx context.Context, id string) Result[model.Merchant] {
	return Get[model.Merchant](ctx, c, "/api/merchants/"+url.PathEscape(id))
}

func (c *Client) MerchantItems(ctx context.Context, id string, p ListParams) Result[[]model.FoodItem] {
	return Get[[]model.FoodItem](ctx, c, "/api/merchants/"+url.PathEscape(id)+"/items"+p.encode())
}

// Merchants lists every merchant; the backend only answers admins.
func (c *Client) Merchants(ctx context.Context) Result[[]model.Merchant] {
	return Get[[]model.Merchant](ctx, c, "/api/merchants/")
}

func (c *Client) SelfMerchant(ctx context.Context) Result[model.Merchant] {
	return Get[model.Merchant](ctx, c, "/api/merchants/self")
}

func (c *Client) Orders(ctx context.Context, p ListParams) Result[[]model.FoodOrder] {
	return Get[[]model.FoodOrder](ctx, c, "/api/order/"+p.encode())
}

func (c *Client) Search(ctx context.Context, query string, limit int) Result[model.MultiSearch] {
	q := url.Values{}
	q.Set("query", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return Get[model.MultiSearch](ctx, c, "/api/search/?"+q.Encode())
}
