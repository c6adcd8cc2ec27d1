package model

import "fmt"

type FoodItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Stock       int             `json:"stock"`
	Type        ItemType        `json:"type"`
	Image       *AvatarResponse `json:"image"`

	// ISO 8601
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (i FoodItem) InStock() bool { return i.Stock > 0 }

// DisplayPrice formats the price the way the storefront shows it.
func (i FoodItem) DisplayPrice() string {
	return fmt.Sprintf("Rp %.0f", i.Price)
}

type Merchant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`

	Avatar  *AvatarResponse `json:"avatar"`
	Phone   *string         `json:"phone"`
	Email   *string         `json:"email"`
	Website *string         `json:"website"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type MerchantSearch = PartialIDAvatar

type FoodItemSearch struct {
	PartialIDAvatar
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type MultiSearch struct {
	Merchants []MerchantSearch `json:"merchants"`
	Items     []FoodItemSearch `json:"items"`
}
