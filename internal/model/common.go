package model

type ItemType string

const (
	ItemDrink   ItemType = "drink"
	ItemMeal    ItemType = "meal"
	ItemPackage ItemType = "package"
)

type AvatarResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type PartialID struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PartialIDAvatar struct {
	PartialID
	Avatar *AvatarResponse `json:"avatar"`
}

// PageInfo accompanies the backend's cursor paginated lists.
type PageInfo struct {
	Total   int     `json:"total"`
	Count   int     `json:"count"`
	PerPage int     `json:"per_page"`
	Cursor  *string `json:"cursor"`
}
