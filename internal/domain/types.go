package domain

import "strings"

// Item is a stored product. ID is assigned by storage on Save.
type Item struct {
	ID       int64  `json:"id"`
	ItemName string `json:"itemName"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// ItemUpdate carries the values applied to an existing item by an update.
type ItemUpdate struct {
	ItemName string `json:"itemName"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// ItemSearchCond filters a listing. A blank ItemName or a nil MaxPrice
// disables that filter.
type ItemSearchCond struct {
	ItemName string
	MaxPrice *int
}

// HasItemName reports whether the name filter is active.
func (c ItemSearchCond) HasItemName() bool {
	return strings.TrimSpace(c.ItemName) != ""
}
