package dto

import "time"

// ItemRequest payload for item create/replace/patch. Pointer fields let
// PATCH distinguish "absent" from "empty".
type ItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ItemResponse is the public view of an item.
type ItemResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ItemListResponse is a paginated item page.
type ItemListResponse struct {
	Data []ItemResponse `json:"data"`
	Meta PageMeta       `json:"meta"`
}
