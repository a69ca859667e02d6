package dto

import (
	"encoding/json"
	"time"
)

// PriceField carries a decimal that clients may send as either a JSON
// string ("19.99") or a bare number (19.99). Numbers keep their literal
// form, so no float rounding touches the value. Malformed input is kept
// as-is and rejected by validation as a price field error.
type PriceField string

func (p *PriceField) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*p = PriceField(num.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = PriceField(data)
		return nil
	}
	*p = PriceField(s)
	return nil
}

// String returns the carried decimal text.
func (p PriceField) String() string {
	return string(p)
}

// ProductRequest payload for product create/replace/patch. Pointer fields
// let PATCH distinguish "absent" from "empty".
type ProductRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Price       *PriceField `json:"price"`
	Category    *string     `json:"category"`
	Quantity    *int        `json:"quantity"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse is a paginated product page.
type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}
