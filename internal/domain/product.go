package domain

import "time"

// Product is a catalog record. Price is kept as its canonical decimal
// string with two fractional digits; the database column is NUMERIC(10,2).
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       string
	Category    string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
