package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of decimal places kept for Product.Price.
const PricePlaces = 2

// Product is a sellable search package.
//
// SearchTypes ids are pulled when the referenced SearchType is deleted.
// Params ids have no delete rule and may dangle after a SearchField is removed.
type Product struct {
	ID          string
	Active      bool
	Name        string
	Price       decimal.Decimal
	SearchTypes []string
	Params      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) String() string {
	return p.Name
}
