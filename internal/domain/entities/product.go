// Package entities - Product is the catalog entity priced and stocked across
// warehouses. It enforces the invariant that prices are non-negative integer
// cents.
package entities

import (
	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/valueobjects"
)

// Product represents a sellable catalog item.
//
// Entity Pattern:
// - Has identity (ID)
// - Self-validating: cannot construct a Product with a negative price
type Product struct {
	id         uuid.UUID
	sku        string
	name       string
	priceCents valueobjects.Money
}

// NewProduct creates a new Product. Factory function with validation.
func NewProduct(sku, name string, priceCents valueobjects.Money) (*Product, error) {
	if sku == "" {
		return nil, errors.ValidationError{Field: "sku", Message: "sku is required"}
	}
	if name == "" {
		return nil, errors.ValidationError{Field: "name", Message: "name is required"}
	}

	return &Product{
		id:         uuid.New(),
		sku:        sku,
		name:       name,
		priceCents: priceCents,
	}, nil
}

// ReconstructProduct reconstructs a Product from stored data.
func ReconstructProduct(id uuid.UUID, sku, name string, priceCents valueobjects.Money) *Product {
	return &Product{id: id, sku: sku, name: name, priceCents: priceCents}
}

func (p *Product) ID() uuid.UUID {
	return p.id
}

func (p *Product) SKU() string {
	return p.sku
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) PriceCents() valueobjects.Money {
	return p.priceCents
}
