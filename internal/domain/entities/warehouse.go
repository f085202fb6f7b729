// Package entities - Warehouse is a fulfillment location with a fixed
// geographic coordinate. Distance from a shipping address is computed by the
// geo package (internal/domain/geo), which the selector uses, not here.
package entities

import (
	"github.com/google/uuid"
	"github.com/orderforge/orderforge/internal/domain/errors"
)

// Warehouse represents a physical fulfillment location.
type Warehouse struct {
	id        uuid.UUID
	name      string
	address   string
	latitude  float64
	longitude float64
}

// NewWarehouse creates a new Warehouse. Factory function with validation.
func NewWarehouse(name, address string, latitude, longitude float64) (*Warehouse, error) {
	if name == "" {
		return nil, errors.ValidationError{Field: "name", Message: "name is required"}
	}
	if latitude < -90 || latitude > 90 {
		return nil, errors.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"}
	}
	if longitude < -180 || longitude > 180 {
		return nil, errors.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"}
	}

	return &Warehouse{
		id:        uuid.New(),
		name:      name,
		address:   address,
		latitude:  latitude,
		longitude: longitude,
	}, nil
}

// ReconstructWarehouse reconstructs a Warehouse from stored data.
func ReconstructWarehouse(id uuid.UUID, name, address string, latitude, longitude float64) *Warehouse {
	return &Warehouse{id: id, name: name, address: address, latitude: latitude, longitude: longitude}
}

func (w *Warehouse) ID() uuid.UUID {
	return w.id
}

func (w *Warehouse) Name() string {
	return w.name
}

func (w *Warehouse) Address() string {
	return w.address
}

func (w *Warehouse) Latitude() float64 {
	return w.latitude
}

func (w *Warehouse) Longitude() float64 {
	return w.longitude
}
