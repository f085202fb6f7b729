package entities

import (
	"testing"

	domainErrors "github.com/orderforge/orderforge/internal/domain/errors"
	"github.com/orderforge/orderforge/internal/domain/valueobjects"
)

func TestNewProduct_RequiresSKU(t *testing.T) {
	price, _ := valueobjects.NewMoneyFromCents(100)
	if _, err := NewProduct("", "Widget", price); !domainErrors.IsValidation(err) {
		t.Fatalf("expected ValidationError for empty sku, got: %v", err)
	}
}

func TestNewProduct_RequiresName(t *testing.T) {
	price, _ := valueobjects.NewMoneyFromCents(100)
	if _, err := NewProduct("SKU-1", "", price); !domainErrors.IsValidation(err) {
		t.Fatalf("expected ValidationError for empty name, got: %v", err)
	}
}

func TestNewProduct_Success(t *testing.T) {
	price, _ := valueobjects.NewMoneyFromCents(2599)
	p, err := NewProduct("SKU-1", "Widget", price)
	if err != nil {
		t.Fatalf("NewProduct: %v", err)
	}
	if p.SKU() != "SKU-1" || p.Name() != "Widget" {
		t.Errorf("unexpected sku/name: %s / %s", p.SKU(), p.Name())
	}
	if p.PriceCents().Cents() != 2599 {
		t.Errorf("PriceCents() = %d, want 2599", p.PriceCents().Cents())
	}
}
