// Package order contains use cases for the order-creation pipeline.
package order

import (
	"crypto/sha256"
	"encoding/json"
	"sort"

	"github.com/orderforge/orderforge/internal/application/dtos"
)

// canonicalRequest is the subset of a create-order request that feeds the
// idempotency request hash. Payment details never appear here: they must
// never contribute to the hash and must never be persisted.
type canonicalRequest struct {
	CustomerEmail string               `json:"customerEmail"`
	Address       string               `json:"address"`
	Items         []canonicalLineItem  `json:"items"`
}

type canonicalLineItem struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// requestHash computes the deterministic 32-byte fingerprint described in
// §4.4: customer identity, address, and items sorted by productId.
func requestHash(cmd dtos.CreateOrderCommand) [32]byte {
	items := make([]canonicalLineItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = canonicalLineItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})

	canonical := canonicalRequest{
		CustomerEmail: cmd.Customer.Email,
		Address:       cmd.Address,
		Items:         items,
	}

	// Marshal errors are impossible here: every field is a plain string or
	// int64 slice with no cycles.
	payload, _ := json.Marshal(canonical)
	return sha256.Sum256(payload)
}
