package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Normalize trims whitespace and fills defaults the model tends to omit.
func (e *EntryProposal) Normalize() {
	e.Kind = strings.ToLower(strings.TrimSpace(e.Kind))
	e.ProductName = strings.TrimSpace(e.ProductName)
	e.Quantity = strings.TrimSpace(e.Quantity)
	e.UnitCost = strings.TrimSpace(e.UnitCost)
	e.SupplierName = strings.TrimSpace(e.SupplierName)
	e.Date = strings.TrimSpace(e.Date)
	if e.Date == "" {
		e.Date = time.Now().Format("2006-01-02")
	}
}

// Validate checks an EntryProposal before it is offered for confirmation.
func (e *EntryProposal) Validate() error {
	if e.Kind != "sale" && e.Kind != "purchase" {
		return fmt.Errorf("entry kind must be 'sale' or 'purchase', got %q", e.Kind)
	}
	if e.ProductName == "" {
		return errors.New("entry must name a product")
	}
	qty, err := decimal.NewFromString(e.Quantity)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", e.Quantity, err)
	}
	if !qty.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", qty)
	}
	if e.Kind == "purchase" {
		if e.UnitCost == "" {
			return errors.New("purchase entry must carry a unit cost")
		}
		cost, err := decimal.NewFromString(e.UnitCost)
		if err != nil {
			return fmt.Errorf("invalid unit cost %q: %w", e.UnitCost, err)
		}
		if cost.IsNegative() {
			return fmt.Errorf("unit cost cannot be negative, got %s", cost)
		}
	}
	return validateDate(e.Date)
}
