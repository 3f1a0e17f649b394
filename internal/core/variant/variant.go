// Package variant resolves a partial spec selection of a product to the
// purchasable SKU and reports which spec values remain selectable.
//
// A [State] is a value: transitions return a new State and never modify the
// receiver, so a renderer can keep the previous state around.
package variant

import (
	"errors"
	"fmt"
	"slices"

	"github.com/niksmo/cloudshop/internal/core/domain"
)

var (
	ErrUnknownSpec  = errors.New("unknown spec")
	ErrUnknownValue = errors.New("unknown spec value")
)

type State struct {
	product   domain.Product
	selection domain.Selection
	resolved  int // index in product.SKUs, -1 when none
}

// New returns the initial state of a product view: the selection is the spec
// of the first SKU in catalog order, empty when there are no SKUs.
func New(p domain.Product) State {
	s := State{product: p, selection: domain.Selection{}, resolved: -1}
	if len(p.SKUs) == 0 {
		return s
	}
	for k, v := range p.SKUs[0].Spec {
		s.selection[k] = v
	}
	s.resolved = s.resolve()
	return s
}

// Select sets specName to value keeping other chosen axes and recomputes the
// resolved SKU. On error the returned state equals the receiver.
func (s State) Select(specName, value string) (State, error) {
	const op = "State.Select"

	axis, ok := s.product.Axis(specName)
	if !ok {
		return s, fmt.Errorf("%s: %w: %q", op, ErrUnknownSpec, specName)
	}
	if !slices.Contains(axis.Values, value) {
		return s, fmt.Errorf(
			"%s: %w: %q for %q", op, ErrUnknownValue, value, specName,
		)
	}

	next := State{
		product:   s.product,
		selection: s.selection.Clone(),
	}
	next.selection[specName] = value
	next.resolved = next.resolve()
	return next, nil
}

// IsValueAvailable reports whether choosing value for specName can lead to an
// in-stock SKU given the other axes already chosen. The axis itself is not a
// constraint, so a user can always switch away from a chosen value.
func (s State) IsValueAvailable(specName, value string) bool {
	for _, sku := range s.product.SKUs {
		if sku.Spec[specName] != value || !sku.InStock() {
			continue
		}
		if s.matchesOthers(sku, specName) {
			return true
		}
	}
	return false
}

func (s State) matchesOthers(sku domain.SKU, skip string) bool {
	for k, v := range s.selection {
		if k == skip || v == "" {
			continue
		}
		if sku.Spec[k] != v {
			return false
		}
	}
	return true
}

// IsComplete reports whether every axis of the product has a value.
func (s State) IsComplete() bool {
	for _, axis := range s.product.SpecItems {
		if s.selection[axis.Name] == "" {
			return false
		}
	}
	return true
}

func (s State) Resolved() (domain.SKU, bool) {
	if s.resolved < 0 || s.resolved >= len(s.product.SKUs) {
		return domain.SKU{}, false
	}
	return s.product.SKUs[s.resolved], true
}

func (s State) Selection() domain.Selection {
	return s.selection.Clone()
}

func (s State) Product() domain.Product {
	return s.product
}

// LineItem builds the purchase request for the resolved SKU. No default SKU is
// ever substituted for an incomplete or unmatched selection.
func (s State) LineItem(quantity int) (domain.LineItem, error) {
	const op = "State.LineItem"

	if !s.IsComplete() {
		return domain.LineItem{}, fmt.Errorf("%s: %w", op, domain.ErrIncompleteSelection)
	}
	sku, ok := s.Resolved()
	if !ok {
		return domain.LineItem{}, fmt.Errorf("%s: %w", op, domain.ErrNoMatchingSKU)
	}
	if quantity < 1 {
		return domain.LineItem{}, fmt.Errorf(
			"%s: %w: %d", op, domain.ErrInvalidQuantity, quantity,
		)
	}
	if sku.Stock < quantity {
		return domain.LineItem{}, fmt.Errorf(
			"%s: %w: %d left", op, domain.ErrOutOfStock, sku.Stock,
		)
	}
	return domain.LineItem{
		SKUID:    sku.ID,
		Quantity: quantity,
		Price:    sku.Price,
	}, nil
}

// first SKU in catalog order agreeing with the selection
func (s State) resolve() int {
	for i, sku := range s.product.SKUs {
		if sku.Matches(s.selection) {
			return i
		}
	}
	return -1
}

// FromSelection returns the state of p with exactly sel chosen.
func FromSelection(p domain.Product, sel domain.Selection) (State, error) {
	const op = "variant.FromSelection"

	s := State{product: p, selection: domain.Selection{}, resolved: -1}
	for _, axis := range p.SpecItems {
		v, ok := sel[axis.Name]
		if !ok {
			continue
		}
		if !slices.Contains(axis.Values, v) {
			return State{}, fmt.Errorf(
				"%s: %w: %q for %q", op, ErrUnknownValue, v, axis.Name,
			)
		}
		s.selection[axis.Name] = v
	}
	if len(s.selection) != len(sel) {
		for k := range sel {
			if _, ok := p.Axis(k); !ok {
				return State{}, fmt.Errorf("%s: %w: %q", op, ErrUnknownSpec, k)
			}
		}
	}
	s.resolved = s.resolve()
	return s, nil
}

// Unselect clears specName from the selection.
func (s State) Unselect(specName string) State {
	if _, ok := s.selection[specName]; !ok {
		return s
	}
	next := State{product: s.product, selection: s.selection.Clone()}
	delete(next.selection, specName)
	next.resolved = next.resolve()
	return next
}
