package domain

import (
	"errors"
	"fmt"
	"slices"
)

type (
	// A ProductSummary is a product card of the catalog listing.
	ProductSummary struct {
		ID      string
		Name    string
		Caption string
		Image   string
	}

	// A Product is an immutable snapshot of a SPU with all of its SKUs.
	Product struct {
		ID           string
		Name         string
		Caption      string
		Introduction string
		SN           string
		SaleNum      int
		CommentNum   int
		SpecItems    []SpecAxis
		SKUs         []SKU
		Images       []string
	}

	// A SpecAxis is one selectable attribute dimension with its legal values
	// in catalog order.
	SpecAxis struct {
		Name   string
		Values []string
	}

	SKU struct {
		ID    string
		Name  string
		Brand string
		Image string
		Spec  map[string]string
		Price Money
		Stock int
	}
)

// Selection maps spec axis name to the chosen value. It may be partial.
type Selection map[string]string

func (s Selection) Clone() Selection {
	c := make(Selection, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Axis returns the spec axis with the given name.
func (p Product) Axis(name string) (SpecAxis, bool) {
	for _, a := range p.SpecItems {
		if a.Name == name {
			return a, true
		}
	}
	return SpecAxis{}, false
}

func (p Product) AxisNames() []string {
	names := make([]string, len(p.SpecItems))
	for i, a := range p.SpecItems {
		names[i] = a.Name
	}
	return names
}

// HeroImage returns the first introduction image or empty string.
func (p Product) HeroImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// CheckIntegrity reports every SKU whose spec does not cover exactly the
// product axes with legal values.
func (p Product) CheckIntegrity() error {
	var errs []error
	for _, sku := range p.SKUs {
		if len(sku.Spec) != len(p.SpecItems) {
			errs = append(errs, fmt.Errorf(
				"sku %q: %d spec values for %d axes",
				sku.ID, len(sku.Spec), len(p.SpecItems),
			))
		}
		for _, axis := range p.SpecItems {
			v, ok := sku.Spec[axis.Name]
			if !ok {
				errs = append(errs, fmt.Errorf(
					"sku %q: missing axis %q", sku.ID, axis.Name,
				))
				continue
			}
			if !slices.Contains(axis.Values, v) {
				errs = append(errs, fmt.Errorf(
					"sku %q: illegal value %q for axis %q", sku.ID, v, axis.Name,
				))
			}
		}
	}
	return errors.Join(errs...)
}

// Matches reports whether the SKU agrees with every axis present in sel.
func (s SKU) Matches(sel Selection) bool {
	for k, v := range sel {
		if s.Spec[k] != v {
			return false
		}
	}
	return true
}

func (s SKU) InStock() bool {
	return s.Stock > 0
}
