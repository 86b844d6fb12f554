package model

import (
	"strings"

	"catalog-broadcast-bot/internal/domain"
)

// DraftSeparator splits an operator's product line into fields.
const DraftSeparator = ";"

// DraftFieldCount is the minimum number of segments a product line must carry.
const DraftFieldCount = 5

// Product is a catalog entry as stored by the catalog store.
// All descriptive fields are opaque strings; ID is assigned by the store.
type Product struct {
	ID          string `json:"_id,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Age         string `json:"age"`
	Available   bool   `json:"available"`
}

// DraftFields is the unvalidated five-field tuple parsed from an operator line.
type DraftFields struct {
	Name        string
	Type        string
	Price       string
	Description string
	Age         string
}

// ParseDraft splits text on ';' and takes the first five segments.
// Segments are kept verbatim, surrounding spaces included. Extra segments
// are ignored; fewer than five yield domain.ErrInvalidFormat.
func ParseDraft(text string) (DraftFields, error) {
	parts := strings.Split(text, DraftSeparator)
	if len(parts) < DraftFieldCount {
		return DraftFields{}, domain.ErrInvalidFormat
	}
	return DraftFields{
		Name:        parts[0],
		Type:        parts[1],
		Price:       parts[2],
		Description: parts[3],
		Age:         parts[4],
	}, nil
}

// NewProduct builds the value written on first create. New products are always available.
func NewProduct(d DraftFields, imageURL string) *Product {
	return &Product{
		Name:        d.Name,
		Type:        d.Type,
		Price:       d.Price,
		Image:       imageURL,
		Description: d.Description,
		Age:         d.Age,
		Available:   true,
	}
}

// ProductPatch carries a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Price       *string `json:"price,omitempty"`
	Image       *string `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
	Age         *string `json:"age,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

// PatchFromDraft replaces the five descriptive fields, leaving image and availability alone.
func PatchFromDraft(d DraftFields) ProductPatch {
	return ProductPatch{
		Name:        &d.Name,
		Type:        &d.Type,
		Price:       &d.Price,
		Description: &d.Description,
		Age:         &d.Age,
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Price == nil && p.Image == nil &&
		p.Description == nil && p.Age == nil && p.Available == nil
}

// Apply copies the set fields of the patch onto p.
func (p *Product) Apply(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.Available != nil {
		p.Available = *patch.Available
	}
}
