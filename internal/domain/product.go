package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("product is invalid")

const (
	fieldID     = "id"
	fieldTitle  = "title"
	fieldPrice  = "price"
	fieldImage  = "image"
	fieldAmount = "amount"
)

// Product is a catalog record. Fields the cart does not interpret are kept
// in Attributes and written back untouched.
type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string

	Attributes map[string]json.RawMessage
}

type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	fields, err := p.fields()
	if err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return p.fromFields(fields)
}

func (p Product) fields() (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage, len(p.Attributes)+4)
	for k, v := range p.Attributes {
		fields[k] = v
	}

	var err error
	if fields[fieldID], err = json.Marshal(p.ID); err != nil {
		return nil, fmt.Errorf("marshal id: %w", err)
	}
	if fields[fieldTitle], err = json.Marshal(p.Title); err != nil {
		return nil, fmt.Errorf("marshal title: %w", err)
	}
	if fields[fieldImage], err = json.Marshal(p.Image); err != nil {
		return nil, fmt.Errorf("marshal image: %w", err)
	}
	// numeric literal, not the quoted form decimal uses by default
	fields[fieldPrice] = json.RawMessage(p.Price.String())

	return fields, nil
}

func (p *Product) fromFields(fields map[string]json.RawMessage) error {
	rawID, ok := fields[fieldID]
	if !ok {
		return fmt.Errorf("%w: id is missing", ErrInvalidProduct)
	}

	var out Product
	if err := json.Unmarshal(rawID, &out.ID); err != nil {
		return fmt.Errorf("%w: id: %w", ErrInvalidProduct, err)
	}

	if raw, ok := fields[fieldTitle]; ok {
		if err := json.Unmarshal(raw, &out.Title); err != nil {
			return fmt.Errorf("%w: title: %w", ErrInvalidProduct, err)
		}
	}
	if raw, ok := fields[fieldImage]; ok {
		if err := json.Unmarshal(raw, &out.Image); err != nil {
			return fmt.Errorf("%w: image: %w", ErrInvalidProduct, err)
		}
	}
	if raw, ok := fields[fieldPrice]; ok {
		if err := out.Price.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("%w: price: %w", ErrInvalidProduct, err)
		}
	}

	for k, v := range fields {
		switch k {
		case fieldID, fieldTitle, fieldPrice, fieldImage, fieldAmount:
			continue
		}
		if out.Attributes == nil {
			out.Attributes = make(map[string]json.RawMessage)
		}
		out.Attributes[k] = v
	}

	*p = out
	return nil
}
