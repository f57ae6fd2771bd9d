package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidCart   = errors.New("cart is invalid")
	ErrStockExceeded = errors.New("requested amount exceeds stock")
	ErrItemNotFound  = errors.New("item not found in cart")
)

// CartItem is a line item: a catalog product plus the quantity held in the cart.
type CartItem struct {
	Product
	Amount int
}

func NewCartItem(p Product) CartItem {
	return CartItem{Product: p, Amount: 1}
}

func (i CartItem) MarshalJSON() ([]byte, error) {
	fields, err := i.Product.fields()
	if err != nil {
		return nil, err
	}

	if fields[fieldAmount], err = json.Marshal(i.Amount); err != nil {
		return nil, fmt.Errorf("marshal amount: %w", err)
	}

	return json.Marshal(fields)
}

func (i *CartItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	var out CartItem
	if err := out.Product.fromFields(fields); err != nil {
		return err
	}

	if raw, ok := fields[fieldAmount]; ok {
		if err := json.Unmarshal(raw, &out.Amount); err != nil {
			return fmt.Errorf("%w: amount: %w", ErrInvalidCart, err)
		}
	}

	*i = out
	return nil
}

// AmountUpdate requests an absolute quantity for a product, not a delta.
type AmountUpdate struct {
	ProductID int64
	Amount    int
}

// Cart is an ordered sequence of line items, first added first.
// Mutating helpers return a new Cart and never touch the receiver's items.
type Cart struct {
	Items []CartItem
}

func (c Cart) Len() int {
	return len(c.Items)
}

func (c Cart) Find(productID int64) (CartItem, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return CartItem{}, false
	}
	return c.Items[idx], true
}

// Amount returns the quantity held for productID, 0 when absent.
func (c Cart) Amount(productID int64) int {
	item, ok := c.Find(productID)
	if !ok {
		return 0
	}
	return item.Amount
}

func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

func (c Cart) Append(item CartItem) (Cart, error) {
	if item.Amount < 1 {
		return c, fmt.Errorf("%w: amount %d for product %d", ErrInvalidCart, item.Amount, item.ID)
	}
	if c.indexOf(item.ID) >= 0 {
		return c, fmt.Errorf("%w: product %d is already in cart", ErrInvalidCart, item.ID)
	}

	next := make([]CartItem, len(c.Items), len(c.Items)+1)
	copy(next, c.Items)
	return Cart{Items: append(next, item)}, nil
}

func (c Cart) WithAmount(productID int64, amount int) (Cart, error) {
	if amount < 1 {
		return c, fmt.Errorf("%w: amount %d for product %d", ErrInvalidCart, amount, productID)
	}

	idx := c.indexOf(productID)
	if idx < 0 {
		return c, ErrItemNotFound
	}

	next := c.Clone()
	next.Items[idx].Amount = amount
	return next, nil
}

// Without removes productID keeping the order of the remaining items.
func (c Cart) Without(productID int64) (Cart, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return c, ErrItemNotFound
	}

	next := make([]CartItem, 0, len(c.Items)-1)
	next = append(next, c.Items[:idx]...)
	next = append(next, c.Items[idx+1:]...)
	return Cart{Items: next}, nil
}

func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.Amount < 1 {
			return fmt.Errorf("%w: amount %d for product %d", ErrInvalidCart, item.Amount, item.ID)
		}
		if _, ok := seen[item.ID]; ok {
			return fmt.Errorf("%w: duplicate product %d", ErrInvalidCart, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func (c Cart) indexOf(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// EncodeCart produces the persisted snapshot: a JSON array of line items.
// Object keys are sorted, so equal carts encode to equal bytes.
func EncodeCart(c Cart) ([]byte, error) {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}
	return data, nil
}

func DecodeCart(data []byte) (Cart, error) {
	var items []CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return Cart{}, fmt.Errorf("%w: %w", ErrInvalidCart, err)
	}

	c := Cart{Items: items}
	if err := c.Validate(); err != nil {
		return Cart{}, err
	}
	return c, nil
}
