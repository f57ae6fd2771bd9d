package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartMutations(t *testing.T) {
	a, b, c := randomItem(1), randomItem(2), randomItem(3)
	cart := domain.Cart{Items: []domain.CartItem{a, b, c}}

	t.Run("without keeps order of the rest", func(t *testing.T) {
		next, err := cart.Without(2)
		require.NoError(t, err)

		assert.Equal(t, []int64{1, 3}, ids(next))
		assert.Equal(t, []int64{1, 2, 3}, ids(cart))
	})

	t.Run("without missing item: not found", func(t *testing.T) {
		_, err := cart.Without(9)
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("with amount does not touch receiver", func(t *testing.T) {
		next, err := cart.WithAmount(3, 4)
		require.NoError(t, err)

		assert.Equal(t, 4, next.Amount(3))
		assert.Equal(t, c.Amount, cart.Amount(3))
	})

	t.Run("with amount below one: invalid", func(t *testing.T) {
		_, err := cart.WithAmount(1, 0)
		require.ErrorIs(t, err, domain.ErrInvalidCart)
	})

	t.Run("append duplicate: invalid", func(t *testing.T) {
		_, err := cart.Append(a)
		require.ErrorIs(t, err, domain.ErrInvalidCart)
	})

	t.Run("append goes last", func(t *testing.T) {
		next, err := cart.Append(randomItem(4))
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3, 4}, ids(next))
		assert.Equal(t, 3, cart.Len())
	})

	t.Run("amount of missing item is zero", func(t *testing.T) {
		assert.Equal(t, 0, cart.Amount(42))
	})
}

func TestEncodeDecodeCart(t *testing.T) {
	cart := domain.Cart{Items: []domain.CartItem{randomItem(7), randomItem(3), randomItem(11)}}
	cart.Items[1].Attributes = map[string]json.RawMessage{"brand": json.RawMessage(`"Acme"`)}

	data, err := domain.EncodeCart(cart)
	require.NoError(t, err)

	got, err := domain.DecodeCart(data)
	require.NoError(t, err)

	diff := cmp.Diff(cart, got, cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	}))
	assert.Empty(t, diff)

	again, err := domain.EncodeCart(got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestEncodeEmptyCart(t *testing.T) {
	data, err := domain.EncodeCart(domain.Cart{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCartItemJSONShape(t *testing.T) {
	item := domain.CartItem{
		Product: domain.Product{
			ID:    7,
			Title: "Shoe",
			Price: decimal.RequireFromString("139.9"),
			Image: "shoe.png",
		},
		Amount: 2,
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"Shoe","price":139.9,"image":"shoe.png","amount":2}`, string(data))
}

func TestDecodeCartInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{{`},
		{name: "object instead of array", data: `{"id":1}`},
		{name: "zero amount", data: `[{"id":1,"amount":0}]`},
		{name: "missing amount", data: `[{"id":1}]`},
		{name: "duplicate id", data: `[{"id":1,"amount":1},{"id":1,"amount":2}]`},
		{name: "missing id", data: `[{"amount":1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.DecodeCart([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func randomItem(id int64) domain.CartItem {
	return domain.CartItem{
		Product: domain.Product{
			ID:    id,
			Title: gofakeit.ProductName(),
			Price: decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
			Image: gofakeit.URL(),
		},
		Amount: gofakeit.IntRange(1, 5),
	}
}

func ids(c domain.Cart) []int64 {
	out := make([]int64, 0, c.Len())
	for _, item := range c.Items {
		out = append(out, item.ID)
	}
	return out
}
