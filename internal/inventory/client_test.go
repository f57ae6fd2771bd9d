package inventory_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/inventory"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	catalog, err := inventory.DefaultCatalog()
	require.NoError(t, err)

	srv := httptest.NewServer(inventory.NewServer(catalog, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientGetStock(t *testing.T) {
	srv := newCatalogServer(t)

	client, err := inventory.NewClient(srv.URL)
	require.NoError(t, err)

	tests := []struct {
		name      string
		productID int64
		want      domain.Stock
		wantErr   error
	}{
		{
			name:      "existing stock: ok",
			productID: 2,
			want:      domain.Stock{ID: 2, Amount: 5},
		},
		{
			name:      "missing stock: not found",
			productID: 404,
			wantErr:   port.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.GetStock(t.Context(), tt.productID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientGetProduct(t *testing.T) {
	srv := newCatalogServer(t)

	client, err := inventory.NewClient(srv.URL + "/")
	require.NoError(t, err)

	got, err := client.GetProduct(t.Context(), 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, "Tênis VR Caminhada Confortável Detalhes Couro Masculino", got.Title)
	assert.True(t, decimal.RequireFromString("139.9").Equal(got.Price))

	_, err = client.GetProduct(t.Context(), 404)
	require.ErrorIs(t, err, port.ErrNotFound)

	var statusErr *inventory.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClientListProducts(t *testing.T) {
	srv := newCatalogServer(t)

	client, err := inventory.NewClient(srv.URL, inventory.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	got, err := client.ListProducts(t.Context())
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func TestClientKeepsUnknownProductFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"title":"Boot","price":"10.5","image":"x.png","brand":"Acme","sizes":[40,41]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := inventory.NewClient(srv.URL)
	require.NoError(t, err)

	got, err := client.GetProduct(t.Context(), 9)
	require.NoError(t, err)

	require.Contains(t, got.Attributes, "brand")
	assert.JSONEq(t, `"Acme"`, string(got.Attributes["brand"]))
	assert.JSONEq(t, `[40,41]`, string(got.Attributes["sizes"]))
	assert.True(t, decimal.RequireFromString("10.5").Equal(got.Price))
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error: status error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var statusErr *inventory.StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
				assert.NotErrorIs(t, err, port.ErrNotFound)
			},
		},
		{
			name: "malformed payload: decode error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":`))
			},
			check: func(t *testing.T, err error) {
				require.ErrorContains(t, err, "decode /stock/1")
			},
		},
		{
			name: "wrong payload type: decode error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"amount": "lots"})
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			client, err := inventory.NewClient(srv.URL)
			require.NoError(t, err)

			_, err = client.GetStock(t.Context(), 1)
			tt.check(t, err)
		})
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client, err := inventory.NewClient(srv.URL, inventory.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = client.GetStock(t.Context(), 1)
	require.Error(t, err)
}

func TestClientCanceledContext(t *testing.T) {
	srv := newCatalogServer(t)

	client, err := inventory.NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err = client.GetStock(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := inventory.NewClient("localhost:3333")
	require.Error(t, err)
}
