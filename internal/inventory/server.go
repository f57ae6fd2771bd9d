package inventory

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/nikolayk812/cartsync/internal/domain"
)

//go:embed catalog.json
var defaultCatalog []byte

// Catalog is a json-server style document with stock and product collections.
type Catalog struct {
	Stock    []domain.Stock   `json:"stock"`
	Products []domain.Product `json:"products"`
}

func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

func (c *Catalog) stock(id int64) (domain.Stock, bool) {
	for _, s := range c.Stock {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Stock{}, false
}

func (c *Catalog) product(id int64) (domain.Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

type server struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewServer serves the catalog over the same routes the Client consumes.
func NewServer(catalog *Catalog, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &server{catalog: catalog, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/stock/{id:[0-9]+}", s.getStock).Methods(http.MethodGet)
	r.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", s.getProduct).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
	})

	return r
}

func (s *server) getStock(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	stock, found := s.catalog.stock(id)
	if !found {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
		return
	}
	s.writeJSON(w, r, http.StatusOK, stock)
}

func (s *server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	product, found := s.catalog.product(id)
	if !found {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
		return
	}
	s.writeJSON(w, r, http.StatusOK, product)
}

func (s *server) listProducts(w http.ResponseWriter, r *http.Request) {
	products := s.catalog.Products
	if products == nil {
		products = []domain.Product{}
	}
	s.writeJSON(w, r, http.StatusOK, products)
}

func (s *server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeJSON(w, r, http.StatusNotFound, struct{}{})
		return 0, false
	}
	return id, true
}

func (s *server) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.LogAttrs(r.Context(), slog.LevelError, "encode response",
			slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
}
