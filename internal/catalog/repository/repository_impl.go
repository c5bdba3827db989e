package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	catalogdomain "github.com/smallbiznis/hotelbill/internal/catalog/domain"
	"github.com/smallbiznis/hotelbill/internal/kvstore"
)

const ProductsKey = "products"

var (
	// ErrNoSnapshot means nothing has been persisted yet.
	ErrNoSnapshot = errors.New("catalog_snapshot_missing")
	// ErrCorruptSnapshot means the stored products do not decode.
	ErrCorruptSnapshot = errors.New("catalog_snapshot_corrupt")
)

type Repository interface {
	LoadProducts(ctx context.Context) ([]catalogdomain.Product, error)
	SaveProducts(ctx context.Context, products []catalogdomain.Product) error
}

type repo struct {
	store kvstore.Store
}

func New(store kvstore.Store) Repository {
	return &repo{store: store}
}

func (r *repo) LoadProducts(ctx context.Context) ([]catalogdomain.Product, error) {
	raw, err := r.store.Get(ctx, ProductsKey)
	if err != nil {
		switch {
		case errors.Is(err, kvstore.ErrNotFound):
			return nil, ErrNoSnapshot
		case errors.Is(err, kvstore.ErrCorruptValue):
			return nil, fmt.Errorf("decode %s: %w: %w", ProductsKey, ErrCorruptSnapshot, err)
		default:
			return nil, fmt.Errorf("read %s: %w", ProductsKey, err)
		}
	}

	var products []catalogdomain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", ProductsKey, ErrCorruptSnapshot, err)
	}
	seen := make(map[int64]struct{}, len(products))
	for i, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("decode %s: %w: product[%d] has no id", ProductsKey, ErrCorruptSnapshot, i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("decode %s: %w: duplicate product id %d", ProductsKey, ErrCorruptSnapshot, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return products, nil
}

func (r *repo) SaveProducts(ctx context.Context, products []catalogdomain.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ProductsKey, raw)
}
