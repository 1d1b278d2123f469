// Package catalog defines the port through which the storefront consumes
// the external product catalog. The cart/order core never caches catalog
// fields; every read that needs display data goes through a Reader at
// query time.
package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dheras/foodcourt/internal/domain"
)

// Product is the catalog view of a food item at the moment of the read.
type Product struct {
	ID          string
	Name        string
	Description string
	Img         string
	Price       float64
}

// Reader resolves a product reference to its current catalog attributes.
// A missing entry yields a domain NotFound error.
type Reader interface {
	Product(ctx context.Context, id string) (Product, error)
}

// Resolve looks up every id with bounded concurrency and returns a slice
// aligned with ids. A product the catalog no longer knows is returned as
// nil in its slot rather than failing the whole read; any other failure
// aborts the batch.
func Resolve(ctx context.Context, r Reader, ids []string, maxConcurrent int) ([]*Product, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}

	out := make([]*Product, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for idx := range ids {
		g.Go(func() error {
			p, err := r.Product(ctx, ids[idx])
			if err != nil {
				if domain.IsNotFound(err) {
					return nil
				}
				return err
			}
			out[idx] = &p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
