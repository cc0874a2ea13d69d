package catalog

import "context"

// Repository defines persistence for the catalog. Save must persist the
// whole aggregate atomically: a module's price, label, visibility, and
// position are never written separately.
type Repository interface {
	Load(ctx context.Context) (*Catalog, error)
	Save(ctx context.Context, c *Catalog) error
}
