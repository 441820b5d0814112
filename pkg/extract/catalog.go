package extract

import (
	"context"

	"go.uber.org/zap"
)

// CatalogSource lists canonical names from the compensation store.
// *store.Store satisfies this.
type CatalogSource interface {
	Functions(ctx context.Context) ([]string, error)
	Modules(ctx context.Context) ([]string, error)
	Levels(ctx context.Context) ([]string, error)
}

// Catalog is a lazily-populated cache of canonical function, module, and
// level names. A load failure degrades to empty lists so extraction can
// fall back to its static keyword tables; no error reaches the caller.
type Catalog struct {
	source CatalogSource
	logger *zap.Logger

	loaded    bool
	functions []string
	modules   []string
	levels    []string
}

// NewCatalog creates an unloaded catalog. The first lookup populates it.
func NewCatalog(source CatalogSource, logger *zap.Logger) *Catalog {
	return &Catalog{
		source: source,
		logger: logger.Named("catalog"),
	}
}

// Refresh reloads all names from the store. Callers decide when staleness
// matters; the pipeline itself never invalidates.
func (c *Catalog) Refresh(ctx context.Context) {
	c.loaded = true
	c.functions = c.load(ctx, "functions", c.source.Functions)
	c.modules = c.load(ctx, "modules", c.source.Modules)
	c.levels = c.load(ctx, "levels", c.source.Levels)
}

func (c *Catalog) load(ctx context.Context, what string, fn func(context.Context) ([]string, error)) []string {
	names, err := fn(ctx)
	if err != nil {
		c.logger.Warn("catalog load failed, static tables only",
			zap.String("names", what), zap.Error(err))
		return nil
	}
	return names
}

func (c *Catalog) ensure(ctx context.Context) {
	if !c.loaded {
		c.Refresh(ctx)
	}
}

// Functions returns the cached canonical function names.
func (c *Catalog) Functions(ctx context.Context) []string {
	c.ensure(ctx)
	return c.functions
}

// Modules returns the cached canonical module names.
func (c *Catalog) Modules(ctx context.Context) []string {
	c.ensure(ctx)
	return c.modules
}

// Levels returns the cached canonical level names.
func (c *Catalog) Levels(ctx context.Context) []string {
	c.ensure(ctx)
	return c.levels
}
