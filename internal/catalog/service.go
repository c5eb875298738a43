package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bher20/quotemanager/internal/storage"
)

// Service resolves catalogs from storage on top of the built-in ones and
// keeps the registry in sync.
type Service struct {
	reg     *Registry
	store   storage.Storage // may be nil for built-in only mode
	builtin []*Catalog
	log     *zap.Logger
}

// NewService returns a Service that serves builtin catalogs until Refresh
// loads stored overrides.
func NewService(reg *Registry, st storage.Storage, log *zap.Logger, builtin ...*Catalog) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	for _, c := range builtin {
		if _, ok := reg.Get(c.Key); !ok {
			reg.Put(c)
		}
	}
	return &Service{reg: reg, store: st, builtin: builtin, log: log}
}

// Registry exposes the underlying registry.
func (s *Service) Registry() *Registry { return s.reg }

// Get returns a registered catalog or ErrNotFound.
func (s *Service) Get(key string) (*Catalog, error) {
	c, ok := s.reg.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return c, nil
}

// List returns all registered catalogs.
func (s *Service) List() []*Catalog { return s.reg.List() }

// Refresh reloads stored catalogs. Stored payloads override built-in
// catalogs with the same key; payloads that fail validation are skipped.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if s.store == nil {
		return len(s.reg.List()), nil
	}

	merged := make(map[string]*Catalog, len(s.builtin))
	order := make([]string, 0, len(s.builtin))
	for _, c := range s.builtin {
		merged[c.Key] = c
		order = append(order, c.Key)
	}

	records, err := s.store.ListCatalogs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored catalogs: %w", err)
	}
	for _, rec := range records {
		c, err := Unmarshal(rec.Payload)
		if err != nil {
			s.log.Warn("skipping invalid stored catalog", zap.String("catalog", rec.Key), zap.Error(err))
			continue
		}
		if _, ok := merged[c.Key]; !ok {
			order = append(order, c.Key)
		}
		merged[c.Key] = c
	}

	out := make([]*Catalog, 0, len(order))
	for _, k := range order {
		out = append(out, merged[k])
	}
	s.reg.Replace(out)
	s.log.Debug("catalogs refreshed", zap.Int("count", len(out)))
	return len(out), nil
}

// Import validates a catalog, stores it when storage is configured, and
// registers it.
func (s *Service) Import(ctx context.Context, c *Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if s.store != nil {
		payload, err := Marshal(c)
		if err != nil {
			return fmt.Errorf("encode catalog %s: %w", c.Key, err)
		}
		if err := s.store.UpsertCatalog(ctx, storage.CatalogRecord{
			Key:       c.Key,
			Name:      c.Name,
			Vertical:  c.Vertical,
			Payload:   payload,
			UpdatedAt: time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("store catalog %s: %w", c.Key, err)
		}
	}
	s.reg.Put(c)
	s.log.Info("catalog imported", zap.String("catalog", c.Key),
		zap.Int("geographic", len(c.Geographic)), zap.Int("activities", len(c.Activities)))
	return nil
}
