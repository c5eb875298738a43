package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a catalog key is not registered.
var ErrNotFound = errors.New("catalog not found")

// GeographicUnit is a priced territory (a department, for the construction vertical).
type GeographicUnit struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	BasePrice decimal.Decimal `json:"base_price"`
	BundleID  string          `json:"bundle_id,omitempty"`
}

// ActivityUnit is a priced trade or service category.
type ActivityUnit struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// Bundle is a fixed group of geographic codes that unlocks a discount once
// every member is selected.
type Bundle struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Codes []string `json:"codes"`
}

// Catalog is the reference data one estimation runs against. A catalog must
// not be mutated after it has been handed to a Registry.
type Catalog struct {
	Key        string           `json:"key"`
	Name       string           `json:"name"`
	Vertical   string           `json:"vertical,omitempty"`
	Currency   string           `json:"currency"`
	Geographic []GeographicUnit `json:"geographic"`
	Activities []ActivityUnit   `json:"activities"`
	Bundles    []Bundle         `json:"bundles"`

	once       sync.Once
	geoByCode  map[string]int
	actByID    map[string]int
	bundleByID map[string]int
}

func (c *Catalog) index() {
	c.once.Do(func() {
		c.geoByCode = make(map[string]int, len(c.Geographic))
		for i, g := range c.Geographic {
			c.geoByCode[g.Code] = i
		}
		c.actByID = make(map[string]int, len(c.Activities))
		for i, a := range c.Activities {
			c.actByID[a.ID] = i
		}
		c.bundleByID = make(map[string]int, len(c.Bundles))
		for i, b := range c.Bundles {
			c.bundleByID[b.ID] = i
		}
	})
}

// GeographicByCode looks up a geographic unit by its short code.
func (c *Catalog) GeographicByCode(code string) (GeographicUnit, bool) {
	c.index()
	i, ok := c.geoByCode[code]
	if !ok {
		return GeographicUnit{}, false
	}
	return c.Geographic[i], true
}

// ActivityByID looks up an activity unit by id.
func (c *Catalog) ActivityByID(id string) (ActivityUnit, bool) {
	c.index()
	i, ok := c.actByID[id]
	if !ok {
		return ActivityUnit{}, false
	}
	return c.Activities[i], true
}

// BundleByID looks up a bundle by id.
func (c *Catalog) BundleByID(id string) (Bundle, bool) {
	c.index()
	i, ok := c.bundleByID[id]
	if !ok {
		return Bundle{}, false
	}
	return c.Bundles[i], true
}

// BundleMembers resolves the geographic units of a bundle in bundle order.
// Codes missing from the catalog are skipped.
func (c *Catalog) BundleMembers(bundleID string) []GeographicUnit {
	b, ok := c.BundleByID(bundleID)
	if !ok {
		return nil
	}
	out := make([]GeographicUnit, 0, len(b.Codes))
	for _, code := range b.Codes {
		if g, ok := c.GeographicByCode(code); ok {
			out = append(out, g)
		}
	}
	return out
}

// Validate checks the catalog for internal consistency. Each geographic
// unit belongs to at most one bundle, and a bundle lists exactly the units
// whose BundleID names it.
func (c *Catalog) Validate() error {
	if c.Key == "" {
		return errors.New("catalog: empty key")
	}

	units := make(map[string]GeographicUnit, len(c.Geographic))
	for _, g := range c.Geographic {
		if g.Code == "" {
			return fmt.Errorf("catalog %s: geographic unit %q has no code", c.Key, g.Name)
		}
		if _, dup := units[g.Code]; dup {
			return fmt.Errorf("catalog %s: duplicate geographic code %q", c.Key, g.Code)
		}
		if g.BasePrice.IsNegative() {
			return fmt.Errorf("catalog %s: geographic unit %q has negative price", c.Key, g.Code)
		}
		units[g.Code] = g
	}

	ids := make(map[string]bool, len(c.Activities))
	for _, a := range c.Activities {
		if a.ID == "" {
			return fmt.Errorf("catalog %s: activity %q has no id", c.Key, a.Name)
		}
		if ids[a.ID] {
			return fmt.Errorf("catalog %s: duplicate activity id %q", c.Key, a.ID)
		}
		if a.BasePrice.IsNegative() {
			return fmt.Errorf("catalog %s: activity %q has negative price", c.Key, a.ID)
		}
		ids[a.ID] = true
	}

	bundles := make(map[string]bool, len(c.Bundles))
	listedIn := make(map[string]string, len(c.Geographic))
	for _, b := range c.Bundles {
		if b.ID == "" {
			return fmt.Errorf("catalog %s: bundle %q has no id", c.Key, b.Name)
		}
		if bundles[b.ID] {
			return fmt.Errorf("catalog %s: duplicate bundle id %q", c.Key, b.ID)
		}
		if len(b.Codes) == 0 {
			return fmt.Errorf("catalog %s: bundle %q has no members", c.Key, b.ID)
		}
		seen := make(map[string]bool, len(b.Codes))
		for _, code := range b.Codes {
			g, ok := units[code]
			if !ok {
				return fmt.Errorf("catalog %s: bundle %q references unknown code %q", c.Key, b.ID, code)
			}
			if seen[code] {
				return fmt.Errorf("catalog %s: bundle %q lists code %q twice", c.Key, b.ID, code)
			}
			seen[code] = true
			if other, ok := listedIn[code]; ok {
				return fmt.Errorf("catalog %s: code %q is listed in bundles %q and %q", c.Key, code, other, b.ID)
			}
			listedIn[code] = b.ID
			if g.BundleID != b.ID {
				return fmt.Errorf("catalog %s: bundle %q lists code %q whose bundle_id is %q", c.Key, b.ID, code, g.BundleID)
			}
		}
		bundles[b.ID] = true
	}

	for _, g := range c.Geographic {
		if g.BundleID == "" {
			continue
		}
		if !bundles[g.BundleID] {
			return fmt.Errorf("catalog %s: geographic unit %q references unknown bundle %q", c.Key, g.Code, g.BundleID)
		}
		if listedIn[g.Code] != g.BundleID {
			return fmt.Errorf("catalog %s: geographic unit %q is not listed in its bundle %q", c.Key, g.Code, g.BundleID)
		}
	}
	return nil
}
