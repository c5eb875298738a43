package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format names a catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// catalogFile is the hand-edited file layout. Prices are plain numbers there.
type catalogFile struct {
	Key        string           `json:"key" yaml:"key"`
	Name       string           `json:"name" yaml:"name"`
	Vertical   string           `json:"vertical,omitempty" yaml:"vertical,omitempty"`
	Currency   string           `json:"currency" yaml:"currency"`
	Geographic []geographicFile `json:"geographic" yaml:"geographic"`
	Activities []activityFile   `json:"activities" yaml:"activities"`
	Bundles    []bundleFile     `json:"bundles,omitempty" yaml:"bundles,omitempty"`
}

type geographicFile struct {
	ID        string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string  `json:"name" yaml:"name"`
	Code      string  `json:"code" yaml:"code"`
	BasePrice float64 `json:"base_price" yaml:"base_price"`
	BundleID  string  `json:"bundle_id,omitempty" yaml:"bundle_id,omitempty"`
}

type activityFile struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	BasePrice float64 `json:"base_price" yaml:"base_price"`
}

type bundleFile struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Codes []string `json:"codes" yaml:"codes,flow"`
}

func (f *catalogFile) toCatalog() *Catalog {
	c := &Catalog{
		Key:      f.Key,
		Name:     f.Name,
		Vertical: f.Vertical,
		Currency: f.Currency,
	}
	if c.Currency == "" {
		c.Currency = "EUR"
	}
	for _, g := range f.Geographic {
		id := g.ID
		if id == "" {
			id = g.Code
		}
		c.Geographic = append(c.Geographic, GeographicUnit{
			ID:        id,
			Name:      g.Name,
			Code:      g.Code,
			BasePrice: decimal.NewFromFloat(g.BasePrice),
			BundleID:  g.BundleID,
		})
	}
	for _, a := range f.Activities {
		c.Activities = append(c.Activities, ActivityUnit{
			ID:        a.ID,
			Name:      a.Name,
			BasePrice: decimal.NewFromFloat(a.BasePrice),
		})
	}
	for _, b := range f.Bundles {
		c.Bundles = append(c.Bundles, Bundle{
			ID:    b.ID,
			Name:  b.Name,
			Codes: append([]string(nil), b.Codes...),
		})
	}
	return c
}

func fileFromCatalog(c *Catalog) *catalogFile {
	f := &catalogFile{Key: c.Key, Name: c.Name, Vertical: c.Vertical, Currency: c.Currency}
	for _, g := range c.Geographic {
		id := g.ID
		if id == g.Code {
			id = ""
		}
		f.Geographic = append(f.Geographic, geographicFile{
			ID:        id,
			Name:      g.Name,
			Code:      g.Code,
			BasePrice: g.BasePrice.InexactFloat64(),
			BundleID:  g.BundleID,
		})
	}
	for _, a := range c.Activities {
		f.Activities = append(f.Activities, activityFile{ID: a.ID, Name: a.Name, BasePrice: a.BasePrice.InexactFloat64()})
	}
	for _, b := range c.Bundles {
		f.Bundles = append(f.Bundles, bundleFile{ID: b.ID, Name: b.Name, Codes: b.Codes})
	}
	return f
}

// Decode reads a catalog file in the given format and validates it.
func Decode(r io.Reader, format Format) (*Catalog, error) {
	var f catalogFile
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	c := f.toCatalog()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes c in the file layout Decode reads.
func Encode(w io.Writer, c *Catalog, format Format) error {
	f := fileFromCatalog(c)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported catalog format %q", format)
	}
}

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("cannot infer catalog format from %q", path)
	}
}

// LoadFile reads a JSON or YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Marshal encodes a catalog as the JSON payload kept in storage.
func Marshal(c *Catalog) ([]byte, error) {
	return json.Marshal(c)
}

// Unmarshal decodes a storage payload and validates it.
func Unmarshal(payload []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("decode catalog payload: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
