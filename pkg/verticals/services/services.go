package services

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/pkg/verticals"
)

const Key = "services-idf"

func init() {
	verticals.Register(&Vertical{})
}

// Vertical prices the service-company subscription. It shares the
// Île-de-France territory grid with construction but sells maintenance and
// consulting services instead of trades.
type Vertical struct {
	once sync.Once
	cat  *catalog.Catalog
}

func (v *Vertical) Key() string {
	return Key
}

func (v *Vertical) Name() string {
	return "Service Company Subscription Estimation"
}

func (v *Vertical) Catalog() *catalog.Catalog {
	v.once.Do(func() { v.cat = build() })
	return v.cat
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func build() *catalog.Catalog {
	return &catalog.Catalog{
		Key:      Key,
		Name:     "Services Île-de-France",
		Vertical: "services",
		Currency: "EUR",
		Geographic: []catalog.GeographicUnit{
			{ID: "75", Code: "75", Name: "Paris", BasePrice: price("600"), BundleID: "paris-proche"},
			{ID: "92", Code: "92", Name: "Hauts-de-Seine", BasePrice: price("600"), BundleID: "paris-proche"},
			{ID: "93", Code: "93", Name: "Seine-Saint-Denis", BasePrice: price("450"), BundleID: "paris-proche"},
			{ID: "94", Code: "94", Name: "Val-de-Marne", BasePrice: price("450"), BundleID: "paris-proche"},
			{ID: "77", Code: "77", Name: "Seine-et-Marne", BasePrice: price("350")},
			{ID: "78", Code: "78", Name: "Yvelines", BasePrice: price("350")},
			{ID: "91", Code: "91", Name: "Essonne", BasePrice: price("350")},
			{ID: "95", Code: "95", Name: "Val-d'Oise", BasePrice: price("350")},
		},
		Activities: []catalog.ActivityUnit{
			{ID: "maintenance", Name: "Maintenance multitechnique", BasePrice: price("290")},
			{ID: "nettoyage", Name: "Nettoyage de chantier", BasePrice: price("180")},
			{ID: "diagnostic", Name: "Diagnostics immobiliers", BasePrice: price("240")},
			{ID: "bureau-etudes", Name: "Bureau d'études", BasePrice: price("390")},
			{ID: "securite", Name: "Sécurité et gardiennage", BasePrice: price("210")},
		},
		Bundles: []catalog.Bundle{
			{ID: "paris-proche", Name: "Paris et proche banlieue", Codes: []string{"75", "92", "93", "94"}},
		},
	}
}
