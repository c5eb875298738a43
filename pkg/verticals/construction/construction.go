package construction

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/pkg/verticals"
)

const Key = "construction-idf"

func init() {
	verticals.Register(&Vertical{})
}

type Vertical struct {
	once sync.Once
	cat  *catalog.Catalog
}

func (v *Vertical) Key() string {
	return Key
}

func (v *Vertical) Name() string {
	return "Construction Subscription Estimation"
}

func (v *Vertical) Catalog() *catalog.Catalog {
	v.once.Do(func() { v.cat = build() })
	return v.cat
}

func price(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func build() *catalog.Catalog {
	return &catalog.Catalog{
		Key:      Key,
		Name:     "Construction Île-de-France",
		Vertical: "construction",
		Currency: "EUR",
		Geographic: []catalog.GeographicUnit{
			{ID: "75", Code: "75", Name: "Paris", BasePrice: price(950), BundleID: "petite-couronne"},
			{ID: "92", Code: "92", Name: "Hauts-de-Seine", BasePrice: price(950), BundleID: "petite-couronne"},
			{ID: "93", Code: "93", Name: "Seine-Saint-Denis", BasePrice: price(950), BundleID: "petite-couronne"},
			{ID: "94", Code: "94", Name: "Val-de-Marne", BasePrice: price(950), BundleID: "petite-couronne"},
			{ID: "77", Code: "77", Name: "Seine-et-Marne", BasePrice: price(750), BundleID: "grande-couronne"},
			{ID: "78", Code: "78", Name: "Yvelines", BasePrice: price(750), BundleID: "grande-couronne"},
			{ID: "91", Code: "91", Name: "Essonne", BasePrice: price(750), BundleID: "grande-couronne"},
			{ID: "95", Code: "95", Name: "Val-d'Oise", BasePrice: price(750), BundleID: "grande-couronne"},
		},
		Activities: []catalog.ActivityUnit{
			{ID: "gros-oeuvre", Name: "Gros œuvre", BasePrice: price(450)},
			{ID: "second-oeuvre", Name: "Second œuvre", BasePrice: price(350)},
			{ID: "electricite", Name: "Électricité", BasePrice: price(300)},
			{ID: "plomberie", Name: "Plomberie", BasePrice: price(300)},
			{ID: "menuiserie", Name: "Menuiserie", BasePrice: price(250)},
			{ID: "peinture", Name: "Peinture et revêtements", BasePrice: price(200)},
		},
		Bundles: []catalog.Bundle{
			{ID: "petite-couronne", Name: "Paris et petite couronne", Codes: []string{"75", "92", "93", "94"}},
			{ID: "grande-couronne", Name: "Grande couronne", Codes: []string{"77", "78", "91", "95"}},
		},
	}
}
