// Package pricing computes subscription quotes from a selection and a catalog.
//
// Geographic units and activities are priced against each other. An
// activity's price is multiplied by the number of selected territories, and a
// territory costs its base price plus 20% of that price per selected
// territory. Complete bundles earn 15% off their members' base prices and
// annual billing takes a further 15% off what remains.
//
// Estimate is pure and recomputes everything on each call.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/selection"
)

var (
	// SurchargeRate is applied per unit of activity multiplier to each
	// geographic unit's base price.
	SurchargeRate = decimal.RequireFromString("0.2")
	// BundleDiscountRate is taken off the summed base prices of a complete bundle.
	BundleDiscountRate = decimal.RequireFromString("0.15")
	// AnnualFactor scales the post-bundle subtotal for annual billing.
	AnnualFactor = decimal.RequireFromString("0.85")
)

// LineKind classifies a breakdown line.
type LineKind string

const (
	LineGeographic LineKind = "geographic"
	LineActivity   LineKind = "activity"
	LineBundle     LineKind = "bundle"
)

// Line is one itemized contribution. Bundle lines carry a positive discount
// amount that is subtracted from the total.
type Line struct {
	Kind      LineKind        `json:"kind"`
	Ref       string          `json:"ref"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Breakdown is the full, unrounded result of an estimation.
type Breakdown struct {
	GeographicSubtotal   decimal.Decimal       `json:"geographic_subtotal"`
	ActivitySubtotal     decimal.Decimal       `json:"activity_subtotal"`
	BundleDiscount       decimal.Decimal       `json:"bundle_discount"`
	TermDiscount         decimal.Decimal       `json:"term_discount"`
	Total                decimal.Decimal       `json:"total"`
	ActivityMultiplier   int                   `json:"activity_multiplier"`
	GeographicMultiplier int                   `json:"geographic_multiplier"`
	Term                 selection.BillingTerm `json:"term"`
	Lines                []Line                `json:"lines"`
	CompletedBundles     []string              `json:"completed_bundles"`
	Unresolved           []string              `json:"unresolved,omitempty"`
}

// Subtotal returns the pre-term amount: geographic plus activity minus bundle discount.
func (b Breakdown) Subtotal() decimal.Decimal {
	return b.GeographicSubtotal.Add(b.ActivitySubtotal).Sub(b.BundleDiscount)
}

// Estimate prices sel against cat. Codes and ids absent from cat contribute
// nothing and are listed in Unresolved as "geographic:<code>" or
// "activity:<id>". Without at least one known activity every amount is zero.
func Estimate(sel *selection.Selection, cat *catalog.Catalog) Breakdown {
	out := Breakdown{
		GeographicSubtotal: decimal.Zero,
		ActivitySubtotal:   decimal.Zero,
		BundleDiscount:     decimal.Zero,
		TermDiscount:       decimal.Zero,
		Total:              decimal.Zero,
		Term:               sel.BillingTerm(),
		Lines:              []Line{},
		CompletedBundles:   []string{},
	}

	var geos []catalog.GeographicUnit
	for _, code := range sel.GeographicCodes() {
		g, ok := cat.GeographicByCode(code)
		if !ok {
			out.Unresolved = append(out.Unresolved, "geographic:"+code)
			continue
		}
		geos = append(geos, g)
	}
	var acts []catalog.ActivityUnit
	for _, id := range sel.ActivityIDs() {
		a, ok := cat.ActivityByID(id)
		if !ok {
			out.Unresolved = append(out.Unresolved, "activity:"+id)
			continue
		}
		acts = append(acts, a)
	}

	out.ActivityMultiplier = max(len(geos), 1)
	out.GeographicMultiplier = max(len(acts), 1)

	if len(acts) == 0 {
		return out
	}

	activityMultiplier := decimal.NewFromInt(int64(out.ActivityMultiplier))
	geoActivityFactor := activityMultiplier.Mul(SurchargeRate)

	for _, a := range acts {
		amount := a.BasePrice.Mul(activityMultiplier)
		out.ActivitySubtotal = out.ActivitySubtotal.Add(amount)
		out.Lines = append(out.Lines, Line{Kind: LineActivity, Ref: a.ID, Name: a.Name, BasePrice: a.BasePrice, Amount: amount})
	}

	for _, g := range geos {
		amount := g.BasePrice.Mul(geoActivityFactor).Add(g.BasePrice)
		out.GeographicSubtotal = out.GeographicSubtotal.Add(amount)
		out.Lines = append(out.Lines, Line{Kind: LineGeographic, Ref: g.Code, Name: g.Name, BasePrice: g.BasePrice, Amount: amount})
	}

	// A unit earns at most one bundle discount, even when an unvalidated
	// catalog lists it in several bundles.
	credited := make(map[string]bool)
	for _, b := range cat.Bundles {
		if !sel.IsBundleComplete(b) {
			continue
		}
		base := decimal.Zero
		for _, m := range cat.BundleMembers(b.ID) {
			if credited[m.Code] {
				continue
			}
			credited[m.Code] = true
			base = base.Add(m.BasePrice)
		}
		discount := base.Mul(BundleDiscountRate)
		out.BundleDiscount = out.BundleDiscount.Add(discount)
		out.CompletedBundles = append(out.CompletedBundles, b.ID)
		out.Lines = append(out.Lines, Line{Kind: LineBundle, Ref: b.ID, Name: b.Name, BasePrice: base, Amount: discount})
	}

	subtotal := out.Subtotal()
	out.Total = subtotal
	if sel.BillingTerm() == selection.Annual {
		out.Total = subtotal.Mul(AnnualFactor)
		out.TermDiscount = subtotal.Sub(out.Total)
	}
	return out
}
