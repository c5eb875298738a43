package catalog

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	pdf "github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
)

var (
	// Département 75 - Paris : 950,00 € [Petite Couronne]
	geoLineRe = regexp.MustCompile(`(?mi)^[ \t]*d[ée]partement[ \t]+([0-9A-Za-z]+)[ \t]*[-–][ \t]*(.+?)[ \t]*:[ \t]*([0-9][0-9 \t\x{00A0}\x{202F}.,]*?)[ \t]*(?:€|eur)?[ \t]*(?:\[(.+?)\])?[ \t]*$`)
	// Activité gros-oeuvre - Gros œuvre : 450,00 €
	activityLineRe = regexp.MustCompile(`(?mi)^[ \t]*activit[ée][ \t]+(\S+)[ \t]*[-–][ \t]*(.+?)[ \t]*:[ \t]*([0-9][0-9 \t\x{00A0}\x{202F}.,]*?)[ \t]*(?:€|eur)?[ \t]*$`)
	// Catalogue : Construction Île-de-France
	titleLineRe = regexp.MustCompile(`(?mi)^[ \t]*catalogue[ \t]*:[ \t]*(.+?)[ \t]*$`)
)

// ParsePDF opens a published tariff sheet, extracts its text and delegates
// to ParseText.
func ParsePDF(path, key string) (*Catalog, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	rc, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	return ParseText(key, buf.String())
}

// ParseText builds a catalog from the plain-text form of a tariff sheet.
// Bundles are derived from the bracketed group names on department lines.
func ParseText(key, text string) (*Catalog, error) {
	c := &Catalog{Key: key, Name: key, Currency: "EUR"}
	if m := titleLineRe.FindStringSubmatch(text); len(m) == 2 {
		c.Name = m[1]
	}

	bundleIdx := make(map[string]int)
	for _, m := range geoLineRe.FindAllStringSubmatch(text, -1) {
		price, err := parseAmount(m[3])
		if err != nil {
			return nil, fmt.Errorf("department %s: %w", m[1], err)
		}
		g := GeographicUnit{ID: m[1], Code: m[1], Name: m[2], BasePrice: price}
		if group := strings.TrimSpace(m[4]); group != "" {
			id := slugify(group)
			i, ok := bundleIdx[id]
			if !ok {
				i = len(c.Bundles)
				bundleIdx[id] = i
				c.Bundles = append(c.Bundles, Bundle{ID: id, Name: group})
			}
			c.Bundles[i].Codes = append(c.Bundles[i].Codes, g.Code)
			g.BundleID = id
		}
		c.Geographic = append(c.Geographic, g)
	}

	for _, m := range activityLineRe.FindAllStringSubmatch(text, -1) {
		price, err := parseAmount(m[3])
		if err != nil {
			return nil, fmt.Errorf("activity %s: %w", m[1], err)
		}
		c.Activities = append(c.Activities, ActivityUnit{ID: m[1], Name: m[2], BasePrice: price})
	}

	if len(c.Geographic) == 0 && len(c.Activities) == 0 {
		return nil, fmt.Errorf("no tariff lines found for catalog %s", key)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// parseAmount accepts "1 250,50", "1250.50" and "950".
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return d, nil
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == 'é' || r == 'è' || r == 'ê':
			b.WriteRune('e')
			dash = false
		case r == 'î':
			b.WriteRune('i')
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
