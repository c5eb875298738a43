package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/metrics"
	"github.com/bher20/quotemanager/internal/pricing"
	"github.com/bher20/quotemanager/internal/selection"
)

// CatalogDTO summarizes a catalog in listings.
type CatalogDTO struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Vertical   string `json:"vertical,omitempty"`
	Currency   string `json:"currency"`
	Geographic int    `json:"geographic"`
	Activities int    `json:"activities"`
	Bundles    int    `json:"bundles"`
}

// listCatalogs lists registered catalogs
// @Summary List catalogs
// @Tags catalogs
// @Produce json
// @Success 200 {array} CatalogDTO
// @Router /api/v1/catalogs [get]
func (s *server) listCatalogs(w http.ResponseWriter, r *http.Request) {
	cats := s.catalogs.List()
	list := make([]CatalogDTO, 0, len(cats))
	for _, c := range cats {
		list = append(list, CatalogDTO{
			Key:        c.Key,
			Name:       c.Name,
			Vertical:   c.Vertical,
			Currency:   c.Currency,
			Geographic: len(c.Geographic),
			Activities: len(c.Activities),
			Bundles:    len(c.Bundles),
		})
	}
	writeJSON(w, http.StatusOK, list)
}

// getCatalog returns one catalog with all its units
// @Summary Get a catalog
// @Tags catalogs
// @Produce json
// @Param key path string true "Catalog key"
// @Success 200 {object} catalog.Catalog
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/catalogs/{key} [get]
func (s *server) getCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalogs.Get(r.PathValue("key"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// refreshCatalogs reloads catalogs from storage
// @Summary Refresh catalogs
// @Tags catalogs
// @Produce json
// @Success 200 {object} map[string]int
// @Router /api/v1/catalogs/refresh [post]
func (s *server) refreshCatalogs(w http.ResponseWriter, r *http.Request) {
	n, err := s.catalogs.Refresh(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"catalogs": n})
}

// EstimateRequest prices a selection without creating a session.
type EstimateRequest struct {
	Catalog    string   `json:"catalog"`
	Geographic []string `json:"geographic"`
	Activities []string `json:"activities"`
	Term       string   `json:"term,omitempty"`
}

// estimate prices a selection statelessly
// @Summary Estimate a quote
// @Tags estimate
// @Accept json
// @Produce json
// @Param request body EstimateRequest true "Selection"
// @Success 200 {object} pricing.Breakdown
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/estimate [post]
func (s *server) estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cat, err := s.catalogs.Get(req.Catalog)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	term := selection.Monthly
	if req.Term != "" {
		if term, err = selection.ParseBillingTerm(req.Term); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	b := pricing.Estimate(selection.FromLists(req.Geographic, req.Activities, term), cat)
	metrics.ObserveEstimate(cat.Key, string(term), len(b.Unresolved))
	s.warnUnresolved(cat, b)
	writeJSON(w, http.StatusOK, b)
}

func (s *server) warnUnresolved(cat *catalog.Catalog, b pricing.Breakdown) {
	if len(b.Unresolved) > 0 {
		s.log.Warn("selection references units missing from catalog",
			zap.String("catalog", cat.Key), zap.Strings("unresolved", b.Unresolved))
	}
}
