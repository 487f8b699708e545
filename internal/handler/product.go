package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/product"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// ListProducts serves the catalog fetch endpoint. Facet dimensions arrive as
// comma-joined query parameters (category=bridal,saree&Price=under_1000);
// unknown facet values are dropped, never an error.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := parseCatalogQuery(r)

	page, err := h.products.Search(r.Context(), q)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("data")
		e.ArrStart()
		for _, p := range page.Items {
			h.encodeProduct(e, p)
		}
		e.ArrEnd()
		e.FieldStart("pagination")
		encodePagination(e, page.Pagination)
		e.ObjEnd()
	})
}

// GetProduct serves a single catalog item.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("data")
		h.encodeProduct(e, *p)
		e.ObjEnd()
	})
}

// parseCatalogQuery extracts facets, sort, and pagination from the request.
// Dimension names are matched case-insensitively because the storefront
// historically sent both "category" and "Category".
func parseCatalogQuery(r *http.Request) product.Query {
	q := product.Query{
		Sort:     product.SortPriceLowToHigh,
		Page:     1,
		PageSize: defaultPageSize,
	}

	for key, vals := range r.URL.Query() {
		switch strings.ToLower(key) {
		case "category":
			for _, raw := range splitFacet(vals) {
				if c, ok := product.ParseCategory(raw); ok {
					q.Categories = append(q.Categories, c)
				}
			}
		case "price":
			for _, raw := range splitFacet(vals) {
				if b, ok := product.ParsePriceBucket(raw); ok {
					q.PriceBuckets = append(q.PriceBuckets, b)
				}
			}
		case "sortby":
			if len(vals) > 0 {
				if s, ok := product.ParseSortKey(vals[0]); ok {
					q.Sort = s
				}
			}
		case "page":
			if len(vals) > 0 {
				if n, err := strconv.Atoi(vals[0]); err == nil && n > 0 {
					q.Page = n
				}
			}
		case "limit":
			if len(vals) > 0 {
				if n, err := strconv.Atoi(vals[0]); err == nil && n > 0 && n <= maxPageSize {
					q.PageSize = n
				}
			}
		}
	}
	return q
}

// splitFacet flattens comma-joined facet parameters into individual values.
func splitFacet(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *Handler) encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("title")
	e.Str(p.Title)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("category")
	e.Str(string(p.Category))
	e.FieldStart("categoryLabel")
	e.Str(p.Category.Label())
	e.FieldStart("price")
	encodeDecimal(e, p.Price)
	e.FieldStart("salePrice")
	encodeDecimal(e, p.SalePrice)
	e.FieldStart("totalStock")
	e.Int(p.TotalStock)
	e.FieldStart("images")
	e.ArrStart()
	for _, img := range p.Images {
		e.Str(h.imageURL(img))
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodePagination(e *jx.Encoder, p product.Pagination) {
	e.ObjStart()
	e.FieldStart("currentPage")
	e.Int(p.CurrentPage)
	e.FieldStart("totalPages")
	e.Int(p.TotalPages)
	e.FieldStart("totalProducts")
	e.Int(p.TotalProducts)
	e.FieldStart("hasNext")
	e.Bool(p.HasNext)
	e.FieldStart("hasPrev")
	e.Bool(p.HasPrev)
	e.ObjEnd()
}
