package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/product"
)

// decodeProductBody reads an admin product payload. All prices travel as
// JSON numbers; image URLs are opaque strings from the upload pipeline.
func decodeProductBody(r *http.Request) (*product.Product, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	var p product.Product
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "title":
			v, err := d.Str()
			p.Title = v
			return err
		case "description":
			v, err := d.Str()
			p.Description = v
			return err
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			c, ok := product.ParseCategory(v)
			if !ok {
				return errors.Errorf("unknown category %q", v)
			}
			p.Category = c
			return nil
		case "price":
			v, err := d.Float64()
			if err != nil {
				return err
			}
			p.Price = decimal.NewFromFloat(v)
			return nil
		case "salePrice":
			v, err := d.Float64()
			if err != nil {
				return err
			}
			p.SalePrice = decimal.NewFromFloat(v)
			return nil
		case "totalStock":
			v, err := d.Int()
			p.TotalStock = v
			return err
		case "images":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				p.Images = append(p.Images, v)
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode body")
	}

	if p.Title == "" {
		return nil, errors.New("title is required")
	}
	if !p.Price.IsPositive() {
		return nil, errors.New("price must be greater than 0")
	}
	if p.TotalStock < 0 {
		return nil, errors.New("totalStock must not be negative")
	}
	return &p, nil
}

// CreateProduct adds a product to the catalog. A missing ID gets generated
// server-side by the repository caller.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProductBody(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if p.ID == "" {
		respondError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.products.Upsert(r.Context(), p); err != nil {
		respondInternal(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("data")
		h.encodeProduct(e, *p)
		e.ObjEnd()
	})
}

// UpdateProduct replaces a catalog product. The path ID wins over any ID in
// the body.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProductBody(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = chi.URLParam(r, "productID")

	if _, err := h.products.GetByID(r.Context(), p.ID); err != nil {
		if isNotFound(err) {
			respondError(w, r, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	if err := h.products.Upsert(r.Context(), p); err != nil {
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

// DeleteProduct removes a catalog product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	if err := h.products.Delete(r.Context(), id); err != nil {
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
		e.FieldStart("message")
		e.Str("product deleted")
		e.ObjEnd()
	})
}
