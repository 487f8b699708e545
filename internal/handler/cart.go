package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/cart"
)

// cartMutation is the request body for cart add/update calls.
type cartMutation struct {
	UserID    string
	ProductID string
	Quantity  int
}

func decodeCartMutation(r *http.Request) (cartMutation, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<16))
	if err != nil {
		return cartMutation{}, errors.Wrap(err, "read body")
	}

	var m cartMutation
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "userId":
			v, err := d.Str()
			m.UserID = v
			return err
		case "productId":
			v, err := d.Str()
			m.ProductID = v
			return err
		case "quantity":
			v, err := d.Int()
			m.Quantity = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return cartMutation{}, errors.Wrap(err, "decode body")
	}

	if m.UserID == "" || m.ProductID == "" {
		return cartMutation{}, errors.New("userId and productId are required")
	}
	return m, nil
}

// GetCart serves the cart read endpoint: the authoritative cart joined with
// catalog data.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	lines, err := h.carts.Detailed(r.Context(), userID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("data")
		e.ObjStart()
		e.FieldStart("items")
		e.ArrStart()
		for _, l := range lines {
			h.encodeCartLine(e, l)
		}
		e.ArrEnd()
		e.ObjEnd()
		e.ObjEnd()
	})
}

// AddToCart serves the additive cart mutate endpoint. The quantity in the
// body is a delta on top of whatever the user already holds.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	m, err := decodeCartMutation(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.carts.Add(r.Context(), m.UserID, m.ProductID, m.Quantity); err != nil {
		h.respondCartError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("message")
		e.Str("product added to cart")
		e.ObjEnd()
	})
}

// UpdateCartLine replaces a line's quantity with an absolute value.
func (h *Handler) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	m, err := decodeCartMutation(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.carts.SetQuantity(r.Context(), m.UserID, m.ProductID, m.Quantity); err != nil {
		h.respondCartError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("message")
		e.Str("cart updated")
		e.ObjEnd()
	})
}

// RemoveCartLine deletes a line from the user's cart.
func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	productID := chi.URLParam(r, "productID")

	if err := h.carts.Remove(r.Context(), userID, productID); err != nil {
		h.respondCartError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("message")
		e.Str("product removed from cart")
		e.ObjEnd()
	})
}

// respondCartError maps cart domain errors onto the failure envelope.
func (h *Handler) respondCartError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *cart.StockExceededError
	switch {
	case errors.As(err, &stockErr):
		respondError(w, r, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, r, http.StatusBadRequest, "quantity must be greater than 0")
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(w, r, http.StatusNotFound, "cart line not found")
	case isNotFound(err):
		respondError(w, r, http.StatusNotFound, "product not found")
	default:
		respondInternal(w, r, err)
	}
}

func (h *Handler) encodeCartLine(e *jx.Encoder, l cart.DetailedLine) {
	e.ObjStart()
	e.FieldStart("productId")
	e.Str(l.ProductID)
	e.FieldStart("title")
	e.Str(l.Title)
	e.FieldStart("image")
	e.Str(h.imageURL(l.Image))
	e.FieldStart("price")
	encodeDecimal(e, l.Price)
	e.FieldStart("salePrice")
	encodeDecimal(e, l.SalePrice)
	e.FieldStart("quantity")
	e.Int(l.Quantity)
	e.ObjEnd()
}
