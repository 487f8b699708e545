package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/order"
)

// Checkout turns the user's current cart into an order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<16))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "read body")
		return
	}

	var userID string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key == "userId" {
			v, err := d.Str()
			userID = v
			return err
		}
		return d.Skip()
	}); err != nil {
		respondError(w, r, http.StatusBadRequest, "decode body")
		return
	}
	if userID == "" {
		respondError(w, r, http.StatusBadRequest, "userId is required")
		return
	}

	o, err := h.orders.Checkout(r.Context(), userID)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			respondError(w, r, http.StatusBadRequest, "cart is empty")
			return
		}
		respondInternal(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("data")
		encodeOrder(e, *o)
		e.ObjEnd()
	})
}

// ListOrders returns the user's order history, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	orders, err := h.orders.History(r.Context(), userID)
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
		for _, o := range orders {
			encodeOrder(e, o)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("userId")
	e.Str(o.UserID)
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("total")
	encodeDecimal(e, o.Total)
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range o.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(it.ProductID)
		e.FieldStart("title")
		e.Str(it.Title)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.FieldStart("price")
		encodeDecimal(e, it.Price)
		e.ObjEnd()
	}
	e.ArrEnd()
	if !o.CreatedAt.IsZero() {
		e.FieldStart("createdAt")
		e.Str(o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	}
	e.ObjEnd()
}
