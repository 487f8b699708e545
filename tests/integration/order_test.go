//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCheckout(t *testing.T) {
	user := "checkout-user"

	resp := doPost(t, "/api/shop/cart/add", cartMutation{UserID: user, ProductID: "kurti-cotton-indigo", Quantity: 2})
	resp.Body.Close()
	resp = doPost(t, "/api/shop/cart/add", cartMutation{UserID: user, ProductID: "accessory-potli-gold", Quantity: 1})
	resp.Body.Close()

	resp = doPost(t, "/api/shop/orders", map[string]string{"userId": user})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeJSON[envelope[orderResponse]](t, resp)
	ord := body.Data
	if ord.ID == "" {
		t.Error("order id is empty")
	}
	if ord.Status != "pending" {
		t.Errorf("status: got %q, want pending", ord.Status)
	}
	if len(ord.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(ord.Items))
	}

	// Kurti sells at its sale price (749 x 2), potli at full price (649).
	want := 749.00*2 + 649.00
	if ord.Total != want {
		t.Errorf("total: got %v, want %v", ord.Total, want)
	}

	// Checkout empties the cart.
	resp2 := doGet(t, "/api/shop/cart/"+user)
	cart := decodeJSON[envelope[cartResponse]](t, resp2)
	resp2.Body.Close()
	if len(cart.Data.Items) != 0 {
		t.Errorf("expected empty cart after checkout, got %d lines", len(cart.Data.Items))
	}

	// The order shows up in history.
	resp3 := doGet(t, "/api/shop/orders/"+user)
	history := decodeJSON[envelope[[]orderResponse]](t, resp3)
	resp3.Body.Close()
	if len(history.Data) == 0 {
		t.Fatal("order history is empty")
	}
	if history.Data[0].ID != ord.ID {
		t.Errorf("newest order: got %q, want %q", history.Data[0].ID, ord.ID)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	resp := doPost(t, "/api/shop/orders", map[string]string{"userId": "empty-cart-user"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[envelope[struct{}]](t, resp)
	if body.Success {
		t.Error("expected success=false")
	}
}
