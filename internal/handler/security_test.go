package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/auth"
)

type fakeAPIKeys struct {
	byHash map[string]*auth.APIKeyInfo
}

func (f *fakeAPIKeys) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	info, ok := f.byHash[hash]
	if !ok {
		return nil, errors.New("api key not found")
	}
	return info, nil
}

func hashKey(key, pepper string) string {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRequireAPIKey(t *testing.T) {
	const (
		pepper   = "test-pepper"
		validKey = "valid-key"
	)

	repo := &fakeAPIKeys{byHash: map[string]*auth.APIKeyInfo{
		hashKey(validKey, pepper): {
			ID:      "k1",
			KeyHash: hashKey(validKey, pepper),
			Name:    "test",
			Scopes:  []string{"manage_products"},
		},
	}}
	sec := NewSecurity(repo, []byte(pepper))

	var reached bool
	protected := sec.RequireAPIKey(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		key  string
		code int
		pass bool
	}{
		{"valid key", validKey, http.StatusOK, true},
		{"missing key", "", http.StatusUnauthorized, false},
		{"wrong key", "not-the-key", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
			if tt.key != "" {
				req.Header.Set("api_key", tt.key)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.pass, reached)
		})
	}
}
