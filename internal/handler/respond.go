package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// respond writes a JSON body built with the given encoder callback.
func respond(w http.ResponseWriter, r *http.Request, status int, build func(e *jx.Encoder)) {
	var e jx.Encoder
	build(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Debug("Write response", zap.Error(err))
	}
}

// respondError writes the failure envelope used across the API.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(false)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// respondInternal logs the error and writes an opaque 500 envelope.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	respondError(w, r, http.StatusInternalServerError, "internal server error")
}

// encodeDecimal writes a decimal as a JSON number with two fractional digits.
func encodeDecimal(e *jx.Encoder, d interface{ StringFixed(int32) string }) {
	e.Num(jx.Num(d.StringFixed(2)))
}
