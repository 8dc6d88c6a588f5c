// Copyright The Filmfolio Authors.
// SPDX-License-Identifier: MIT

package middleware

import "net/http"

// BodyLimitMiddleware creates a middleware that caps the request body size.
// Reads past the limit fail, which surfaces as a malformed-body error in
// the handler rather than unbounded memory or disk use.
func BodyLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
