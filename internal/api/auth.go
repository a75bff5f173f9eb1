// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// RequireTriggerSecret guards the mutating trigger surface (sync jobs, admin
// overrides) with a shared bearer secret. An empty secret disables the check
// entirely; the read surface is never guarded.
func RequireTriggerSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				NewResponseWriter(w, r).Unauthorized("Invalid or missing trigger secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
