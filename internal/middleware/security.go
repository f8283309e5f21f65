// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders adds defensive HTTP headers to every response. The API
// only ever returns JSON, so these mostly harden the case of a catalog
// URL being opened directly in a browser.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// Responses are JSON; never let the browser second-guess that.
		h.Set("X-Content-Type-Options", "nosniff")

		// Node views have no business rendering inside foreign frames.
		h.Set("X-Frame-Options", "SAMEORIGIN")

		// The legacy XSS filter is obsolete and exploitable; keep it off.
		h.Set("X-XSS-Protection", "0")

		// Keep full node URLs (which embed catalog ids) out of
		// third-party Referer headers.
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Opt out of FLoC cohort calculations.
		h.Set("Permissions-Policy", "interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}
