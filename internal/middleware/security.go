// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// contentSecurityPolicy covers both surfaces this server has: the
// embedded client bundle (scripts and styles come only from ourselves)
// and cover images, which may live on an external object storage host,
// so img-src admits any https origin plus data URIs for inline
// placeholders.
const contentSecurityPolicy = "default-src 'self'; img-src 'self' https: data:; object-src 'none'; frame-ancestors 'none'"

// SecureHeaders adds defensive HTTP headers to every response.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// Never MIME-sniff; JSON bodies must not be reinterpreted.
		h.Set("X-Content-Type-Options", "nosniff")

		// Nothing here is meant to be framed.
		h.Set("X-Frame-Options", "DENY")

		h.Set("Content-Security-Policy", contentSecurityPolicy)

		// Keep full referrers on-site only.
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
