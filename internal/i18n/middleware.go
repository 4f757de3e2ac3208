// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package i18n carries the request's preferred language so generated coaching
// text comes back in it.
package i18n

import (
	"context"
	"net/http"
	"strings"
)

type languageKey struct{}

// Middleware stores the first Accept-Language tag on the request context.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lng, _, _ := strings.Cut(r.Header.Get("Accept-Language"), ",")
			lng = strings.TrimSpace(lng)
			if lng != "" {
				r = r.WithContext(context.WithValue(r.Context(), languageKey{}, lng))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserLanguage returns the request's preferred language tag, or empty if the
// request did not carry one.
func UserLanguage(ctx context.Context) string {
	lng, _ := ctx.Value(languageKey{}).(string)
	return lng
}
