package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"go-blog-app/internal/data"
)

const localeContextKey = contextKey("locale")

// matcher negotiates Accept-Language against the supported site locales.
// French first: it is the default when nothing usable is sent.
var matcher = language.NewMatcher([]language.Tag{
	language.French,
	language.English,
	language.Spanish,
})

// Locale validates the {locale} URL parameter and stores it in the request
// context. An unsupported code is a 404: locale prefixes form the public URL
// space and unknown ones do not exist.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := chi.URLParam(r, "locale")
		if !data.IsSupportedLocale(locale) {
			http.NotFound(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), localeContextKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLocale retrieves the request locale, falling back to the site default.
func GetLocale(ctx context.Context) string {
	if locale, ok := ctx.Value(localeContextKey).(string); ok {
		return locale
	}
	return data.DefaultLocale
}

// NegotiateLocale picks the best supported locale for a request without a
// locale prefix, from its Accept-Language header.
func NegotiateLocale(r *http.Request) string {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return data.DefaultLocale
	}
	_, index, _ := matcher.Match(tags...)
	return data.Locales[index]
}
