package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "lang"
)

// Message keys.
const (
	keyAppName       = "app.name"
	keyCatalogTitle  = "catalog.title"
	keyBack          = "product.back"
	keyCategories    = "product.categories"
	keyNotFound      = "error.not_found"
	keyBadRequest    = "error.bad_request"
	keyInternalError = "error.internal"
)

// supported lists the storefront languages. The first entry is the fallback
// when no configured default is given.
var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var matcher = language.NewMatcher(supported)

func init() {
	pt := language.BrazilianPortuguese
	message.SetString(pt, keyAppName, "DS Catalog")
	message.SetString(pt, keyCatalogTitle, "Catálogo de produtos")
	message.SetString(pt, keyBack, "Voltar")
	message.SetString(pt, keyCategories, "Categorias")
	message.SetString(pt, keyNotFound, "Produto não encontrado")
	message.SetString(pt, keyBadRequest, "Requisição inválida")
	message.SetString(pt, keyInternalError, "Erro inesperado")

	en := language.English
	message.SetString(en, keyAppName, "DS Catalog")
	message.SetString(en, keyCatalogTitle, "Product catalog")
	message.SetString(en, keyBack, "Back")
	message.SetString(en, keyCategories, "Categories")
	message.SetString(en, keyNotFound, "Product not found")
	message.SetString(en, keyBadRequest, "Bad request")
	message.SetString(en, keyInternalError, "Unexpected error")
}

// Localizer prints storefront messages and prices for one language.
type Localizer struct {
	Tag     language.Tag
	printer *message.Printer
}

// NewLocalizer returns a localizer for tag.
func NewLocalizer(tag language.Tag) *Localizer {
	return &Localizer{Tag: tag, printer: message.NewPrinter(tag)}
}

// Text returns the translated message for key.
func (l *Localizer) Text(key string) string {
	return l.printer.Sprintf(key)
}

// Price formats an amount with two decimal places using the language's
// separators, e.g. 2.190,00 in pt-BR and 2,190.00 in en.
func (l *Localizer) Price(amount float64) string {
	return l.printer.Sprintf("%v", number.Decimal(amount, number.Scale(2)))
}

type localizerKey struct{}

// WithLocalizer stores loc in ctx for the components.
func WithLocalizer(ctx context.Context, loc *Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, loc)
}

// localizerFrom returns the localizer in ctx, or a pt-BR one.
func localizerFrom(ctx context.Context) *Localizer {
	if loc, ok := ctx.Value(localizerKey{}).(*Localizer); ok && loc != nil {
		return loc
	}
	return NewLocalizer(supported[0])
}

// ParseTag matches value against the supported languages.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	return matchTags(tag)
}

func matchTags(tags ...language.Tag) (language.Tag, bool) {
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// ResolveTag picks the language for r: the lang query parameter, then the lang
// cookie, then Accept-Language, then fallback. The bool reports whether the
// choice came from the query and should be persisted as a cookie.
func ResolveTag(r *http.Request, fallback language.Tag) (language.Tag, bool) {
	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if tag, ok := matchTags(tags...); ok {
				return tag, false
			}
		}
	}

	return fallback, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
