package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"dscatalog/internal/model"
	"dscatalog/internal/service"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

//go:embed static
var staticFiles embed.FS

// Handler serves the storefront pages.
type Handler struct {
	products    service.ProductService
	defaultLang language.Tag
	logger      zerolog.Logger
}

// NewHandler creates a storefront handler. defaultLang is used when a request
// names no supported language.
func NewHandler(products service.ProductService, defaultLang string, logger zerolog.Logger) *Handler {
	tag, ok := ParseTag(defaultLang)
	if !ok {
		tag = supported[0]
	}
	return &Handler{
		products:    products,
		defaultLang: tag,
		logger:      logger.With().Str("handler", "web").Logger(),
	}
}

// Register mounts the storefront routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Handle("/static/*", Static())
	r.Group(func(r chi.Router) {
		r.Use(h.Localize)
		r.Get("/", h.Home)
		r.Get("/products", h.Catalog)
		r.Get("/products/{id}", h.ProductDetail)
	})
}

// Static serves the embedded stylesheet and other assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Localize resolves the request language and stores its localizer in the
// request context.
func (h *Handler) Localize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tag, persist := ResolveTag(r, h.defaultLang)
		if persist {
			SetLanguageCookie(w, tag)
		}
		ctx := WithLocalizer(r.Context(), NewLocalizer(tag))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Home handles GET / requests.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/products", http.StatusFound)
}

// Catalog handles GET /products requests.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	loc := localizerFrom(r.Context())
	h.render(w, r, http.StatusOK, loc.Text(keyCatalogTitle), CatalogPage())
}

// ProductDetail handles GET /products/{id} requests.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	loc := localizerFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		h.render(w, r, http.StatusBadRequest, loc.Text(keyBadRequest), ErrorPage(http.StatusBadRequest))
		return
	}

	product, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrResourceNotFound) {
			h.render(w, r, http.StatusNotFound, loc.Text(keyNotFound), ErrorPage(http.StatusNotFound))
			return
		}
		h.logger.Error().Err(err).Int64("product_id", id).Msg("failed to load product")
		h.render(w, r, http.StatusInternalServerError, loc.Text(keyInternalError), ErrorPage(http.StatusInternalServerError))
		return
	}

	h.render(w, r, http.StatusOK, product.Name, ProductDetailPage(*product))
}

// render writes page inside the layout. The page is rendered into a buffer
// first so a failed render never leaves a partial document.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, page templ.Component) {
	loc := localizerFrom(r.Context())

	var buf bytes.Buffer
	ctx := templ.WithChildren(r.Context(), page)
	if err := Layout(title+" | "+loc.Text(keyAppName)).Render(ctx, &buf); err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// RenderString renders c to a string with the localizer for tag.
func RenderString(ctx context.Context, tag language.Tag, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(WithLocalizer(ctx, NewLocalizer(tag)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
