package web

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"dscatalog/internal/model"

	"github.com/a-h/templ"
)

// catalogCells is the number of grid cells on the catalog page.
const catalogCells = 4

// catalogLinkTarget is the detail route every catalog card links to.
const catalogLinkTarget = "/products/1"

// catalogProduct builds the product shown on the catalog page. A new value is
// built on every call.
func catalogProduct() model.Product {
	return model.Product{
		ID:          2,
		Name:        "Smart TV",
		Description: "Lorem ipsum dolor sit amet consectetur adipisicing elit.Nisi quas eos beatae minima culpa perspiciatis",
		Price:       2190.0,
		ImgURL:      "https://raw.githubusercontent.com/devsuperior/dscatalog-resources/master/backend/img/2-big.jpg",
		Date:        time.Date(2020, 7, 14, 10, 0, 0, 0, time.UTC),
		Categories: []model.Category{
			{ID: 1, Name: "Livros"},
			{ID: 3, Name: "Computadores"},
		},
	}
}

// Layout renders the HTML document around its children.
func Layout(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)
		loc := localizerFrom(ctx)

		if err := write(w,
			`<!DOCTYPE html><html lang="`, templ.EscapeString(loc.Tag.String()), `">`,
			`<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(title), `</title>`,
			`<link rel="stylesheet" href="/static/css/catalog.css"></head>`,
			`<body><nav class="main-nav"><a href="/products" class="nav-logo-text">`, templ.EscapeString(loc.Text(keyAppName)), `</a></nav>`,
			`<main>`,
		); err != nil {
			return err
		}
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</main></body></html>`)
	})
}

// NavLink wraps child in a link to href.
func NavLink(href string, child templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<a href="`, templ.EscapeString(string(templ.URL(href))), `">`); err != nil {
			return err
		}
		if child != nil {
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</a>`)
	})
}

// ProductCard renders the image, name and price of p.
func ProductCard(p model.Product) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		loc := localizerFrom(ctx)
		return write(w,
			`<div class="base-card product-card" data-product-id="`, strconv.FormatInt(p.ID, 10), `">`,
			`<div class="card-top-container"><img src="`, templ.EscapeString(p.ImgURL), `" alt="`, templ.EscapeString(p.Name), `"></div>`,
			`<div class="card-bottom-container"><h6>`, templ.EscapeString(p.Name), `</h6>`,
			`<div class="product-price-container"><span>R$</span><h3>`, templ.EscapeString(loc.Price(p.Price)), `</h3></div>`,
			`</div></div>`,
		)
	})
}

// CatalogPage renders the catalog title and a grid of product cards.
func CatalogPage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		loc := localizerFrom(ctx)
		product := catalogProduct()

		if err := write(w,
			`<div class="container my-4 catalog-container">`,
			`<div class="row catalog-title-container"><h1>`, templ.EscapeString(loc.Text(keyCatalogTitle)), `</h1></div>`,
			`<div class="row">`,
		); err != nil {
			return err
		}
		for range catalogCells {
			if err := write(w, `<div class="col-sm-6 col-lg-4 col-xl-3">`); err != nil {
				return err
			}
			if err := NavLink(catalogLinkTarget, ProductCard(product)).Render(ctx, w); err != nil {
				return err
			}
			if err := write(w, `</div>`); err != nil {
				return err
			}
		}
		return write(w, `</div></div>`)
	})
}

// ProductDetailPage renders a single product with its description and categories.
func ProductDetailPage(p model.Product) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		loc := localizerFrom(ctx)

		if err := write(w, `<div class="product-details-container"><div class="base-card product-details-card">`,
			`<div class="goback-container">`); err != nil {
			return err
		}
		back := templ.Raw(`<span class="goback-text">` + templ.EscapeString(loc.Text(keyBack)) + `</span>`)
		if err := NavLink("/products", back).Render(ctx, w); err != nil {
			return err
		}
		if err := write(w,
			`</div><div class="row"><div class="col-xl-6">`,
			`<div class="img-container"><img src="`, templ.EscapeString(p.ImgURL), `" alt="`, templ.EscapeString(p.Name), `"></div>`,
			`<div class="name-price-container"><h1>`, templ.EscapeString(p.Name), `</h1>`,
			`<div class="product-price-container"><span>R$</span><h3>`, templ.EscapeString(loc.Price(p.Price)), `</h3></div></div>`,
			`</div><div class="col-xl-6"><div class="description-container">`,
			`<p>`, templ.EscapeString(p.Description), `</p>`,
			`<h2>`, templ.EscapeString(loc.Text(keyCategories)), `</h2><ul class="category-list">`,
		); err != nil {
			return err
		}
		for _, c := range p.Categories {
			if err := write(w, `<li>`, templ.EscapeString(c.Name), `</li>`); err != nil {
				return err
			}
		}
		return write(w, `</ul></div></div></div></div></div>`)
	})
}

// ErrorPage renders a localized message for status.
func ErrorPage(status int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		loc := localizerFrom(ctx)
		key := keyInternalError
		switch status {
		case http.StatusNotFound:
			key = keyNotFound
		case http.StatusBadRequest:
			key = keyBadRequest
		}
		if err := write(w, `<div class="container my-4 error-container"><h1>`, strconv.Itoa(status), `</h1><p>`,
			templ.EscapeString(loc.Text(key)), `</p>`); err != nil {
			return err
		}
		back := templ.Raw(templ.EscapeString(loc.Text(keyBack)))
		if err := NavLink("/products", back).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</div>`)
	})
}

// write writes parts to w in order, stopping at the first error.
func write(w io.Writer, parts ...string) error {
	for _, part := range parts {
		if _, err := io.WriteString(w, part); err != nil {
			return err
		}
	}
	return nil
}
