package service

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"dscatalog/internal/model"

	"github.com/shopspring/decimal"
)

// Product field limits.
const (
	minNameLength = 5
	maxNameLength = 60
	priceDecimals = 2
)

// maxPrice is the largest value the NUMERIC(12,2) price column holds.
var maxPrice = decimal.RequireFromString("9999999999.99")

// validateProduct returns a validation error listing every invalid field,
// or nil when the product is valid.
func validateProduct(p *model.Product) error {
	var fields []model.FieldError
	add := func(field, message string) {
		fields = append(fields, model.FieldError{Field: field, Message: message})
	}

	nameLength := utf8.RuneCountInString(strings.TrimSpace(p.Name))
	if nameLength < minNameLength || nameLength > maxNameLength {
		add("name", "name must be between 5 and 60 characters")
	}

	if strings.TrimSpace(p.Description) == "" {
		add("description", "description is required")
	}

	price := decimal.NewFromFloat(p.Price)
	if !price.IsPositive() {
		add("price", "price must be positive")
	} else if price.GreaterThan(maxPrice) {
		add("price", "price must not exceed 9999999999.99")
	} else if !price.Equal(price.Round(priceDecimals)) {
		add("price", "price must have at most 2 decimal places")
	}

	if !isAbsoluteHTTPURL(p.ImgURL) {
		add("imgUrl", "imgUrl must be an absolute http or https URL")
	}

	if p.Date.IsZero() {
		add("date", "date is required")
	}

	if len(p.Categories) == 0 {
		add("categories", "product must have at least one category")
	}

	if len(fields) == 0 {
		return nil
	}

	return &model.DomainError{
		Code:    model.ErrCodeValidation,
		Message: "Validation error",
		Fields:  fields,
	}
}

// validateCategory checks a category name.
func validateCategory(c *model.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return model.NewValidationError("name", "name is required")
	}
	return nil
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
