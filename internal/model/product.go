package model

import "time"

// Product represents an item in the catalogue.
type Product struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	ImgURL      string     `json:"imgUrl" db:"img_url"`
	Date        time.Time  `json:"date" db:"date"`
	Categories  []Category `json:"categories"`
}

// CategoryIDs returns the IDs of the product categories in order.
func (p *Product) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
