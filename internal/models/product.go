package models

// Product represents a jewellery catalog item.
// Price is the authoritative catalog price; client-submitted prices are
// never trusted anywhere in the system.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
	InStock  *bool   `json:"in_stock"`
	Category string  `json:"category,omitempty"`
}

// Available reports whether the product can be ordered. A missing
// in_stock value counts as in stock; only an explicit false disqualifies.
func (p Product) Available() bool {
	return p.InStock == nil || *p.InStock
}
