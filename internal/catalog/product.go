package catalog

// Product is one storefront listing. The catalog file is the only source;
// records are never written back.
type Product struct {
	ID          int      `json:"id" validate:"gt=0"`
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Price       int      `json:"price" validate:"gte=0"`
	Image       string   `json:"image" validate:"required"`
	Size        string   `json:"size"`
	Description string   `json:"description"`
	Notes       []string `json:"notes"`
}

// CategoryAll matches every product when passed to List.
const CategoryAll = "all"
