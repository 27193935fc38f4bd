package cart

import "github.com/lendom/storefront-backend/internal/catalog"

// Line is one product's aggregated quantity in the cart. Name, price and
// image are captured at add-time and never re-fetched from the catalog.
type Line struct {
	ProductID int    `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}

// Subtotal returns price times quantity for the line.
func (l Line) Subtotal() int {
	return l.Price * l.Quantity
}

// Lines is the cart content in insertion order. At most one line exists per
// product id, and quantities are always >= 1; mutations that would drive a
// quantity to zero or below drop the line instead.
type Lines []Line

func (ls Lines) indexOf(productID int) int {
	for i := range ls {
		if ls[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Upsert adds one unit of the product: an existing line gains quantity,
// otherwise a new line is appended with quantity 1.
func (ls Lines) Upsert(product catalog.Product) Lines {
	if i := ls.indexOf(product.ID); i >= 0 {
		out := ls.clone()
		out[i].Quantity++
		return out
	}
	out := ls.clone()
	return append(out, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  1,
	})
}

// Remove drops the line for productID; no-op if absent.
func (ls Lines) Remove(productID int) Lines {
	i := ls.indexOf(productID)
	if i < 0 {
		return ls
	}
	out := make(Lines, 0, len(ls)-1)
	out = append(out, ls[:i]...)
	return append(out, ls[i+1:]...)
}

// UpdateQuantity adds delta (possibly negative) to the line's quantity.
// No-op if the line is absent; removal if the result is <= 0.
func (ls Lines) UpdateQuantity(productID, delta int) Lines {
	i := ls.indexOf(productID)
	if i < 0 {
		return ls
	}
	if ls[i].Quantity+delta <= 0 {
		return ls.Remove(productID)
	}
	out := ls.clone()
	out[i].Quantity += delta
	return out
}

// TotalItemCount sums quantities across lines (the badge number).
func (ls Lines) TotalItemCount() int {
	total := 0
	for _, line := range ls {
		total += line.Quantity
	}
	return total
}

// TotalValue sums price times quantity across lines, in rupiah.
func (ls Lines) TotalValue() int {
	total := 0
	for _, line := range ls {
		total += line.Subtotal()
	}
	return total
}

func (ls Lines) clone() Lines {
	out := make(Lines, len(ls))
	copy(out, ls)
	return out
}
