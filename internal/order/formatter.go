package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lendom/storefront-backend/internal/cart"
	pkgerrors "github.com/lendom/storefront-backend/pkg/errors"
	"github.com/lendom/storefront-backend/pkg/types"
)

// CustomerInfo carries the checkout form fields.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// Formatter renders the WhatsApp order document for a store.
type Formatter struct {
	storeName string
}

// NewFormatter builds a formatter titling documents with the store name.
func NewFormatter(storeName string) *Formatter {
	name := strings.TrimSpace(storeName)
	if name == "" {
		name = "LENDOM PARFUM"
	}
	return &Formatter{storeName: name}
}

// Format renders the order document in Indonesian. The layout is fixed:
// title, customer block, optional maps link, numbered item blocks, grand
// total, closing line. It refuses an empty cart and blank customer fields.
func (f *Formatter) Format(lines cart.Lines, customer CustomerInfo, loc *types.LatLng) (string, error) {
	if len(lines) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := validateCustomer(customer); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*PESANAN %s*\n\n", strings.ToUpper(f.storeName))

	b.WriteString("*Informasi Pelanggan:*\n")
	fmt.Fprintf(&b, "Nama: %s\n", strings.TrimSpace(customer.Name))
	fmt.Fprintf(&b, "No. Telepon: %s\n", strings.TrimSpace(customer.Phone))
	fmt.Fprintf(&b, "Alamat: %s\n", strings.TrimSpace(customer.Address))
	if loc != nil {
		fmt.Fprintf(&b, "Lokasi: https://maps.google.com/?q=%s,%s\n",
			formatCoordinate(loc.Lat), formatCoordinate(loc.Lng))
	}

	b.WriteString("\n*Detail Pesanan:*\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line.Name)
		fmt.Fprintf(&b, "   Jumlah: %d\n", line.Quantity)
		fmt.Fprintf(&b, "   Harga: %s\n", Rupiah(line.Price))
		fmt.Fprintf(&b, "   Subtotal: %s\n\n", Rupiah(line.Subtotal()))
	}

	fmt.Fprintf(&b, "*Total: %s*\n\n", Rupiah(lines.TotalValue()))
	b.WriteString("Mohon konfirmasi pesanan ini. Terima kasih!")

	return b.String(), nil
}

func validateCustomer(customer CustomerInfo) error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", customer.Name},
		{"address", customer.Address},
		{"phone", customer.Phone},
	} {
		if strings.TrimSpace(field.value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field.name+" is required").
				WithDetails(map[string]string{"field": field.name})
		}
	}
	return nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
