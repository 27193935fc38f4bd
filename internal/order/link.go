package order

import (
	"fmt"
	"net/url"
	"strings"
)

const defaultWhatsAppBaseURL = "https://wa.me"

// WhatsAppLink builds the deep link that opens a chat with the store number
// and the order document pre-filled.
func WhatsAppLink(baseURL, number, document string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultWhatsAppBaseURL
	}
	return fmt.Sprintf("%s/%s?text=%s", base, number, url.QueryEscape(document))
}
