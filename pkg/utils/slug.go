package utils

import (
	"github.com/gosimple/slug"
)

// NormalizeSlug creates a URL-friendly slug using the gosimple/slug library,
// which handles Unicode (Turkish, European and other scripts) correctly.
func NormalizeSlug(text string) string {
	if text == "" {
		return ""
	}
	return slug.Make(text)
}

// GenerateCustomerSlug creates a slug for a customer name.
func GenerateCustomerSlug(name string) string {
	if name == "" {
		return "customer"
	}
	return NormalizeSlug(name)
}
