// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes merchant-supplied shop names into DNS-label
// form for use as storefront subdomains: lowercase a-z and 0-9 with
// single hyphens between words. Length caps and the reserved-name list
// are enforced by the handler layer on the normalized result.
package slug

import (
	"regexp"
	"strings"
)

var (
	// invalidChars matches anything a DNS label cannot carry. Whitespace
	// and hyphens survive this pass for the word-joining step below.
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	// wordBreaks turns any whitespace run into a single hyphen.
	wordBreaks = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate normalizes a shop name or requested subdomain.
// Example: "Vera's Flower Shop" → "veras-flower-shop"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = invalidChars.ReplaceAllString(result, "")
	result = wordBreaks.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
