package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits for shop and theme fields.
const (
	maxShopNameLen     = 200
	maxSubdomainLen    = 63
	minSubdomainLen    = 3
	maxTemplateNameLen = 200
	maxTypeLen         = 100
)

// subdomainPattern matches DNS-label-safe subdomains: lowercase
// alphanumerics and inner hyphens.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// reservedSubdomains are claimed by the platform itself.
var reservedSubdomains = map[string]bool{
	"www":        true,
	"api":        true,
	"admin":      true,
	"app":        true,
	"dashboard":  true,
	"storefront": true,
	"assets":     true,
	"cdn":        true,
}

// validateSubdomain checks a normalized subdomain and returns the first
// error found, or "" when valid.
func validateSubdomain(subdomain string) string {
	if len(subdomain) < minSubdomainLen {
		return "Subdomain must be at least 3 characters."
	}
	if len(subdomain) > maxSubdomainLen {
		return "Subdomain is too long (max 63 characters)."
	}
	if !subdomainPattern.MatchString(subdomain) {
		return "Subdomain may only contain lowercase letters, digits, and hyphens."
	}
	if reservedSubdomains[subdomain] {
		return "This subdomain is reserved."
	}
	return ""
}

// validateShopName checks the shop display name.
func validateShopName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Shop name is required."
	}
	if utf8.RuneCountInString(name) > maxShopNameLen {
		return "Shop name is too long (max 200 characters)."
	}
	return ""
}

// validateTemplateName checks the template display name.
func validateTemplateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	return ""
}

// validateTypeTag checks a section or block type tag.
func validateTypeTag(typeTag string) string {
	typeTag = strings.TrimSpace(typeTag)
	if typeTag == "" {
		return "Type is required."
	}
	if utf8.RuneCountInString(typeTag) > maxTypeLen {
		return "Type is too long (max 100 characters)."
	}
	return ""
}
