package handlers

import (
	"strings"
	"testing"
)

func TestValidateSubdomain(t *testing.T) {
	tests := []struct {
		name      string
		subdomain string
		wantOK    bool
	}{
		{"simple", "myshop", true},
		{"with hyphens", "my-shop-2", true},
		{"digits only", "12345", true},
		{"minimum length", "abc", true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 64), false},
		{"max length", strings.Repeat("a", 63), true},
		{"uppercase", "MyShop", false},
		{"leading hyphen", "-shop", false},
		{"trailing hyphen", "shop-", false},
		{"underscore", "my_shop", false},
		{"reserved www", "www", false},
		{"reserved api", "api", false},
		{"reserved admin", "admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateSubdomain(tt.subdomain)
			if ok := msg == ""; ok != tt.wantOK {
				t.Errorf("validateSubdomain(%q) = %q, want ok=%v", tt.subdomain, msg, tt.wantOK)
			}
		})
	}
}

func TestValidateShopName(t *testing.T) {
	if msg := validateShopName("My Shop"); msg != "" {
		t.Errorf("valid name rejected: %q", msg)
	}
	if msg := validateShopName("   "); msg == "" {
		t.Error("whitespace-only name should be rejected")
	}
	if msg := validateShopName(strings.Repeat("x", 201)); msg == "" {
		t.Error("over-length name should be rejected")
	}
	// Length is counted in runes, not bytes.
	if msg := validateShopName(strings.Repeat("ä", 200)); msg != "" {
		t.Errorf("200-rune name rejected: %q", msg)
	}
}

func TestValidateTypeTag(t *testing.T) {
	if msg := validateTypeTag("mega-menu"); msg != "" {
		t.Errorf("valid type rejected: %q", msg)
	}
	if msg := validateTypeTag(""); msg == "" {
		t.Error("empty type should be rejected")
	}
	if msg := validateTypeTag(strings.Repeat("x", 101)); msg == "" {
		t.Error("over-length type should be rejected")
	}
}
