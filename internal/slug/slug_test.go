package slug

import (
	"strings"
	"testing"
)

// TestGenerate exercises subdomain normalization over the kinds of shop
// names merchants actually type: punctuation, unicode, stray whitespace,
// and inputs that reduce to nothing.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Typical shop names ---
		{
			name:  "two word shop name",
			input: "Flower Shop",
			want:  "flower-shop",
		},
		{
			name:  "name with possessive apostrophe",
			input: "Vera's Flower Shop",
			want:  "veras-flower-shop",
		},
		{
			name:  "already a valid subdomain",
			input: "my-shop",
			want:  "my-shop",
		},
		{
			name:  "single word brand",
			input: "Brauhaus",
			want:  "brauhaus",
		},
		{
			name:  "name with year",
			input: "Vintage Finds 1987",
			want:  "vintage-finds-1987",
		},

		// --- Punctuation merchants type ---
		{
			name:  "ampersand dropped",
			input: "Salt & Pepper",
			want:  "salt-pepper",
		},
		{
			name:  "comma and exclamation",
			input: "Shoes, Bags & More!",
			want:  "shoes-bags-more",
		},
		{
			name:  "dots in name",
			input: "no.brand.store",
			want:  "nobrandstore",
		},
		{
			name:  "parentheses",
			input: "Outlet (Official)",
			want:  "outlet-official",
		},
		{
			name:  "slash between words",
			input: "Home/Garden",
			want:  "homegarden",
		},
		{
			name:  "plus sign",
			input: "Fit+Fashion",
			want:  "fitfashion",
		},

		// --- Unicode ---
		{
			name:  "emoji stripped",
			input: "Candle Corner 🕯️",
			want:  "candle-corner",
		},
		{
			name:  "accented characters stripped",
			input: "Café Près",
			want:  "caf-prs",
		},
		{
			name:  "cjk characters stripped",
			input: "Tea 茶 House",
			want:  "tea-house",
		},

		// --- Whitespace ---
		{
			name:  "surrounding spaces",
			input: "  my shop  ",
			want:  "my-shop",
		},
		{
			name:  "runs of spaces collapse",
			input: "my    shop",
			want:  "my-shop",
		},
		{
			name:  "tab becomes hyphen",
			input: "my\tshop",
			want:  "my-shop",
		},
		{
			name:  "newline becomes hyphen",
			input: "my\nshop",
			want:  "my-shop",
		},

		// --- Hyphens ---
		{
			name:  "leading hyphens trimmed",
			input: "--my-shop",
			want:  "my-shop",
		},
		{
			name:  "trailing hyphens trimmed",
			input: "my-shop--",
			want:  "my-shop",
		},
		{
			name:  "hyphen runs collapse",
			input: "my---shop",
			want:  "my-shop",
		},
		{
			name:  "hyphens and spaces mixed",
			input: " - my - shop - ",
			want:  "my-shop",
		},

		// --- Degenerate inputs ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!@#$%",
			want:  "",
		},
		{
			name:  "only hyphens",
			input: "----",
			want:  "",
		},
		{
			name:  "single letter",
			input: "A",
			want:  "a",
		},
		{
			name:  "single digit",
			input: "7",
			want:  "7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_DNSLabelSafe verifies the output alphabet: whatever the
// input, the result contains only characters a DNS label accepts, with
// no hyphen at either end.
func TestGenerate_DNSLabelSafe(t *testing.T) {
	inputs := []string{
		"Vera's Flower Shop",
		"Salt & Pepper!!!",
		"  --weird   input\t\nhere--  ",
		"Café 茶 🕯️ Store",
		"UPPER lower 123",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got := Generate(input)
			for _, r := range got {
				valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
				if !valid {
					t.Fatalf("Generate(%q) = %q contains invalid character %q", input, got, r)
				}
			}
			if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
				t.Errorf("Generate(%q) = %q has a hyphen at an edge", input, got)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that normalizing an already valid
// subdomain is a no-op, so stored subdomains can be re-normalized safely.
func TestGenerate_Idempotent(t *testing.T) {
	subdomains := []string{
		"my-shop",
		"veras-flower-shop",
		"shop123",
		"a",
	}

	for _, s := range subdomains {
		t.Run(s, func(t *testing.T) {
			got := Generate(s)
			if got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
			}
		})
	}
}

// TestGenerate_NoTruncation verifies that length is not this package's
// concern: overlong results pass through so the handler's subdomain
// validation can reject them with a clear message.
func TestGenerate_NoTruncation(t *testing.T) {
	long := strings.Repeat("shop ", 20) // normalizes to 99 characters
	got := Generate(long)
	if len(got) != 99 {
		t.Errorf("Generate must not truncate: got %d characters", len(got))
	}
}
