package crawler

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds scheme", "www.example.edu/about", "https://www.example.edu/about"},
		{"drops fragment", "https://example.edu/page#section", "https://example.edu/page"},
		{"drops tracking params", "https://example.edu/page?utm_source=x&fbclid=y&id=3", "https://example.edu/page?id=3"},
		{"trims trailing slash", "https://example.edu/events/", "https://example.edu/events"},
		{"keeps root slash", "https://example.edu/", "https://example.edu/"},
		{"bare host gets root path", "https://example.edu", "https://example.edu/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	in := "https://example.edu/events/?utm_campaign=fall#top"
	once := NormalizeURL(in)
	twice := NormalizeURL(once)
	if once != twice {
		t.Errorf("normalization is not idempotent: %q vs %q", once, twice)
	}
}

func TestSameDomain(t *testing.T) {
	base := "https://example.edu"
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.edu/admissions", true},
		{"https://news.example.edu/post", true},
		{"https://EXAMPLE.edu/", true},
		{"https://example.com/", false},
		{"https://notexample.edu/", false},
		{"://bad url", false},
	}
	for _, tt := range tests {
		if got := SameDomain(tt.url, base); got != tt.want {
			t.Errorf("SameDomain(%q, %q) = %v, want %v", tt.url, base, got, tt.want)
		}
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash("some page text")
	b := ContentHash("some page text")
	c := ContentHash("different text")

	if a != b {
		t.Errorf("hash not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("distinct texts collided: %q", a)
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16", len(a))
	}
}

func TestSkipPath(t *testing.T) {
	if !skipPath("https://example.edu/wp-admin/options.php") {
		t.Error("expected wp-admin to be skipped")
	}
	if !skipPath("https://example.edu/feed") {
		t.Error("expected feed to be skipped")
	}
	if skipPath("https://example.edu/admissions") {
		t.Error("did not expect admissions to be skipped")
	}
}
