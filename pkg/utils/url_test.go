package utils

import (
	"net/url"
	"strings"
	"testing"
)

func TestTruncateURL(t *testing.T) {
	long := "https://s.1688.com/selloffer/offer_search.htm?keywords=" + strings.Repeat("a", 40)

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "https://example.com", 50, "https://example.com"},
		{"exact", strings.Repeat("x", 50), 50, strings.Repeat("x", 50)},
		{"long", long, 50, long[:50] + "..."},
		{"multibyte", "https://例子.测试/路径", 10, "https://例子" + "..."},
		{"no limit", long, 0, long},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateURL(tt.in, tt.max); got != tt.want {
				t.Errorf("TruncateURL(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	base, _ := url.Parse("http://backend:8080/crawler/")

	got := JoinURL(base, "/api/crawler", "tasks", "42", "start").String()
	want := "http://backend:8080/crawler/api/crawler/tasks/42/start"
	if got != want {
		t.Errorf("JoinURL = %q, want %q", got, want)
	}

	if base.Path != "/crawler/" {
		t.Errorf("JoinURL mutated base path: %q", base.Path)
	}
}
