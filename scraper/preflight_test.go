package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "simple title",
			html: `<html><head><title>Just a moment...</title></head><body></body></html>`,
			want: "Just a moment...",
		},
		{
			name: "whitespace trimmed",
			html: `<html><head><title>  Attention Required! | Cloudflare  </title></head></html>`,
			want: "Attention Required! | Cloudflare",
		},
		{
			name: "no title",
			html: `<html><body><h1>hello</h1></body></html>`,
			want: "",
		},
		{
			name: "first title wins",
			html: `<title>first</title><svg><title>second</title></svg>`,
			want: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pageTitle(tt.html); got != tt.want {
				t.Errorf("pageTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLooksProtected(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "cloudflare 403",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Server", "cloudflare")
				w.WriteHeader(http.StatusForbidden)
			},
			want: true,
		},
		{
			name: "challenge script marker",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><script>window._cf_chl_opt={};</script></html>`))
			},
			want: true,
		},
		{
			name: "interstitial title",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><head><title>Just a moment...</title></head><body></body></html>`))
			},
			want: true,
		},
		{
			name: "ordinary page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><head><title>Widgets for sale</title></head><body>catalog</body></html>`))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := newPreflightProbe("test-agent")
			if got := p.looksProtected(context.Background(), srv.URL); got != tt.want {
				t.Errorf("looksProtected() = %v, want %v", got, tt.want)
			}
		})
	}
}
