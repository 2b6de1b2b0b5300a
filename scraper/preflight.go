package scraper

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	tls2 "github.com/refraction-networking/utls"
	"golang.org/x/net/html"
)

// preflightProbe checks a target over plain HTTP with a Chrome TLS
// fingerprint before any browser is launched. A response that carries
// challenge markers upgrades the target to strict handling.
type preflightProbe struct {
	userAgent string
	client    *http.Client
}

func newPreflightProbe(userAgent string) *preflightProbe {
	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
	}
	return &preflightProbe{
		userAgent: userAgent,
		client: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
	}
}

// looksProtected reports whether the target responds like a
// challenge-serving edge. Probe failures report false; the browser
// path decides on its own from there.
func (p *preflightProbe) looksProtected(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Debug("preflight probe failed", "url", target, "error", err)
		return false
	}
	defer resp.Body.Close()

	server := strings.ToLower(resp.Header.Get("Server"))
	if strings.Contains(server, "cloudflare") && (resp.StatusCode == 403 || resp.StatusCode == 503) {
		return true
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return false
	}
	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "_cf_chl") || strings.Contains(lower, "checking your browser") {
		return true
	}

	title := strings.ToLower(pageTitle(string(body)))
	return strings.Contains(title, "just a moment") ||
		strings.Contains(title, "attention required")
}

// pageTitle parses the document and returns the text of its first
// <title> element, or "" when none is present.
func pageTitle(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// dialTLSChrome establishes a TLS connection presenting a Chrome
// ClientHello via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
