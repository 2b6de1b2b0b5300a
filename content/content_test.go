package content

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"under limit", "short", 100, "short"},
		{"exactly at limit", "12345", 5, "12345"},
		{"over limit", "1234567890", 5, "12345..."},
		{"zero limit means no cap", "1234567890", 0, "1234567890"},
		{"negative limit means no cap", "abc", -1, "abc"},
		{"empty text", "", 10, ""},
		{"cut mid-rune backs up", "aé", 2, "a..."},
		{"cut on rune boundary", "aé", 3, "aé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncateAtLLMDefault(t *testing.T) {
	long := strings.Repeat("a", MaxLLMInputChars+500)
	got := Truncate(long, MaxLLMInputChars)
	if len(got) != MaxLLMInputChars+3 {
		t.Errorf("expected %d chars, got %d", MaxLLMInputChars+3, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated text must end with ellipsis marker")
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	text := strings.Repeat("é", 20)
	for limit := 1; limit < len(text); limit++ {
		got := Truncate(text, limit)
		if !utf8.ValidString(got) {
			t.Fatalf("Truncate(limit=%d) produced invalid UTF-8: %q", limit, got)
		}
	}
}

func TestVisibleText(t *testing.T) {
	html := `<html><head><title>T</title><style>body{color:red}</style></head>
	<body>
		<script>var hidden = "should not appear";</script>
		<h1>Product Catalog</h1>
		<p>Great   deals  today</p>
		<noscript>Enable JS</noscript>
	</body></html>`

	text, err := VisibleText(html)
	if err != nil {
		t.Fatalf("VisibleText: %v", err)
	}
	if strings.Contains(text, "should not appear") {
		t.Error("script content leaked into visible text")
	}
	if strings.Contains(text, "color:red") {
		t.Error("style content leaked into visible text")
	}
	if strings.Contains(text, "Enable JS") {
		t.Error("noscript content leaked into visible text")
	}
	if !strings.Contains(text, "Product Catalog") {
		t.Errorf("heading missing from visible text: %q", text)
	}
	if !strings.Contains(text, "Great   deals  today") {
		t.Errorf("paragraph missing from visible text: %q", text)
	}
}

func TestVisibleTextNoBlankLines(t *testing.T) {
	html := `<body><div>one</div>


	<div>two</div></body>`
	text, err := VisibleText(html)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			t.Fatalf("blank line in output: %q", text)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"ab", 1},
		{"abc", 1},
		{strings.Repeat("x", 300), 100},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q-len %d) = %d, want %d", tt.text[:min(len(tt.text), 10)], len(tt.text), got, tt.want)
		}
	}
}

func TestReadableTextFallsBack(t *testing.T) {
	// Too little content for readability: the full text must come back.
	got, used := ReadableText("<html><body><p>hi</p></body></html>", "https://example.com", "fallback text")
	if used {
		t.Error("readability should not claim success on a near-empty page")
	}
	if got != "fallback text" {
		t.Errorf("expected fallback text, got %q", got)
	}

	got, used = ReadableText("<html></html>", "://bad-url", "fallback text")
	if used || got != "fallback text" {
		t.Errorf("bad URL should fall back, got (%q, %v)", got, used)
	}
}

func TestToMarkdown(t *testing.T) {
	md, err := ToMarkdown(`<h1>Title</h1><p>Body with <a href="/link">a link</a></p>`, "example.com")
	if err != nil {
		t.Fatalf("ToMarkdown: %v", err)
	}
	if !strings.Contains(md, "# Title") {
		t.Errorf("heading not rendered: %q", md)
	}
	if !strings.Contains(md, "Body with") {
		t.Errorf("paragraph missing: %q", md)
	}
}
