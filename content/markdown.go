package content

import (
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var (
	mdOnce sync.Once
	mdConv *converter.Converter
)

// markdownConverter returns the shared, goroutine-safe converter.
//
//   - base plugin: strips script, style, iframe, noscript, head, meta,
//     link, input, textarea, HTML comments.
//   - commonmark plugin: standard Markdown rendering.
//   - table plugin with minimal cell padding: keeps table structure
//     while spending fewer tokens on column alignment.
func markdownConverter() *converter.Converter {
	mdOnce.Do(func() {
		mdConv = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(
					table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
				),
			),
		)
	})
	return mdConv
}

// ToMarkdown converts rendered HTML to Markdown. The domain resolves
// relative links and image sources into absolute URLs.
func ToMarkdown(rawHTML, domain string) (string, error) {
	return markdownConverter().ConvertString(rawHTML, converter.WithDomain(domain))
}
