package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/bobmcallan/piewatch/internal/models"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>%s</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
table { border-collapse: collapse; margin: 0.5rem 0 1rem; }
th, td { border: 1px solid #e5e7eb; padding: 0.35rem 0.7rem; text-align: left; }
h2 { border-bottom: 1px solid #e5e7eb; padding-bottom: 0.2rem; }
.status-ALERT { color: #b91c1c; }
img { max-width: 100%%; }
</style>
</head>
<body class="status-%s">
%s%s</body>
</html>
`

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithRendererOptions(
		gmhtml.WithHardWraps(),
		gmhtml.WithXHTML(),
	),
)

// RenderHTML converts the digest markdown into a standalone HTML page.
// chartPath, when set, is embedded below the body as an image.
func RenderHTML(r *models.Report, chartPath string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(r.Markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	img := ""
	if chartPath != "" {
		img = fmt.Sprintf("<h2>History</h2>\n<p><img src=\"%s\" alt=\"Value history\" /></p>\n", html.EscapeString(chartPath))
	}

	return fmt.Sprintf(pageTemplate, html.EscapeString(r.Subject), r.Classification, buf.String(), img), nil
}
