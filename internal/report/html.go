package report

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

const htmlHeader = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>투자 검토 보고서</title>
<style>
body { font-family: 'Malgun Gothic', 'Apple SD Gothic Neo', sans-serif; max-width: 960px; margin: 2rem auto; line-height: 1.6; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f2f2f2; }
h1 { border-bottom: 3px solid #2c3e50; padding-bottom: 0.4rem; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: 0.3rem; margin-top: 2rem; }
</style>
</head>
<body>
`

const htmlFooter = "</body>\n</html>\n"

// HTML converts a rendered Markdown report into a standalone HTML page.
func HTML(markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(markdown), &body); err != nil {
		return nil, eris.Wrap(err, "report: convert markdown")
	}

	var out bytes.Buffer
	out.WriteString(htmlHeader)
	out.Write(body.Bytes())
	out.WriteString(htmlFooter)
	return out.Bytes(), nil
}
