package pagetext

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/solardesk/pvtopo/internal/report"
)

// HTMLProvider handles HTML report exports. Block-level elements become
// lines so the line-oriented extractors (monthly table, loss factors) keep
// working on the flattened text.
type HTMLProvider struct{}

func (p *HTMLProvider) Pages(r io.Reader, filename string) ([]report.PageText, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			// Cells of one table row stay on one line; rows and block
			// elements break lines.
			case "p", "li", "tr", "div", "h1", "h2", "h3", "h4", "h5", "h6", "br":
				if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") {
					buf.WriteString("\n")
				}
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") {
					buf.WriteString(" ")
				}
				buf.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil, nil
	}
	return []report.PageText{{Page: 1, Text: text}}, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
