package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// contentSelectors are tried in order; the first with text wins.
var contentSelectors = []string{
	"article",
	"main",
	"div.post, div.article, div.content",
}

var invisibleElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"template": {},
	"head":     {},
}

type Extraction struct {
	Title   string
	Content string
	// Fallback is set when no content container matched and the whole body
	// text was used instead.
	Fallback bool
}

type ExtractService interface {
	Extract(markup []byte, sourceURL string) (*Extraction, error)
}

type extractService struct{}

func NewExtractService() ExtractService {
	return &extractService{}
}

func (s *extractService) Extract(markup []byte, sourceURL string) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	ex := &Extraction{
		Title: strings.TrimSpace(doc.Find("h1").First().Text()),
	}
	if ex.Title == "" {
		ex.Title = fmt.Sprintf("Update from %s", sourceURL)
	}

	for _, sel := range contentSelectors {
		if text := visibleText(doc.Find(sel).First()); text != "" {
			ex.Content = text
			return ex, nil
		}
	}

	ex.Fallback = true
	ex.Content = visibleText(doc.Find("body"))
	if ex.Content == "" {
		ex.Content = visibleText(doc.Selection)
	}
	return ex, nil
}

// visibleText joins the trimmed, non-empty text nodes of sel with newlines.
func visibleText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := invisibleElements[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}
