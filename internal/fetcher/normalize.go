// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var spdaRootIDs = regexp.MustCompile(`^(app|root|__next|___gatsby)$`)

// htmlDoc holds everything parseHTMLDoc extracts from a parsed page. The
// fetcher reads Title, Markdown, Links and Images; BodyIsEmpty and
// HasSPARoot are recorded but not consulted by the auto-mode fallback.
type htmlDoc struct {
	Title       string
	Markdown    string
	Links       []string
	Images      []string
	BodyIsEmpty bool
	HasSPARoot  bool
}

// parseHTMLDoc runs goquery over raw HTML, producing a markdown-like rendering
// that preserves headings, lists, code blocks, and link text, plus absolute
// link/image lists resolved against base.
func parseHTMLDoc(raw string, base *url.URL) (htmlDoc, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return htmlDoc{}, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	hasSPARoot := false
	doc.Find("div[id], body > div").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && spdaRootIDs.MatchString(strings.ToLower(id)) {
			hasSPARoot = true
		}
	})

	var links, images []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if abs := resolveURL(base, href); abs != "" {
			links = append(links, abs)
		}
	})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if abs := resolveURL(base, src); abs != "" {
			images = append(images, abs)
		}
	})

	doc.Find("script, style, noscript, svg").Remove()
	bodyText := strings.TrimSpace(doc.Find("body").Text())

	md := renderMarkdown(doc.Selection)

	return htmlDoc{
		Title:       title,
		Markdown:    md,
		Links:       links,
		Images:      images,
		BodyIsEmpty: bodyText == "",
		HasSPARoot:  hasSPARoot,
	}, nil
}

func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "javascript:") || strings.HasPrefix(ref, "mailto:") {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		if !u.IsAbs() {
			return ""
		}
		return u.String()
	}
	return base.ResolveReference(u).String()
}

// renderMarkdown walks block-level elements in document order, converting
// headings, lists, code, and paragraphs into a flat markdown-like body and
// collapsing whitespace everywhere else.
func renderMarkdown(root *goquery.Selection) string {
	var out strings.Builder

	body := root.Find("body")
	if body.Length() == 0 {
		body = root
	}

	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) == "#text" {
				text := collapseWhitespace(child.Text())
				if text != "" {
					out.WriteString(text)
					out.WriteString(" ")
				}
				return
			}

			switch goquery.NodeName(child) {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				level := int(child.Get(0).Data[1] - '0')
				out.WriteString("\n" + strings.Repeat("#", level) + " " + collapseWhitespace(child.Text()) + "\n")
			case "li":
				out.WriteString("\n- " + collapseWhitespace(child.Text()))
			case "pre", "code":
				out.WriteString("\n```\n" + child.Text() + "\n```\n")
			case "br":
				out.WriteString("\n")
			case "p", "div", "section", "article", "ul", "ol", "table", "tr":
				walk(child)
				out.WriteString("\n")
			default:
				walk(child)
			}
		})
	}
	walk(body)

	lines := strings.Split(out.String(), "\n")
	var cleaned []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			cleaned = append(cleaned, l)
		}
	}
	return strings.Join(cleaned, "\n")
}

var whitespaceRE = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
