package features

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// headings that introduce a feature list on a housing page
var featureHeadings = map[string]bool{
	"community features":  true,
	"amenities":           true,
	"community amenities": true,
}

// Scraper pulls the feature bullet list from a dorm page
type Scraper struct {
	client    *http.Client
	userAgent string
}

// NewScraper creates a Scraper with a per-request timeout
func NewScraper(timeout time.Duration, userAgent string) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Scrape fetches url and returns its feature list. A page without a
// recognised heading yields an empty list, not an error.
func (s *Scraper) Scrape(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	return ParseFeatures(resp.Body)
}

// ParseFeatures extracts features from an HTML document: the first <ul>
// or <p> after a feature heading, de-duplicated in order.
func ParseFeatures(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	heading := findNode(doc, func(n *html.Node) bool {
		return isHeading(n) && featureHeadings[strings.ToLower(strings.TrimSpace(textOf(n)))]
	})
	if heading == nil {
		return []string{}, nil
	}

	section := findAfter(heading, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (n.DataAtom == atom.Ul || n.DataAtom == atom.P)
	})
	if section == nil {
		return []string{}, nil
	}

	var raw []string
	if section.DataAtom == atom.Ul {
		for li := section.FirstChild; li != nil; li = li.NextSibling {
			if li.Type == html.ElementNode && li.DataAtom == atom.Li {
				raw = append(raw, strings.TrimSpace(textOf(li)))
			}
		}
	} else {
		raw = paragraphLines(section)
	}

	return dedupe(raw), nil
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// findNode depth-first search from n
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAfter searches nodes that follow n in document order, excluding n's subtree
func findAfter(n *html.Node, match func(*html.Node) bool) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		for sib := cur.NextSibling; sib != nil; sib = sib.NextSibling {
			if found := findNode(sib, match); found != nil {
				return found
			}
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// paragraphLines splits a paragraph on <br> and newlines
func paragraphLines(p *html.Node) []string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(p)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
