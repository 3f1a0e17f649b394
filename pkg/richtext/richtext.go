// Package richtext extracts image URLs from the catalog's rich-text
// introduction field.
package richtext

import (
	"log/slog"
	"strings"

	"golang.org/x/net/html"
)

// LineBreak separates the image tags of an introduction.
const LineBreak = "<br/>"

// ExtractImages returns the src of every image tag of introduction in order.
//
// The field uses single-quoted attributes, they are normalized to double
// quotes before parsing. Segments without a usable src are dropped. The result
// is never nil and ExtractImages never panics.
func ExtractImages(introduction string) (urls []string) {
	const op = "richtext.ExtractImages"

	urls = []string{}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("failed to parse introduction", "op", op, "panic", r)
			urls = []string{}
		}
	}()

	for _, segment := range strings.Split(introduction, LineBreak) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		src, ok := segmentSrc(normalizeQuotes(segment))
		if !ok {
			continue
		}
		urls = append(urls, src)
	}
	return urls
}

func normalizeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `"`)
}

func segmentSrc(segment string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(segment))
	if err != nil {
		return "", false
	}
	img := findElement(doc, "img")
	if img == nil {
		return "", false
	}
	src := strings.TrimSpace(getAttr(img, "src"))
	return src, src != ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
