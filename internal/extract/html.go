package extract

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Tags whose text content is never document prose.
var skipHTMLTags = map[string]struct{}{
	"script": {},
	"style":  {},
	"head":   {},
}

// HTMLToLines converts one HTML document into the extractor line format: a
// "<doc …>" open marker carrying the id, the text content one block per
// line, and a closing "</doc>". This lets plain HTML corpora feed the same
// document stream as extractor output.
func HTMLToLines(r io.Reader, w io.Writer, docID string) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipHTMLTags[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				blocks = append(blocks, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if _, err := fmt.Fprintf(w, "<doc id=%q>\n", docID); err != nil {
		return err
	}
	for _, b := range blocks {
		if _, err := fmt.Fprintln(w, b); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w, "</doc>")
	return err
}
