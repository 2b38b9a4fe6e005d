package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/warrenZY/folderpad/internal/model"
	"golang.org/x/net/html"
)

// ParseHTMLGrants parses a grant backup file and returns the grants it
// holds. Anchors without a DATA-TOKEN attribute are skipped so a mixed
// browser bookmark file imports cleanly.
func ParseHTMLGrants(r io.Reader) ([]model.Grant, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var grants []model.Grant

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.ToLower(n.Data) == "a" {
			token := getAttr(n, "data-token")
			if token == "" {
				// Not a grant entry
				return
			}

			path := pathFromHref(getAttr(n, "href"))
			if path == "" {
				// Fall back to the anchor text
				path = getTextContent(n)
			}
			if path == "" {
				return
			}

			// Parse ADD_DATE timestamp
			createdAt := time.Now()
			if addDate := getAttr(n, "add_date"); addDate != "" {
				if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
					createdAt = time.Unix(ts, 0)
				}
			}

			grants = append(grants, model.Grant{
				Token:     token,
				Path:      path,
				CreatedAt: createdAt,
			})
			return // Don't recurse into A
		}

		// Recurse into children
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return grants, nil
}

// pathFromHref strips the file URL scheme from an exported href. Anything
// that is not a file URL yields "" and defers to the anchor text.
func pathFromHref(href string) string {
	if strings.HasPrefix(href, "file://") {
		return strings.TrimPrefix(href, "file://")
	}
	return ""
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
