package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/askcampus/campusrag/rag"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// strippedTags are removed before text extraction: chrome and scripting that
// would pollute the page content.
var strippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"header":   true,
	"footer":   true,
	"nav":      true,
	"aside":    true,
}

// ExtractPage parses an HTML document and produces a Page: the title, the
// meta description and the visible text of the main content region. Returns
// false when the document has no usable text.
func ExtractPage(htmlSrc, pageURL string) (rag.Page, bool) {
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return rag.Page{}, false
	}

	title := textContent(findElement(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	}))

	main := findMainNode(doc)
	if main == nil {
		main = doc
	}
	content := whitespaceRe.ReplaceAllString(textContent(main), " ")
	content = strings.TrimSpace(content)
	if content == "" {
		return rag.Page{}, false
	}

	return rag.Page{
		URL:         pageURL,
		Title:       strings.TrimSpace(title),
		Description: metaDescription(doc),
		Content:     content,
		WordCount:   len(strings.Fields(content)),
	}, true
}

// ExtractLinks returns all normalized in-domain links found in the document,
// resolved against the page URL. mailto:, tel: and javascript: links are
// skipped, as are CMS paths that never carry content.
func ExtractLinks(htmlSrc, pageURL, baseURL string) []string {
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "a" {
			return true
		}
		href := strings.TrimSpace(attr(n, "href"))
		if href == "" {
			return true
		}
		if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "javascript:") {
			return true
		}
		href = strings.SplitN(href, "#", 2)[0]
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		full := NormalizeURL(base.ResolveReference(ref).String())
		if seen[full] || !SameDomain(full, baseURL) || skipPath(full) {
			return true
		}
		seen[full] = true
		links = append(links, full)
		return true
	})
	return links
}

// findMainNode picks the node most likely to hold the page's content:
// <main>, [role=main], <article>, div#content or div.content, then <body>.
func findMainNode(doc *html.Node) *html.Node {
	for _, pick := range []func(*html.Node) bool{
		func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "main" },
		func(n *html.Node) bool { return n.Type == html.ElementNode && attr(n, "role") == "main" },
		func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "article" },
		func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "div" && attr(n, "id") == "content"
		},
		func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "content")
		},
		func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "body" },
	} {
		if node := findElement(doc, pick); node != nil {
			return node
		}
	}
	return nil
}

func metaDescription(doc *html.Node) string {
	meta := findElement(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "meta" && attr(n, "name") == "description" && attr(n, "content") != ""
	})
	if meta == nil {
		meta = findElement(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "meta" && attr(n, "property") == "og:description" && attr(n, "content") != ""
		})
	}
	if meta == nil {
		return ""
	}
	return strings.TrimSpace(attr(meta, "content"))
}

// textContent collects the text nodes beneath n, skipping stripped tags,
// joining fragments with spaces.
func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.ElementNode && strippedTags[node.Data] {
			return
		}
		if node.Type == html.TextNode {
			text := strings.TrimSpace(node.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return sb.String()
}

// findElement returns the first node in document order matching the
// predicate, without descending into stripped tags.
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && strippedTags[n.Data] {
		return nil
	}
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, match); found != nil {
			return found
		}
	}
	return nil
}

// walk visits every node; the callback returning false stops descent into
// the node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
