package preview

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2latex/internal/assets"
)

// missingClass marks images the locator chain could not resolve.
const missingClass = "missing"

// RewriteImages points every relative img[src] at the file the locator
// chain resolves it to, as a file:// URL. Unresolved images keep their src
// and gain the "missing" class. URLs, data URIs and absolute paths are left
// alone.
func RewriteImages(htmlContent string, locators assets.Chain) (string, error) {
	nodes, err := parseFragment(htmlContent)
	if err != nil {
		return "", err
	}

	for _, n := range nodes {
		rewriteNode(n, locators)
	}

	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// parseFragment parses goldmark output with a body context, which avoids
// the <html><body> wrapper a full parse would add.
func parseFragment(content string) ([]*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	return html.ParseFragment(strings.NewReader(content), context)
}

func rewriteNode(n *html.Node, locators assets.Chain) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		rewriteImage(n, locators)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, locators)
	}
}

func rewriteImage(n *html.Node, locators assets.Chain) {
	for i, attr := range n.Attr {
		if attr.Key != "src" || !isRelativePath(attr.Val) {
			continue
		}
		ref, err := url.PathUnescape(attr.Val)
		if err != nil {
			ref = attr.Val
		}
		if asset, err := locators.Resolve(ref); err == nil {
			n.Attr[i].Val = pathToFileURL(asset.Path)
			return
		}
		addClass(n, missingClass)
		return
	}
}

func addClass(n *html.Node, class string) {
	for i, attr := range n.Attr {
		if attr.Key == "class" {
			n.Attr[i].Val = strings.TrimSpace(attr.Val + " " + class)
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}

// isRelativePath returns true if the path should be resolved.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "//", "#"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return !filepath.IsAbs(path)
}

// pathToFileURL converts an absolute path to a file:// URL.
// Handles both Unix and Windows paths correctly.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
