// internal/view/detail.go
package view

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/russross/blackfriday/v2"
	htmlparser "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"portfolio/internal/source"
)

// failedDetails is the fixed degradation when a remote details document
// cannot be fetched or converted. It never reaches the caller as an error.
const failedDetails = "<p>Failed to load project details.</p>"

// maxDetailBytes caps a remote details download (1MB).
const maxDetailBytes = 1 << 20

// Detail is one record expanded for the modal-styled detail page.
type Detail struct {
	Title    string
	Image    string
	Tech     []string
	Body     template.HTML
	Source   string
	Category string
	Date     string
	ReadTime string
	Excerpt  string
}

// Composer builds detail views. siteHost is the page's own host; links
// to anywhere else open in a new browsing context.
type Composer struct {
	logger   *log.Logger
	client   *http.Client
	siteHost string
}

func NewComposer(logger *log.Logger, siteHost string) *Composer {
	return &Composer{
		logger:   logger,
		client:   &http.Client{Timeout: 15 * time.Second},
		siteHost: siteHost,
	}
}

// ProjectDetail expands the project at index. An out-of-range index is
// a no-op: it returns ok=false and the caller shows nothing.
func (c *Composer) ProjectDetail(ctx context.Context, projects []source.Project, index int) (Detail, bool) {
	if index < 0 || index >= len(projects) {
		return Detail{}, false
	}
	p := projects[index]

	body := c.composeProjectBody(ctx, p)
	return Detail{
		Title:  p.Title,
		Image:  p.CoverImage(),
		Tech:   p.Tech,
		Body:   template.HTML(c.rewriteExternalLinks(body)),
		Source: p.Source,
	}, true
}

// BlogDetail expands the post at index; the body is the pre-rendered
// content field verbatim, no branching.
func (c *Composer) BlogDetail(posts []source.BlogPost, index int) (Detail, bool) {
	if index < 0 || index >= len(posts) {
		return Detail{}, false
	}
	p := posts[index]
	return Detail{
		Title:    p.Title,
		Image:    p.CoverImage(),
		Body:     template.HTML(c.rewriteExternalLinks(p.Content)),
		Category: p.Category,
		Date:     p.Date,
		ReadTime: p.ReadTime,
		Excerpt:  p.Excerpt,
	}, true
}

// composeProjectBody picks the detail body for a project. A details
// value that is a GitHub blob link to a markdown file is fetched from
// the raw host and converted; any other details value is trusted as
// pre-formed markup; otherwise the short description stands in.
func (c *Composer) composeProjectBody(ctx context.Context, p source.Project) string {
	d := p.Details
	if rawURL, ok := rawDetailsURL(d); ok {
		markdown, err := c.fetchText(ctx, rawURL)
		if err != nil {
			c.logger.Printf("Error loading project details from %s: %v", rawURL, err)
			return failedDetails
		}
		return string(blackfriday.Run(markdown))
	}
	if d != "" {
		return d
	}
	return "<p>" + html.EscapeString(p.Description) + "</p>"
}

// rawDetailsURL reports whether details is a GitHub blob link to a
// markdown file, and if so returns the raw.githubusercontent.com form.
func rawDetailsURL(details string) (string, bool) {
	if details == "" || !strings.Contains(details, "github.com") ||
		!strings.Contains(details, "/blob/") || !strings.HasSuffix(details, ".md") {
		return "", false
	}
	raw := strings.Replace(details, "github.com", "raw.githubusercontent.com", 1)
	return strings.Replace(raw, "/blob/", "/", 1), true
}

func (c *Composer) fetchText(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected response status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))
}

// rewriteExternalLinks parses the assembled body and adds
// target="_blank" rel="noopener noreferrer" to every anchor that does
// not point at the site's own origin. Parse failure leaves the markup
// untouched.
func (c *Composer) rewriteExternalLinks(markup string) string {
	body := &htmlparser.Node{Type: htmlparser.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := htmlparser.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		c.logger.Printf("Error parsing detail markup: %v", err)
		return markup
	}

	var buf strings.Builder
	for _, n := range nodes {
		c.rewriteNode(n)
		if err := htmlparser.Render(&buf, n); err != nil {
			c.logger.Printf("Error rendering detail markup: %v", err)
			return markup
		}
	}
	return buf.String()
}

func (c *Composer) rewriteNode(n *htmlparser.Node) {
	if n.Type == htmlparser.ElementNode && n.DataAtom == atom.A {
		for _, attr := range n.Attr {
			if attr.Key == "href" && c.isExternal(attr.Val) {
				setAttr(n, "target", "_blank")
				setAttr(n, "rel", "noopener noreferrer")
				break
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.rewriteNode(child)
	}
}

// isExternal reports whether href targets a different origin. Relative
// links resolve against the page itself and stay internal.
func (c *Composer) isExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Host != c.siteHost
}

func setAttr(n *htmlparser.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, htmlparser.Attribute{Key: key, Val: val})
}
