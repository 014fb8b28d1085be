package thread

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

const (
	attrPostNumber = "data-num"
	attrPostAuthor = "data-autor"
	classPost      = "post"
	classContents  = "post-contents"
	idBottomPanel  = "bottompanel"
)

var headingLevels = map[atom.Atom]int{
	atom.H1: 1,
	atom.H2: 2,
	atom.H3: 3,
	atom.H4: 4,
	atom.H5: 5,
	atom.H6: 6,
}

// ParsePage decodes a forum page into its posts and pagination info.
// A missing or malformed pagination control yields a page count of 1.
func ParsePage(r io.Reader, pageNumber int) (*models.Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %d: %w", pageNumber, err)
	}

	page := &models.Page{
		Number:    pageNumber,
		PageCount: parsePageCount(root),
		Posts:     []models.Post{},
	}

	walk(root, func(n *html.Node) bool {
		if !isPostNode(n) {
			return true
		}
		if post, ok := parsePost(n); ok {
			page.Posts = append(page.Posts, post)
		}
		return false
	})

	return page, nil
}

func isPostNode(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Div {
		return false
	}
	_, hasNum := attr(n, attrPostNumber)
	_, hasAuthor := attr(n, attrPostAuthor)
	return hasNum && hasAuthor && hasClass(n, classPost)
}

func parsePost(n *html.Node) (models.Post, bool) {
	num, _ := attr(n, attrPostNumber)
	id, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return models.Post{}, false
	}
	author, _ := attr(n, attrPostAuthor)

	post := models.Post{
		ID:     id,
		Author: models.NewPlayerID(author),
	}

	contents := findFirst(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && c.DataAtom == atom.Div && hasClass(c, classContents)
	})
	if contents == nil {
		contents = n
	}

	walk(contents, func(c *html.Node) bool {
		if c.Type != html.ElementNode {
			return true
		}
		// quoted posts carry the quoted author's commands
		if c.DataAtom == atom.Blockquote {
			return false
		}
		if level, ok := headingLevels[c.DataAtom]; ok {
			post.Headings = append(post.Headings, models.NewHeading(level, textContent(c)))
			return false
		}
		if c.DataAtom == atom.Ol {
			post.Lists = append(post.Lists, listItems(c))
			return false
		}
		return true
	})

	return post, true
}

func listItems(ol *html.Node) []string {
	items := []string{}
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			if text := strings.TrimSpace(textContent(c)); text != "" {
				items = append(items, text)
			}
		}
	}
	return items
}

func parsePageCount(root *html.Node) int {
	panel := findFirst(root, func(n *html.Node) bool {
		id, ok := attr(n, "id")
		return n.Type == html.ElementNode && ok && id == idBottomPanel
	})
	if panel == nil {
		return 1
	}

	var links []*html.Node
	walk(panel, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			links = append(links, n)
		}
		return true
	})
	if len(links) < 2 {
		return 1
	}

	count, err := strconv.Atoi(strings.TrimSpace(textContent(links[len(links)-2])))
	if err != nil || count < 1 {
		return 1
	}
	return count
}

// walk visits n and its descendants depth-first; visit returns whether to descend
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c != n && match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	value, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(value) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}
