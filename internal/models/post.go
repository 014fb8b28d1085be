package models

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Heading is a heading element found in a post body
type Heading struct {
	// Level is the heading level (1 for h1, 2 for h2, ...)
	Level int

	// Text is the heading's visible text, trimmed and NFC-normalised
	Text string
}

// NewHeading builds a heading, normalising its text so that accented
// markers compare equal regardless of how the forum encoded them
func NewHeading(level int, text string) Heading {
	return Heading{
		Level: level,
		Text:  norm.NFC.String(strings.TrimSpace(text)),
	}
}

// Post represents one message in the game thread
type Post struct {
	// ID is the thread-wide post number, strictly increasing with position
	ID int

	// Author is the forum user who wrote the post
	Author PlayerID

	// Headings are the headings found in the post body, in document order
	Headings []Heading

	// Lists holds the items of every ordered list in the post body, in document order
	Lists [][]string
}

// HeadingsAt returns the text of the headings at the given level, in order
func (p *Post) HeadingsAt(level int) []string {
	var texts []string
	for _, h := range p.Headings {
		if h.Level == level {
			texts = append(texts, h.Text)
		}
	}
	return texts
}

// FirstList returns the items of the first ordered list in the post, or nil
func (p *Post) FirstList() []string {
	if len(p.Lists) == 0 {
		return nil
	}
	return p.Lists[0]
}

// Page is one decoded page of the thread (or of a user-filtered view of it)
type Page struct {
	// Number is the 1-based page number that was requested
	Number int

	// PageCount is the total number of pages reported by the pagination control
	PageCount int

	// Posts are the posts on the page, oldest first
	Posts []Post
}

// PageForPost maps a post id to the page that holds it, assuming a fixed page size
func PageForPost(postID, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if postID <= 0 {
		return 1
	}
	return (postID + pageSize - 1) / pageSize
}
