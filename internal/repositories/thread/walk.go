package thread

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// WalkUserPostsBackward visits a user's posts newest first: pages from last to
// first, posts within a page from last to first. The walk stops as soon as
// visit returns false.
func WalkUserPostsBackward(ctx context.Context, reader Reader, user string, visit func(post models.Post) bool) error {
	first, err := reader.FetchUserPage(ctx, &FetchUserPageInput{User: user, Page: 1})
	if err != nil {
		return fmt.Errorf("failed to fetch posts of %s: %w", user, err)
	}

	for pageNumber := first.PageCount; pageNumber >= 1; pageNumber-- {
		page := first
		if pageNumber != 1 {
			page, err = reader.FetchUserPage(ctx, &FetchUserPageInput{User: user, Page: pageNumber})
			if err != nil {
				return fmt.Errorf("failed to fetch posts of %s: %w", user, err)
			}
		}

		for i := len(page.Posts) - 1; i >= 0; i-- {
			if !visit(page.Posts[i]) {
				return nil
			}
		}
	}

	return nil
}
