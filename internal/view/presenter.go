package view

import (
	"time"

	"inkwell/internal/models"
)

// Author is a user identity projected into a page. The zero Author (ID 0)
// stands in for a deleted account so pages never break on a dangling
// reference.
type Author struct {
	ID              uint
	FullName        string
	ProfileImageURL string
}

// PostView is a post plus its resolved author, ready for the renderer.
type PostView struct {
	ID            uint
	Title         string
	Body          string
	CoverImageURL string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Author        Author
}

// CommentView is a comment plus its resolved author.
type CommentView struct {
	ID        uint
	Content   string
	CreatedAt time.Time
	Author    Author
}

// PresentAuthor resolves a user record into its display identity, applying
// the avatar normalizations uniformly. A missing author (deleted user row)
// renders as "Deleted user" with the default avatar.
func PresentAuthor(u *models.User) Author {
	if u == nil || u.ID == 0 {
		return Author{FullName: "Deleted user", ProfileImageURL: DefaultAvatarURL}
	}
	return Author{
		ID:              u.ID,
		FullName:        u.FullName,
		ProfileImageURL: NormalizeAvatarURL(u.ProfileImageURL),
	}
}

// PresentPost shapes a post with its preloaded author.
func PresentPost(p *models.Post) PostView {
	return PostView{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		CoverImageURL: p.CoverImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Author:        PresentAuthor(&p.User),
	}
}

// PresentPosts shapes a feed, preserving order.
func PresentPosts(posts []*models.Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, PresentPost(p))
	}
	return out
}

// PresentComments shapes a post's comments, preserving order.
func PresentComments(comments []*models.Comment) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentView{
			ID:        c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Author:    PresentAuthor(&c.User),
		})
	}
	return out
}

// ProfileView is the profile page projection of a user's own record.
type ProfileView struct {
	ID              uint
	FullName        string
	Email           string
	Bio             string
	ProfileImageURL string
	Role            models.Role
}

// PresentProfile applies the same identity normalizations to the profile
// page as every other projection.
func PresentProfile(u *models.User) ProfileView {
	return ProfileView{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		Bio:             u.Bio,
		ProfileImageURL: NormalizeAvatarURL(u.ProfileImageURL),
		Role:            u.Role,
	}
}
