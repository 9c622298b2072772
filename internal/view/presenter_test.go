package view

import (
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentAuthor_Normalization(t *testing.T) {
	u := &models.User{ID: 1, FullName: "Bob", ProfileImageURL: "/public/uploads/avatars/b.png"}
	a := PresentAuthor(u)

	assert.Equal(t, "/uploads/avatars/b.png", a.ProfileImageURL)
	assert.Equal(t, "Bob", a.FullName)
}

func TestPresentAuthor_MissingUser(t *testing.T) {
	for _, u := range []*models.User{nil, {}} {
		a := PresentAuthor(u)
		assert.Equal(t, DefaultAvatarURL, a.ProfileImageURL)
		assert.Equal(t, "Deleted user", a.FullName)
		assert.Zero(t, a.ID)
	}
}

// Normalization must be applied uniformly across every projection that
// embeds a user identity.
func TestPresenters_UniformNormalization(t *testing.T) {
	legacy := "/public/x.png"
	author := models.User{ID: 2, FullName: "Cara", ProfileImageURL: legacy}

	post := &models.Post{ID: 10, Title: "T", Body: "B", User: author}
	comment := &models.Comment{ID: 20, Content: "C", User: author}

	feed := PresentPosts([]*models.Post{post})
	require.Len(t, feed, 1)
	single := PresentPost(post)
	comments := PresentComments([]*models.Comment{comment})
	require.Len(t, comments, 1)
	profile := PresentProfile(&author)

	want := "/x.png"
	assert.Equal(t, want, feed[0].Author.ProfileImageURL)
	assert.Equal(t, want, single.Author.ProfileImageURL)
	assert.Equal(t, want, comments[0].Author.ProfileImageURL)
	assert.Equal(t, want, profile.ProfileImageURL)
}

func TestPresentPosts_PreservesOrder(t *testing.T) {
	posts := []*models.Post{
		{ID: 3, Title: "newest"},
		{ID: 2, Title: "middle"},
		{ID: 1, Title: "oldest"},
	}
	views := PresentPosts(posts)
	require.Len(t, views, 3)
	assert.Equal(t, uint(3), views[0].ID)
	assert.Equal(t, uint(1), views[2].ID)
}
