package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

// memUserRepo is an in-memory UserRepository.
type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uint]*models.User{}}
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return models.NewValidationError("Email is already registered")
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return models.NewNotFoundError("User", user.ID)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) UpdateCredential(_ context.Context, id uint, cred auth.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	u.PasswordSalt = cred.Salt
	u.PasswordDigest = cred.Digest
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// memCommentRepo is an in-memory CommentRepository.
type memCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]*models.Comment
	users    *memUserRepo
}

func newMemCommentRepo(users *memUserRepo) *memCommentRepo {
	return &memCommentRepo{comments: map[uint]*models.Comment{}, users: users}
}

func (r *memCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *memCommentRepo) ListByPostWithAuthors(ctx context.Context, postID uint) ([]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Comment
	for i := uint(1); i <= r.nextID; i++ {
		c, ok := r.comments[i]
		if !ok || c.PostID != postID {
			continue
		}
		cp := *c
		if u, ok := r.users.users[c.UserID]; ok {
			cp.User = *u
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memCommentRepo) deleteByPost(postID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
}

// memPostRepo is an in-memory PostRepository whose cascade delete also
// clears the comment repo, mirroring the transactional repository.
type memPostRepo struct {
	mu       sync.Mutex
	nextID   uint
	posts    map[uint]*models.Post
	users    *memUserRepo
	comments *memCommentRepo
}

func newMemPostRepo(users *memUserRepo, comments *memCommentRepo) *memPostRepo {
	return &memPostRepo{posts: map[uint]*models.Post{}, users: users, comments: comments}
}

func (r *memPostRepo) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = time.Now()
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id uint) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) GetByIDWithAuthor(ctx context.Context, id uint) (*models.Post, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users.users[p.UserID]; ok {
		p.User = *u
	}
	return p, nil
}

func (r *memPostRepo) ListNewestFirst(ctx context.Context) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for i := r.nextID; i >= 1; i-- {
		p, ok := r.posts[i]
		if !ok {
			continue
		}
		cp := *p
		if u, ok := r.users.users[p.UserID]; ok {
			cp.User = *u
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memPostRepo) Update(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return models.NewNotFoundError("Post", post.ID)
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) DeleteCascade(_ context.Context, id uint) error {
	r.mu.Lock()
	if _, ok := r.posts[id]; !ok {
		r.mu.Unlock()
		return models.NewNotFoundError("Post", id)
	}
	delete(r.posts, id)
	r.mu.Unlock()
	r.comments.deleteByPost(id)
	return nil
}

// stubStorage returns a deterministic URL without touching disk.
type stubStorage struct {
	saved []string
}

func (s *stubStorage) Save(_ context.Context, folder, filename, _ string, r io.Reader, _ int64) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	url := fmt.Sprintf("/uploads/%s/%s", folder, filename)
	s.saved = append(s.saved, url)
	return url, nil
}

// recordingViews satisfies fiber.Views, capturing the last template name
// and binding instead of producing HTML.
type recordingViews struct {
	mu       sync.Mutex
	lastName string
	lastData fiber.Map
}

func (v *recordingViews) Load() error { return nil }

func (v *recordingViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	v.mu.Lock()
	v.lastName = name
	if m, ok := data.(fiber.Map); ok {
		v.lastData = m
	} else {
		v.lastData = nil
	}
	v.mu.Unlock()
	_, err := fmt.Fprintf(w, "tmpl:%s", name)
	return err
}

func (v *recordingViews) last() (string, fiber.Map) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastName, v.lastData
}

// testEnv bundles a wired app and its fakes.
type testEnv struct {
	app      *fiber.App
	views    *recordingViews
	storage  *stubStorage
	users    *memUserRepo
	posts    *memPostRepo
	comments *memCommentRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		SessionSecret:  testSecret,
		SessionCookie:  "token",
		Port:           "8000",
		StorageBackend: "local",
		Env:            "test",
	}
	users := newMemUserRepo()
	comments := newMemCommentRepo(users)
	posts := newMemPostRepo(users, comments)
	views := &recordingViews{}
	blob := &stubStorage{}

	srv := NewServerWithDeps(cfg, users, posts, comments, blob, nil)
	return &testEnv{
		app:      srv.NewApp(views),
		views:    views,
		storage:  blob,
		users:    users,
		posts:    posts,
		comments: comments,
	}
}

// postForm sends an urlencoded form, optionally with a session cookie.
func (e *testEnv) postForm(t *testing.T, path string, form url.Values, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

// signUpAndIn registers a user and returns their session token.
func (e *testEnv) signUpAndIn(t *testing.T, fullName, email, password string) string {
	t.Helper()
	resp := e.postForm(t, "/user/signup", url.Values{
		"fullName": {fullName},
		"email":    {email},
		"password": {password},
	}, "")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp = e.postForm(t, "/user/signin", url.Values{
		"email":    {email},
		"password": {password},
	}, "")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "token" && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("sign-in did not set a session cookie")
	return ""
}
