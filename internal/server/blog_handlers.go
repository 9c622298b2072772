package server

import (
	"fmt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
	"inkwell/internal/view"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET /: the landing feed, newest first.
func (s *Server) Home(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListNewestFirst(c.UserContext())
	if err != nil {
		return err
	}

	return c.Render("home", fiber.Map{
		"User":  middleware.CurrentUser(c),
		"Blogs": view.PresentPosts(posts),
	})
}

// AddBlogForm handles GET /blog/add-new.
func (s *Server) AddBlogForm(c *fiber.Ctx) error {
	return c.Render("addBlog", fiber.Map{
		"User":  middleware.CurrentUser(c),
		"Error": "",
	})
}

// CreateBlog handles POST /blog. The cover image is optional; when present
// it is handed to blob storage and the returned URL persisted.
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	title := c.FormValue("title")
	body := c.FormValue("body")
	if title == "" || body == "" {
		return c.Status(fiber.StatusBadRequest).Render("addBlog", fiber.Map{
			"User":  claims,
			"Error": "Title and body are required",
		})
	}

	coverURL, err := s.saveUpload(c, "coverImage", storage.FolderBlogCovers)
	if err != nil {
		return err
	}

	post := &models.Post{
		Title:         title,
		Body:          body,
		CoverImageURL: coverURL,
		UserID:        claims.UserID(),
	}
	if err := s.postRepo.Create(c.UserContext(), post); err != nil {
		return err
	}

	return c.Redirect(fmt.Sprintf("/blog/%d", post.ID), fiber.StatusFound)
}

// ShowBlog handles GET /blog/:id: the post plus its comments, authors
// resolved and normalized.
func (s *Server) ShowBlog(c *fiber.Ctx) error {
	id, err := postIDParam(c, "id")
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByIDWithAuthor(c.UserContext(), id)
	if err != nil {
		return err
	}
	comments, err := s.commentRepo.ListByPostWithAuthors(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.Render("blog", fiber.Map{
		"User":     middleware.CurrentUser(c),
		"Blog":     view.PresentPost(post),
		"Comments": view.PresentComments(comments),
	})
}

// EditBlogForm handles GET /blog/:id/edit (owner only).
func (s *Server) EditBlogForm(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.Redirect(middleware.SignInPath, fiber.StatusFound)
	}

	id, err := postIDParam(c, "id")
	if err != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	// Existence before ownership.
	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return c.Redirect("/", fiber.StatusFound)
		}
		return err
	}
	if !claims.Owns(post.UserID) {
		return c.Redirect(fmt.Sprintf("/blog/%d", id), fiber.StatusFound)
	}

	return c.Render("editBlog", fiber.Map{
		"User":  claims,
		"Blog":  view.PresentPost(post),
		"Error": "",
	})
}

// UpdateBlog handles POST /blog/:id/edit (owner only). Title and body are
// replaced; the cover image only when a new file is uploaded.
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.Redirect(middleware.SignInPath, fiber.StatusFound)
	}

	id, err := postIDParam(c, "id")
	if err != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return c.Redirect("/", fiber.StatusFound)
		}
		return err
	}
	if !claims.Owns(post.UserID) {
		return c.Redirect(fmt.Sprintf("/blog/%d", id), fiber.StatusFound)
	}

	post.Title = c.FormValue("title")
	post.Body = c.FormValue("body")

	coverURL, err := s.saveUpload(c, "coverImage", storage.FolderBlogCovers)
	if err != nil {
		return err
	}
	if coverURL != "" {
		post.CoverImageURL = coverURL
	}

	if err := s.postRepo.Update(c.UserContext(), post); err != nil {
		return err
	}

	return c.Redirect(fmt.Sprintf("/blog/%d", id), fiber.StatusFound)
}

// DeleteBlog handles POST /blog/:id/delete (owner only). Deleting a post
// removes its comments with it.
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		return c.Redirect(middleware.SignInPath, fiber.StatusFound)
	}

	id, err := postIDParam(c, "id")
	if err != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return c.Redirect("/", fiber.StatusFound)
		}
		return err
	}
	if !claims.Owns(post.UserID) {
		return c.Redirect(fmt.Sprintf("/blog/%d", id), fiber.StatusFound)
	}

	if err := s.postRepo.DeleteCascade(c.UserContext(), id); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

// CreateComment handles POST /blog/comment/:blogId.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	id, err := postIDParam(c, "blogId")
	if err != nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	content := c.FormValue("content")
	if content == "" {
		return c.Redirect(fmt.Sprintf("/blog/%d", id), fiber.StatusFound)
	}

	// A comment must reference an existing post.
	if _, err := s.postRepo.GetByID(c.UserContext(), id); err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return c.Redirect("/", fiber.StatusFound)
		}
		return err
	}

	comment := &models.Comment{
		Content: content,
		PostID:  id,
		UserID:  claims.UserID(),
	}
	if err := s.commentRepo.Create(c.UserContext(), comment); err != nil {
		return err
	}

	return c.Redirect(fmt.Sprintf("/blog/%d", id), fiber.StatusFound)
}
