package server

import (
	"mime/multipart"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// setSessionCookie writes the signed claims token into the session cookie.
func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// postIDParam parses the :id (or named) route parameter as a post id.
func postIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError("Post", c.Params(name))
	}
	return uint(id), nil
}

// saveUpload stores one optional multipart file field. Returns ("", nil)
// when the field is absent so callers can treat the upload as optional.
func (s *Server) saveUpload(c *fiber.Ctx, field, folder string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// Absent field, not a failure.
		return "", nil
	}
	return s.saveUploadHeader(c, fileHeader, folder)
}

func (s *Server) saveUploadHeader(c *fiber.Ctx, fh *multipart.FileHeader, folder string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", models.NewStorageError(err)
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	return s.storage.Save(c.UserContext(), folder, fh.Filename, contentType, f, fh.Size)
}
