package server

import (
	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
	"inkwell/internal/view"

	"github.com/gofiber/fiber/v2"
)

// SignupForm handles GET /user/signup.
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return c.Render("signup", fiber.Map{
		"User":  middleware.CurrentUser(c),
		"Error": "",
	})
}

// Signup handles POST /user/signup. A successful signup does not sign the
// user in; they land on the feed and sign in explicitly.
func (s *Server) Signup(c *fiber.Ctx) error {
	fullName := c.FormValue("fullName")
	email := c.FormValue("email")
	password := c.FormValue("password")

	if fullName == "" || email == "" || password == "" {
		return c.Status(fiber.StatusBadRequest).Render("signup", fiber.Map{
			"User":  middleware.CurrentUser(c),
			"Error": "Full name, email and password are required",
		})
	}

	cred, err := auth.HashPassword(password)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		FullName:       fullName,
		Email:          email,
		PasswordSalt:   cred.Salt,
		PasswordDigest: cred.Digest,
		Role:           models.RoleUser,
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		if models.IsCode(err, models.CodeValidation) {
			return c.Status(fiber.StatusBadRequest).Render("signup", fiber.Map{
				"User":  middleware.CurrentUser(c),
				"Error": err.Error(),
			})
		}
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

// SigninForm handles GET /user/signin.
func (s *Server) SigninForm(c *fiber.Ctx) error {
	return c.Render("signin", fiber.Map{
		"User":  middleware.CurrentUser(c),
		"Error": "",
	})
}

// Signin handles POST /user/signin. Credential failures re-render the form
// with a generic message; they never reveal which half was wrong.
func (s *Server) Signin(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	user, err := s.userRepo.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordSalt, user.PasswordDigest) {
		return c.Status(fiber.StatusUnauthorized).Render("signin", fiber.Map{
			"User":  middleware.CurrentUser(c),
			"Error": "Incorrect Email or Password",
		})
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return models.NewInternalError(err)
	}
	s.setSessionCookie(c, token)

	return c.Redirect("/", fiber.StatusFound)
}

// Logout handles GET /user/logout.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSessionCookie(c)
	return c.Redirect("/", fiber.StatusFound)
}

// Profile handles GET /user/profile. The page always renders from the
// current database row, not the (possibly stale) token snapshot.
func (s *Server) Profile(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	user, err := s.userRepo.GetByID(c.UserContext(), claims.UserID())
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			// Token for a deleted account degrades to logout.
			return c.Redirect("/user/logout", fiber.StatusFound)
		}
		return err
	}

	return c.Render("profile", fiber.Map{
		"User":    claims,
		"Profile": view.PresentProfile(user),
		"Success": c.Query("success"),
		"Error":   "",
	})
}

// UpdateProfile handles POST /user/profile: bio and optional avatar upload.
// The session cookie is reissued so the claims snapshot catches up with the
// new identity data.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	user, err := s.userRepo.GetByID(c.UserContext(), claims.UserID())
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return c.Redirect("/user/logout", fiber.StatusFound)
		}
		return err
	}

	user.Bio = c.FormValue("bio")

	avatarURL, err := s.saveUpload(c, "avatar", storage.FolderAvatars)
	if err != nil {
		return err
	}
	if avatarURL != "" {
		user.ProfileImageURL = avatarURL
	}

	if err := s.userRepo.Update(c.UserContext(), user); err != nil {
		return err
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return models.NewInternalError(err)
	}
	s.setSessionCookie(c, token)

	return c.Redirect("/user/profile?success=1", fiber.StatusFound)
}

// ChangePassword handles POST /user/password. Every successful change
// re-salts: the stored salt and digest are both replaced.
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	claims := middleware.CurrentUser(c)

	currentPassword := c.FormValue("currentPassword")
	newPassword := c.FormValue("newPassword")
	if newPassword == "" {
		return models.NewValidationError("New password is required")
	}

	user, err := s.userRepo.GetByID(c.UserContext(), claims.UserID())
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return c.Redirect("/user/logout", fiber.StatusFound)
		}
		return err
	}

	if !auth.VerifyPassword(currentPassword, user.PasswordSalt, user.PasswordDigest) {
		return models.NewForbiddenError("Current password is incorrect")
	}

	cred, err := auth.HashPassword(newPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.userRepo.UpdateCredential(c.UserContext(), user.ID, cred); err != nil {
		return err
	}

	return c.Redirect("/user/profile?success=1", fiber.StatusFound)
}
