// Package server contains the HTTP handlers for Inkwell's server-rendered
// pages.
package server

import (
	"errors"
	"log/slog"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

// publicDir is the static file root; /default.jpg and local uploads are
// served from here.
const publicDir = "./public"

// Server holds all dependencies and provides handlers.
type Server struct {
	config      *config.Config
	redis       *redis.Client
	codec       *auth.TokenCodec
	storage     storage.BlobStorage
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewServer creates a server instance, establishing the database and Redis
// connections itself.
func NewServer(cfg *config.Config, blob storage.BlobStorage) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, repository.NewUserRepository(db),
		repository.NewPostRepository(db), repository.NewCommentRepository(db),
		blob, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with stub repositories and storage.
func NewServerWithDeps(
	cfg *config.Config,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	blob storage.BlobStorage,
	redisClient *redis.Client,
) *Server {
	return &Server{
		config:      cfg,
		redis:       redisClient,
		codec:       auth.NewTokenCodec(cfg.SessionSecret, auth.DefaultTokenTTL),
		storage:     blob,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// NewApp builds the Fiber app around the given view renderer and wires the
// central error boundary.
func (s *Server) NewApp(views fiber.Views) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Inkwell",
		Views:   views,
		// Handlers hand form values to repositories, which retain them
		// past the request; fasthttp reuses its buffers otherwise.
		Immutable:    true,
		BodyLimit:    storage.MaxUploadSize + 1<<20,
		ErrorHandler: s.handleError,
	})

	s.setupMiddleware(app)
	s.setupRoutes(app)
	return app
}

func (s *Server) setupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())

	// Session decoding runs on every request and never blocks; guards are
	// applied per route below.
	app.Use(middleware.SessionAuth(s.codec, s.config.SessionCookie))

	app.Static("/", publicDir)
}

func (s *Server) setupRoutes(app *fiber.App) {
	app.Get("/", s.Home)

	user := app.Group("/user")
	user.Get("/signup", s.SignupForm)
	user.Post("/signup", s.Signup)
	user.Get("/signin", s.SigninForm)
	user.Post("/signin", s.Signin)
	user.Get("/logout", s.Logout)
	user.Get("/profile", middleware.RequireAuth(), s.Profile)
	user.Post("/profile", middleware.RequireAuth(), s.UpdateProfile)
	user.Post("/password", middleware.RequireAuth(), s.ChangePassword)

	blog := app.Group("/blog")
	blog.Get("/add-new", middleware.RequireAuth(), s.AddBlogForm)
	blog.Post("/", middleware.RequireAuth(), s.CreateBlog)
	blog.Post("/comment/:blogId", middleware.RequireAuth(), s.CreateComment)
	blog.Get("/:id/edit", s.EditBlogForm)
	blog.Post("/:id/edit", s.UpdateBlog)
	blog.Post("/:id/delete", s.DeleteBlog)
	blog.Get("/:id", s.ShowBlog)
}

// handleError is the single error boundary every unhandled route error
// funnels to. It logs full diagnostic detail server-side and returns a
// generic page, never internal structure. Failures under the profile-update
// path re-render the profile page with an inline message instead.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	}
	switch models.ErrorCode(err) {
	case models.CodeNotFound:
		status = fiber.StatusNotFound
	case models.CodeValidation:
		status = fiber.StatusBadRequest
	case models.CodeUnauthenticated:
		status = fiber.StatusUnauthorized
	case models.CodeForbidden:
		status = fiber.StatusForbidden
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)

	if strings.HasPrefix(c.Path(), "/user/profile") {
		claims := middleware.CurrentUser(c)
		return c.Status(status).Render("profile", fiber.Map{
			"User":    claims,
			"Profile": nil,
			"Success": "",
			"Error":   "Unable to update profile. Please try again.",
		})
	}

	if renderErr := c.Status(status).Render("error", fiber.Map{
		"User":   middleware.CurrentUser(c),
		"Status": status,
	}); renderErr != nil {
		return c.Status(status).SendString("Something went wrong")
	}
	return nil
}
