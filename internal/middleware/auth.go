package middleware

import (
	"context"

	"inkwell/internal/auth"
	"inkwell/internal/view"

	"github.com/gofiber/fiber/v2"
)

// currentUserKey is the Fiber locals key holding the decoded session claims.
const currentUserKey = "currentUser"

// SignInPath is where unauthenticated browser requests are redirected.
const SignInPath = "/user/signin"

// SessionAuth returns the cookie authentication middleware. It runs on every
// request and never blocks: an absent cookie proceeds anonymously, and a
// cookie that fails to decode also proceeds anonymously. A forged or
// corrupted cookie degrades to "logged out", not to an error page, so decode
// failures are not surfaced or logged as failures.
func SessionAuth(codec *auth.TokenCodec, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenValue := c.Cookies(cookieName)
		if tokenValue == "" {
			return c.Next()
		}

		claims, err := codec.Decode(tokenValue)
		if err != nil {
			// Fail-open to anonymous.
			return c.Next()
		}

		// Tokens issued before the static mount moved may still carry the
		// legacy avatar prefix.
		claims.ProfileImageURL = view.NormalizeAvatarURL(claims.ProfileImageURL)

		c.Locals(currentUserKey, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, claims.UserID()))
		return c.Next()
	}
}

// CurrentUser returns the session claims attached by SessionAuth, or nil for
// an anonymous request.
func CurrentUser(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(currentUserKey).(*auth.Claims)
	return claims
}

// RequireAuth rejects anonymous requests to protected browser routes by
// redirecting to the sign-in page rather than returning an error status.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Redirect(SignInPath, fiber.StatusFound)
		}
		return c.Next()
	}
}
