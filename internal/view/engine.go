package view

import (
	"time"

	"github.com/gofiber/template/html/v2"
)

// NewEngine builds the html/template engine backing the Fiber Views
// interface. Handlers only ever see fiber.Views (template name + data in,
// HTML out), so the engine can be swapped for a stub in tests.
func NewEngine(dir string) *html.Engine {
	engine := html.New(dir, ".html")
	engine.AddFunc("datefmt", func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	})
	return engine
}
