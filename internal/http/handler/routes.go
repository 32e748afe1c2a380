package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"memberdoc/api"
	"memberdoc/internal/http/middleware"
	"memberdoc/internal/service"
	"memberdoc/internal/template"
	"memberdoc/web"
)

// Deps are the collaborators the HTTP routes need. DB is nil when event storage is disabled.
type Deps struct {
	Documents service.DocumentService
	Template  template.Source
	DB        *sql.DB
	Logger    *zap.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	log := orNop(d.Logger)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Type("html").Send(web.Index)
	})

	// OpenAPI document and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.Send(api.Spec)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(swaggerPage)
	})

	app.Get("/health", HealthCheck(d.Template, d.DB))
	app.Get("/healthz", LivenessProbe())

	docs := app.Group("/api", middleware.NoStore())
	docs.Post("/generate-docx", GenerateDocx(d.Documents, log))
	docs.Post("/preview-doc", PreviewDoc(d.Documents, log))
	docs.Get("/generation-events", ListGenerationEvents(d.Documents, log))
}

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Member Document API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
