package http

import (
	"encoding/json"
	"html"
	"log/slog"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
)

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{title}} - Swagger UI</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>html{box-sizing:border-box}*,*::before,*::after{box-sizing:inherit}body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/docs/openapi.json',
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout',
    });
  </script>
</body>
</html>`

// OpenAPIPath is where the served OpenAPI document lives, relative to the
// working directory.
const OpenAPIPath = "api/openapi.yaml"

// apiDocs is the OpenAPI document parsed once at startup.
type apiDocs struct {
	raw  []byte
	doc  *openapi3.T
	page string
}

func loadDocs(specPath string) (*apiDocs, error) {
	raw, err := os.ReadFile(specPath)
	if err != nil {
		return nil, err
	}
	doc, err := openapi3.NewLoader().LoadFromData(raw)
	if err != nil {
		return nil, err
	}

	title := "API"
	if doc.Info != nil && doc.Info.Title != "" {
		title = doc.Info.Title
		if doc.Info.Version != "" {
			title += " " + doc.Info.Version
		}
	}
	page := strings.Replace(swaggerUIHTML, "{{title}}", html.EscapeString(title), 1)
	return &apiDocs{raw: raw, doc: doc, page: page}, nil
}

// forServer returns the document as JSON with servers pointing at baseURL,
// so "Try it out" in the UI calls the instance that served it.
func (d *apiDocs) forServer(baseURL string) ([]byte, error) {
	doc := *d.doc
	doc.Servers = openapi3.Servers{{URL: baseURL, Description: "This instance"}}
	return json.Marshal(&doc)
}

// SetupDocs registers Swagger UI at /docs, the raw document at
// /docs/openapi.yaml and a server-relative JSON rendition at
// /docs/openapi.json. A missing or invalid document disables the routes
// with 404s instead of failing startup.
func SetupDocs(app *fiber.App, specPath string) {
	if specPath == "" {
		specPath = OpenAPIPath
	}

	docs, err := loadDocs(specPath)
	if err != nil {
		slog.Warn("openapi document unavailable, /docs disabled", "path", specPath, "error", err)
	}
	unavailable := func(c *fiber.Ctx) error {
		return errNotFound(c, "openapi document not found")
	}
	if docs == nil {
		app.Get("/docs", unavailable)
		app.Get("/docs/openapi.yaml", unavailable)
		app.Get("/docs/openapi.json", unavailable)
		return
	}

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/html; charset=utf-8")
		return c.SendString(docs.page)
	})

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "application/yaml")
		return c.Send(docs.raw)
	})

	app.Get("/docs/openapi.json", func(c *fiber.Ctx) error {
		data, err := docs.forServer(c.BaseURL())
		if err != nil {
			return errInternal(c, "render openapi document")
		}
		c.Set("Content-Type", "application/json")
		return c.Send(data)
	})
}
