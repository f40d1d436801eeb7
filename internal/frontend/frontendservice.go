package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/iconforge/internal/backend/assets"
	"github.com/jo-hoe/iconforge/internal/core"
)

const (
	MainPageName = "index.html"
	viewsPattern = "views/*.html"
)

var (
	//go:embed views/*.html
	templateFS embed.FS
	//go:embed views/icon.svg
	assetsFS embed.FS
)

// Template renders the embedded views for echo
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data any, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

type FrontendService struct {
	iconService *core.IconService
}

type groupView struct {
	Name string
	Jobs []assets.Job
}

type pageData struct {
	Jobs      []assets.Job
	Groups    []groupView
	Timestamp string
}

func NewFrontendService(iconService *core.IconService) *FrontendService {
	return &FrontendService{
		iconService: iconService,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler)
	e.GET("/"+MainPageName, service.indexHandler)
	e.GET("/htmx/targets", service.htmxTargetsHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, MainPageName, service.buildPageData())
}

func (service *FrontendService) htmxTargetsHandler(ctx echo.Context) error {
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, "targets", service.buildPageData())
}

// buildPageData groups the plan by group name, keeping plan order
func (service *FrontendService) buildPageData() pageData {
	jobs := service.iconService.Plan()
	data := pageData{
		Jobs:      jobs,
		Timestamp: fmt.Sprintf("%d", time.Now().UnixNano()),
	}
	for _, job := range jobs {
		n := len(data.Groups)
		if n == 0 || data.Groups[n-1].Name != job.Group {
			data.Groups = append(data.Groups, groupView{Name: job.Group})
			n++
		}
		data.Groups[n-1].Jobs = append(data.Groups[n-1].Jobs, job)
	}
	return data
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}
