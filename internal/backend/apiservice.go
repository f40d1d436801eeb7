package backend

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/iconforge/internal/backend/assets"
	"github.com/jo-hoe/iconforge/internal/backend/database"
	"github.com/jo-hoe/iconforge/internal/core"
)

const mimePNG = "image/png"

type APIService struct {
	iconService *core.IconService
}

// IconRequest selects a source image and the square size to render it at
type IconRequest struct {
	Source string `query:"source" validate:"required,oneof=icon foreground"`
	Size   int    `query:"size" validate:"min=1,max=4096"`
}

type TargetsResponse struct {
	Targets []assets.Job `json:"targets"`
}

type CacheResponse struct {
	Entries []*database.Asset `json:"entries"`
}

func NewAPIService(iconService *core.IconService) *APIService {
	return &APIService{
		iconService: iconService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/health", s.healthHandler)

	e.GET("/api/targets", s.targetsHandler)
	e.GET("/api/icon", s.iconHandler)
	e.GET("/api/cache", s.cacheHandler)
}

func (s *APIService) healthHandler(ctx echo.Context) error {
	if err := s.iconService.CheckCache(ctx.Request().Context()); err != nil {
		slog.Warn("healthHandler: build cache unavailable",
			"status", http.StatusServiceUnavailable, "error", err)
		return ctx.String(http.StatusServiceUnavailable, "Build cache unavailable")
	}
	return ctx.String(http.StatusOK, "API Service is running")
}

func (s *APIService) cacheHandler(ctx echo.Context) error {
	entries, err := s.iconService.CacheEntries(ctx.Request().Context())
	if err != nil {
		slog.Error("cacheHandler: failed to list cache entries",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to read build cache")
	}
	if entries == nil {
		entries = []*database.Asset{}
	}
	return ctx.JSON(http.StatusOK, CacheResponse{Entries: entries})
}

func (s *APIService) targetsHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, TargetsResponse{Targets: s.iconService.Plan()})
}

func (s *APIService) iconHandler(ctx echo.Context) error {
	req := IconRequest{Source: assets.SourceIcon}
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	data, err := s.iconService.RenderSize(ctx.Request().Context(), req.Source, req.Size)
	if errors.Is(err, core.ErrSourceNotFound) {
		slog.Warn("iconHandler: source not available",
			"status", http.StatusNotFound, "source", req.Source, "error", err)
		return ctx.String(http.StatusNotFound, "Source image not available, run iconforge generate first")
	}
	if err != nil {
		slog.Error("iconHandler: failed to render icon",
			"status", http.StatusInternalServerError, "source", req.Source, "size", req.Size, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render icon")
	}

	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	return ctx.Blob(http.StatusOK, mimePNG, data)
}
