package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jo-hoe/iconforge/internal/backend/assets"
	"github.com/jo-hoe/iconforge/internal/backend/commands"
	"github.com/jo-hoe/iconforge/internal/backend/commandstructure"
	"github.com/jo-hoe/iconforge/internal/backend/database"
	"github.com/jo-hoe/iconforge/internal/backend/iconrender"
	"github.com/jo-hoe/iconforge/internal/common"
)

var (
	// ErrSourceNotFound is returned when a required source image does not exist
	ErrSourceNotFound = errors.New("source image not found")
	// ErrUnknownSource is returned for a source name other than icon or foreground
	ErrUnknownSource = errors.New("unknown source")
)

type ExportStatus string

const (
	StatusCreated   ExportStatus = "Created"
	StatusUnchanged ExportStatus = "Unchanged"
)

type GenerateResult struct {
	IconPath       string
	ForegroundPath string
	FontSource     string
	FallbackFont   bool
}

type ExportOptions struct {
	// Force rewrites every file even when the cache says it is current
	Force bool
}

type ExportResult struct {
	Job    assets.Job
	Status ExportStatus
}

func (r ExportResult) String() string {
	return fmt.Sprintf("%s: %s (%dx%d)", r.Status, r.Job.Path, r.Job.Size, r.Job.Size)
}

type ExportReport struct {
	// Results are in plan order
	Results []ExportResult
	// SkippedGroups lists optional groups whose source was missing
	SkippedGroups []string
	// PrunedCacheEntries counts cache rows removed for paths no longer planned
	PrunedCacheEntries int
}

func (r *ExportReport) Count(status ExportStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

type IconService struct {
	config *ServiceConfig

	cacheMu         sync.Mutex
	cacheOpened     bool
	databaseService database.DatabaseService
}

type sourceImage struct {
	data  []byte
	image image.Image
}

// NewIconService creates the service. The build cache is opened on first use,
// so commands that never consult it leave no cache files behind.
func NewIconService(config *ServiceConfig) *IconService {
	return &IconService{
		config: config,
	}
}

func getDatabaseService(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	if config.Cache.Type == CacheTypeNone {
		slog.Debug("build cache disabled")
		return nil, nil
	}
	if config.Cache.Type == database.TypeSQLite && !strings.HasPrefix(config.Cache.ConnectionString, ":memory:") {
		if err := os.MkdirAll(filepath.Dir(config.Cache.ConnectionString), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	databaseService, err := database.NewDatabase(ctx, config.Cache.Type, config.Cache.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Debug("database initialized successfully", "type", config.Cache.Type)
	return databaseService, nil
}

// cache returns the build cache, opening it on first call; nil when disabled
func (s *IconService) cache(ctx context.Context) (database.DatabaseService, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.cacheOpened {
		return s.databaseService, nil
	}
	databaseService, err := getDatabaseService(ctx, s.config)
	if err != nil {
		return nil, err
	}
	s.databaseService = databaseService
	s.cacheOpened = true
	return databaseService, nil
}

func (s *IconService) Close() error {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.databaseService == nil {
		return nil
	}
	err := s.databaseService.Close()
	s.databaseService = nil
	s.cacheOpened = false
	return err
}

// CheckCache reports an error when the configured build cache cannot be reached
func (s *IconService) CheckCache(ctx context.Context) error {
	databaseService, err := s.cache(ctx)
	if err != nil {
		return err
	}
	if databaseService != nil && !databaseService.DoesDatabaseExist(ctx) {
		return fmt.Errorf("build cache %s is not reachable", s.config.Cache.Type)
	}
	return nil
}

// CacheEntries lists every asset recorded in the build cache, ordered by path
func (s *IconService) CacheEntries(ctx context.Context) ([]*database.Asset, error) {
	databaseService, err := s.cache(ctx)
	if err != nil || databaseService == nil {
		return nil, err
	}
	return databaseService.GetAllAssets(ctx)
}

// Plan returns every file an export would write
func (s *IconService) Plan() []assets.Job {
	return assets.Plan(s.config.Export.Groups, s.config.Export.Root)
}

// GenerateIcons renders the placeholder icon and its transparent foreground variant
func (s *IconService) GenerateIcons(ctx context.Context) (*GenerateResult, error) {
	start := time.Now()
	cfg := s.config.Icon

	face, err := iconrender.LoadFace(cfg.FontPaths, cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()
	if face.Fallback {
		slog.Warn("IconService: no system font found, using default font", "font", face.Source)
	}

	background, err := common.ParseColor(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("failed to parse background: %w", err)
	}
	textColor, err := common.ParseColor(cfg.TextColor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text color: %w", err)
	}

	outputs := []struct {
		path       string
		background color.Color
	}{
		{path: cfg.IconPath, background: background},
		{path: cfg.ForegroundPath, background: color.Transparent},
	}
	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := iconrender.Render(iconrender.Options{
			Size:       cfg.CanvasSize,
			Text:       cfg.Text,
			Background: out.background,
			TextColor:  textColor,
			Face:       face,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", out.path, err)
		}
		data, err := commands.EncodePNG(img)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", out.path, err)
		}
		if err := writeFileAtomic(out.path, data); err != nil {
			return nil, err
		}
	}

	slog.Info("IconService: generated icons",
		"icon", cfg.IconPath,
		"foreground", cfg.ForegroundPath,
		"font", face.Source,
		"duration", time.Since(start))

	return &GenerateResult{
		IconPath:       cfg.IconPath,
		ForegroundPath: cfg.ForegroundPath,
		FontSource:     face.Source,
		FallbackFont:   face.Fallback,
	}, nil
}

// ExportIcons resizes the sources into every planned file. The icon source is
// required; groups reading a missing optional source are skipped. The first
// failing job cancels the rest.
func (s *IconService) ExportIcons(ctx context.Context, opts ExportOptions) (*ExportReport, error) {
	start := time.Now()
	report := &ExportReport{}

	sources, skipped, err := s.loadSources()
	if err != nil {
		return nil, err
	}
	databaseService, err := s.cache(ctx)
	if err != nil {
		return nil, err
	}

	var jobs []assets.Job
	for _, job := range s.Plan() {
		if _, ok := sources[job.Source]; ok {
			jobs = append(jobs, job)
		}
	}
	for _, group := range s.config.Export.Groups {
		if skipped[group.Source] {
			slog.Info("IconService: skipping group, source not found", "group", group.Name, "source", group.Source)
			report.SkippedGroups = append(report.SkippedGroups, group.Name)
		}
	}

	results := make([]ExportResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Export.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			status, err := s.exportJob(gctx, databaseService, job, sources[job.Source], opts.Force)
			if err != nil {
				return fmt.Errorf("failed to export %s: %w", job.Path, err)
			}
			results[i] = ExportResult{Job: job, Status: status}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Results = results
	if databaseService != nil {
		pruned, err := s.pruneCache(ctx, databaseService)
		if err != nil {
			slog.Warn("IconService: failed to prune build cache", "error", err)
		}
		report.PrunedCacheEntries = pruned
	}
	slog.Info("IconService: exported icons",
		"created", report.Count(StatusCreated),
		"unchanged", report.Count(StatusUnchanged),
		"skippedGroups", len(report.SkippedGroups),
		"prunedCacheEntries", report.PrunedCacheEntries,
		"duration", time.Since(start))
	return report, nil
}

// RenderSize returns the named source resized to size x size as PNG
func (s *IconService) RenderSize(ctx context.Context, source string, size int) ([]byte, error) {
	path, err := s.sourcePath(source)
	if err != nil {
		return nil, err
	}
	src, err := s.readSource(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scale, err := s.newScaleCommand(size)
	if err != nil {
		return nil, err
	}
	out, err := scale.Execute(src.image)
	if err != nil {
		return nil, err
	}
	return commands.EncodePNG(out)
}

func (s *IconService) sourcePath(source string) (string, error) {
	switch source {
	case assets.SourceIcon:
		return s.config.Icon.IconPath, nil
	case assets.SourceForeground:
		return s.config.Icon.ForegroundPath, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// loadSources decodes each source referenced by the groups once. Missing
// sources only used by optional groups are reported in skipped.
func (s *IconService) loadSources() (map[string]*sourceImage, map[string]bool, error) {
	required := map[string]bool{assets.SourceIcon: true}
	used := map[string]bool{}
	for _, group := range s.config.Export.Groups {
		used[group.Source] = true
		if group.Required {
			required[group.Source] = true
		}
	}

	sources := make(map[string]*sourceImage)
	skipped := make(map[string]bool)
	for _, name := range []string{assets.SourceIcon, assets.SourceForeground} {
		if !used[name] && !required[name] {
			continue
		}
		path, err := s.sourcePath(name)
		if err != nil {
			return nil, nil, err
		}
		src, err := s.readSource(path)
		if errors.Is(err, ErrSourceNotFound) && !required[name] {
			skipped[name] = true
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		sources[name] = src
	}
	return sources, skipped, nil
}

func (s *IconService) readSource(path string) (*sourceImage, error) {
	data, err := os.ReadFile(path)
	if isNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}
	img, format, err := commands.DecodeImage(data, s.config.Export.SVGFallbackSize)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source %s: %w", path, err)
	}
	slog.Debug("IconService: loaded source", "path", path, "format", format, "bounds", img.Bounds())
	return &sourceImage{data: data, image: img}, nil
}

func (s *IconService) exportJob(ctx context.Context, databaseService database.DatabaseService, job assets.Job, src *sourceImage, force bool) (ExportStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	digest, err := s.jobDigest(job, src)
	if err != nil {
		return "", err
	}
	if !force && isCurrent(ctx, databaseService, job, digest) {
		slog.Debug("IconService: unchanged", "path", job.Path)
		return StatusUnchanged, nil
	}

	scale, err := s.newScaleCommand(job.Size)
	if err != nil {
		return "", err
	}
	scaled, err := scale.Execute(src.image)
	if err != nil {
		return "", fmt.Errorf("command %s failed: %w", scale.Name(), err)
	}
	out, err := commandstructure.ExecuteCommands(scaled, job.Commands)
	if err != nil {
		return "", err
	}

	data, err := commands.EncodePNG(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	if err := writeFileAtomic(job.Path, data); err != nil {
		return "", err
	}

	if databaseService != nil {
		asset := &database.Asset{Path: job.Path, Digest: digest, Size: job.Size, UpdatedAt: time.Now()}
		if err := databaseService.PutAsset(ctx, asset); err != nil {
			slog.Warn("IconService: failed to record asset in cache", "path", job.Path, "error", err)
		}
	}
	return StatusCreated, nil
}

func (s *IconService) newScaleCommand(size int) (*commands.ScaleCommand, error) {
	return commands.NewScaleCommandWithMode(size, size, s.config.Export.Interpolation, s.config.Export.Fit)
}

// pruneCache removes cache rows whose path is no longer part of the plan
func (s *IconService) pruneCache(ctx context.Context, databaseService database.DatabaseService) (int, error) {
	planned := make(map[string]bool)
	for _, job := range s.Plan() {
		planned[job.Path] = true
	}
	recorded, err := databaseService.GetAllAssets(ctx)
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, asset := range recorded {
		if planned[asset.Path] {
			continue
		}
		if err := databaseService.DeleteAsset(ctx, asset.Path); err != nil {
			return pruned, err
		}
		slog.Debug("IconService: pruned cache entry", "path", asset.Path)
		pruned++
	}
	return pruned, nil
}

// isCurrent reports whether the file exists and was built from the same inputs
func isCurrent(ctx context.Context, databaseService database.DatabaseService, job assets.Job, digest string) bool {
	if databaseService == nil {
		return false
	}
	if _, err := os.Stat(job.Path); err != nil {
		return false
	}
	asset, err := databaseService.GetAsset(ctx, job.Path)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			slog.Warn("IconService: cache lookup failed", "path", job.Path, "error", err)
		}
		return false
	}
	return asset.Digest == digest && asset.Size == job.Size
}

func (s *IconService) jobDigest(job assets.Job, src *sourceImage) (string, error) {
	pipeline, err := json.Marshal(job.Commands)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint pipeline: %w", err)
	}
	return database.Digest(
		src.data,
		[]byte(strconv.Itoa(job.Size)),
		[]byte(s.config.Export.Interpolation),
		[]byte(s.config.Export.Fit),
		pipeline,
	), nil
}

// writeFileAtomic writes data next to path and renames it into place
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
