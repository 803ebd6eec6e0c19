// Package controller implements the analyze/render/download flow against an
// injected Surface. Each operation notifies the surface of its outcome and
// also returns the error to the caller.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/heimdex/scenegrab/internal/backend"
	"github.com/heimdex/scenegrab/internal/logging"
	"github.com/heimdex/scenegrab/internal/view"
)

// ArchiveFilename is the name every scene archive is saved under.
const ArchiveFilename = "scenes.zip"

const (
	msgEnterURL       = "Please enter a YouTube URL"
	msgSelectScene    = "Please select at least one scene"
	msgAnalysisFailed = "Error processing video: "
	msgDownloadFailed = "Download failed: "
	msgDownloadOK     = "Video downloaded successfully as: "
	msgScenesFailed   = "Failed to download scenes: "
)

var (
	ErrEmptyURL      = errors.New("url is required")
	ErrNoSelection   = errors.New("no scenes selected")
	ErrUnknownAction = errors.New("unknown action")
)

type Controller struct {
	client  backend.Client
	surface Surface
	logger  *slog.Logger
}

func New(client backend.Client, surface Surface, logger *slog.Logger) *Controller {
	return &Controller{
		client:  client,
		surface: surface,
		logger:  logging.WithComponent(logger, "controller"),
	}
}

// RunAnalysis fetches scenes and then video info for rawURL. The two calls
// are sequential, so scenes are always shown before info.
func (c *Controller) RunAnalysis(ctx context.Context, rawURL string) error {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		c.surface.Alert(msgEnterURL)
		return ErrEmptyURL
	}

	c.surface.SetLoading(true)
	defer c.surface.SetLoading(false)
	c.surface.Clear()

	c.logger.Info("analysis started", "url", logging.SanitizeURL(url))

	if err := c.analyze(ctx, url, rawURL); err != nil {
		c.logger.Error("analysis failed", "error", err)
		c.surface.Alert(msgAnalysisFailed + err.Error())
		return err
	}

	c.logger.Info("analysis finished")
	return nil
}

func (c *Controller) analyze(ctx context.Context, url, rawURL string) error {
	var failed []error

	frames, err := c.client.AnalyzeFrames(ctx, url)
	switch {
	case err == nil:
		c.surface.ShowScenes(view.RenderScenes(frames))
	case backend.IsAppError(err):
		c.logger.Warn("scene analysis unsuccessful", "error", err)
		failed = append(failed, err)
	default:
		return err
	}

	info, err := c.client.AnalyzeVideo(ctx, url)
	switch {
	case err == nil:
		c.surface.ShowVideoInfo(view.RenderVideoInfo(*info, rawURL))
	case backend.IsAppError(err):
		c.logger.Warn("video info analysis unsuccessful", "error", err)
		failed = append(failed, err)
	default:
		return err
	}

	if len(failed) > 0 {
		return &partialError{errs: failed}
	}
	return nil
}

// DownloadVideo asks the backend to store the video at url.
func (c *Controller) DownloadVideo(ctx context.Context, url string) error {
	name, err := c.client.DownloadVideo(ctx, strings.TrimSpace(url))
	if err != nil {
		c.logger.Error("video download failed", "error", err)
		c.surface.Alert(msgDownloadFailed + err.Error())
		return err
	}

	c.surface.Alert(msgDownloadOK + name)
	return nil
}

// DownloadSelectedScenes reads the current selection from the surface and
// saves the archive of the selected frames.
func (c *Controller) DownloadSelectedScenes(ctx context.Context, frames []backend.Frame) error {
	selected := selectFrames(frames, c.surface.CheckedFrames())
	if len(selected) == 0 {
		c.surface.Alert(msgSelectScene)
		return ErrNoSelection
	}

	archive, err := c.client.DownloadFrames(ctx, selected)
	if err != nil {
		c.logger.Error("scene download failed", "error", err, "selected", len(selected))
		c.surface.Alert(msgScenesFailed + err.Error())
		return err
	}

	if err := c.surface.Save(ArchiveFilename, archive); err != nil {
		c.logger.Error("failed to save scene archive", "error", err)
		c.surface.Alert(msgScenesFailed + err.Error())
		return fmt.Errorf("save archive: %w", err)
	}
	return nil
}

// DownloadAllScenes checks every scene and then takes the selected path.
func (c *Controller) DownloadAllScenes(ctx context.Context, frames []backend.Frame) error {
	c.surface.CheckAll()
	return c.DownloadSelectedScenes(ctx, frames)
}

// Dispatch runs the operation an action describes.
func (c *Controller) Dispatch(ctx context.Context, action view.Action) error {
	switch action.Kind {
	case view.ActionDownloadSelected:
		return c.DownloadSelectedScenes(ctx, action.Frames)
	case view.ActionDownloadAll:
		return c.DownloadAllScenes(ctx, action.Frames)
	case view.ActionDownloadVideo:
		return c.DownloadVideo(ctx, action.URL)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
	}
}

// selectFrames maps checked indices to frame data in index order, skipping
// duplicates and indices that do not refer to a frame.
func selectFrames(frames []backend.Frame, checked []int) []string {
	idx := append([]int(nil), checked...)
	sort.Ints(idx)

	selected := make([]string, 0, len(idx))
	prev := -1
	for _, i := range idx {
		if i == prev || i < 0 || i >= len(frames) {
			continue
		}
		prev = i
		selected = append(selected, frames[i].Data)
	}
	return selected
}

type partialError struct {
	errs []error
}

func (e *partialError) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *partialError) Unwrap() []error {
	return e.errs
}
