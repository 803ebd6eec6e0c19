// Package view turns backend results into declarative descriptions of what a
// surface should display. It performs no I/O.
package view

import (
	"encoding/base64"
	"fmt"

	"github.com/heimdex/scenegrab/internal/backend"
)

// Placeholder is shown for any metadata field the backend left empty.
const Placeholder = "N/A"

// DataURIPrefix precedes the base64 payload of every thumbnail source.
const DataURIPrefix = "data:image/jpeg;base64,"

type ActionKind string

const (
	ActionDownloadSelected ActionKind = "download-selected"
	ActionDownloadAll      ActionKind = "download-all"
	ActionDownloadVideo    ActionKind = "download-video"
)

// Action is a user-triggerable command bound to the data it operates on.
// Scene actions carry the frame list they were rendered from; the selection
// itself is read from the surface when the action fires.
type Action struct {
	Kind   ActionKind
	Label  string
	Frames []backend.Frame
	URL    string
}

type Thumbnail struct {
	Index   int
	Src     string
	Caption string
	Valid   bool
}

type Scenes struct {
	Title      string
	Thumbnails []Thumbnail
	Actions    []Action
}

type Row struct {
	Label string
	Value string
}

type VideoInfo struct {
	Title  string
	Rows   []Row
	Action Action
}

// RenderScenes produces one thumbnail per frame, indexed in response order,
// followed by the selected and select-all download actions.
func RenderScenes(frames []backend.Frame) Scenes {
	thumbs := make([]Thumbnail, len(frames))
	for i, f := range frames {
		thumbs[i] = Thumbnail{
			Index:   i,
			Src:     DataURIPrefix + f.Data,
			Caption: caption(i, f),
			Valid:   isBase64(f.Data),
		}
	}

	return Scenes{
		Title:      "Scene Analysis Results",
		Thumbnails: thumbs,
		Actions: []Action{
			{Kind: ActionDownloadSelected, Label: "Download Selected Scenes", Frames: frames},
			{Kind: ActionDownloadAll, Label: "Download All Scenes", Frames: frames},
		},
	}
}

// RenderVideoInfo lays out the six metadata rows in fixed order. The download
// action keeps the URL exactly as entered.
func RenderVideoInfo(info backend.VideoInfo, url string) VideoInfo {
	return VideoInfo{
		Title: "Video Information",
		Rows: []Row{
			{Label: "Title", Value: orPlaceholder(info.Title)},
			{Label: "Author", Value: orPlaceholder(info.Author)},
			{Label: "Upload Date", Value: orPlaceholder(info.PublishDate)},
			{Label: "Duration", Value: orPlaceholder(info.Duration)},
			{Label: "Views", Value: orPlaceholder(info.Views)},
			{Label: "File Size", Value: orPlaceholder(info.FileSize)},
		},
		Action: Action{Kind: ActionDownloadVideo, Label: "Download Video", URL: url},
	}
}

// Find returns the action of the given kind among the rendered sections.
func Find(scenes *Scenes, info *VideoInfo, kind ActionKind) (Action, bool) {
	if scenes != nil {
		for _, a := range scenes.Actions {
			if a.Kind == kind {
				return a, true
			}
		}
	}
	if info != nil && info.Action.Kind == kind {
		return info.Action, true
	}
	return Action{}, false
}

func orPlaceholder(t backend.Text) string {
	if t == "" {
		return Placeholder
	}
	return string(t)
}

func caption(i int, f backend.Frame) string {
	if f.Timestamp == nil {
		return fmt.Sprintf("Scene %d", i+1)
	}
	return fmt.Sprintf("Scene %d (%s)", i+1, formatTimestamp(*f.Timestamp))
}

func formatTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	total := int(sec)
	return fmt.Sprintf("%d:%02d.%d", total/60, total%60, int((sec-float64(total))*10))
}

func isBase64(s string) bool {
	if s == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
