package controller

import "github.com/heimdex/scenegrab/internal/view"

// Surface is the rendering context the controller drives. Implementations
// own all display state; the controller never caches what a surface shows.
type Surface interface {
	// Clear removes all previously rendered results.
	Clear()
	SetLoading(loading bool)
	// Alert shows a blocking, human-readable notification.
	Alert(message string)
	ShowScenes(scenes view.Scenes)
	ShowVideoInfo(info view.VideoInfo)
	// CheckedFrames returns the indices whose checkbox is currently checked.
	CheckedFrames() []int
	CheckAll()
	// Save hands a finished download to the user under filename.
	Save(filename string, data []byte) error
}
