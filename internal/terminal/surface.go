// Package terminal renders analysis results to a terminal and an output
// directory. Thumbnails become JPEG files; alerts go to the error stream.
package terminal

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/heimdex/scenegrab/internal/logging"
	"github.com/heimdex/scenegrab/internal/save"
	"github.com/heimdex/scenegrab/internal/view"
)

type Surface struct {
	out    io.Writer
	errOut io.Writer
	dir    string
	logger *slog.Logger

	loading bool
	scenes  *view.Scenes
	info    *view.VideoInfo
	checked map[int]bool
	alerts  []string
}

// New returns a surface printing to out and errOut and writing files into
// dir, which must already exist.
func New(out, errOut io.Writer, dir string, logger *slog.Logger) *Surface {
	return &Surface{
		out:     out,
		errOut:  errOut,
		dir:     dir,
		logger:  logging.WithComponent(logger, "terminal"),
		checked: make(map[int]bool),
	}
}

func (s *Surface) Clear() {
	s.scenes = nil
	s.info = nil
	s.checked = make(map[int]bool)
}

func (s *Surface) SetLoading(loading bool) {
	if loading && !s.loading {
		fmt.Fprintln(s.errOut, "Analyzing video...")
	}
	s.loading = loading
}

func (s *Surface) Alert(message string) {
	s.alerts = append(s.alerts, message)
	fmt.Fprintf(s.errOut, "! %s\n", message)
}

func (s *Surface) ShowScenes(scenes view.Scenes) {
	s.scenes = &scenes

	fmt.Fprintf(s.out, "\n%s\n\n", scenes.Title)
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tSCENE\tFILE")
	for _, th := range scenes.Thumbnails {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", th.Index, th.Caption, s.writeThumbnail(th))
	}
	tw.Flush()

	if len(scenes.Thumbnails) > 0 {
		fmt.Fprintf(s.out, "\nSelect scenes with -select (e.g. -select 0,%d) or use -all.\n", len(scenes.Thumbnails)-1)
	}
}

func (s *Surface) writeThumbnail(th view.Thumbnail) string {
	if !th.Valid {
		return "(invalid image data)"
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(th.Src, view.DataURIPrefix))
	if err != nil {
		return "(invalid image data)"
	}

	path, err := save.WriteFile(s.dir, fmt.Sprintf("scene_%03d.jpg", th.Index), data)
	if err != nil {
		s.logger.Warn("failed to write thumbnail", "index", th.Index, "error", err)
		return "(write failed)"
	}
	return path
}

func (s *Surface) ShowVideoInfo(info view.VideoInfo) {
	s.info = &info

	fmt.Fprintf(s.out, "\n%s\n\n", info.Title)
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, row := range info.Rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Label, row.Value)
	}
	tw.Flush()
}

func (s *Surface) CheckedFrames() []int {
	idx := make([]int, 0, len(s.checked))
	for i, on := range s.checked {
		if on {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	return idx
}

func (s *Surface) CheckAll() {
	if s.scenes == nil {
		return
	}
	for _, th := range s.scenes.Thumbnails {
		s.checked[th.Index] = true
	}
}

// SetChecked replaces the selection. Indices without a thumbnail are kept and
// later ignored by the controller.
func (s *Surface) SetChecked(indices []int) {
	s.checked = make(map[int]bool, len(indices))
	for _, i := range indices {
		s.checked[i] = true
	}
}

func (s *Surface) Save(filename string, data []byte) error {
	path, err := save.WriteFile(s.dir, filename, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
	return nil
}

// Action looks up a rendered action by kind.
func (s *Surface) Action(kind view.ActionKind) (view.Action, bool) {
	return view.Find(s.scenes, s.info, kind)
}

func (s *Surface) Alerts() []string {
	return s.alerts
}
