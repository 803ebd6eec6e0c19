package web

import (
	"sort"
	"sync"

	"github.com/heimdex/scenegrab/internal/view"
)

// Download is a finished archive waiting to be handed to the browser.
type Download struct {
	Filename string
	Data     []byte
}

// Page holds the state of the single browser page the web UI serves. It is
// the controller's Surface; handlers read it to render and write checkbox
// state into it before dispatching an action.
type Page struct {
	mu sync.Mutex

	url     string
	loading bool
	alerts  []string
	scenes  *view.Scenes
	info    *view.VideoInfo
	checked map[int]bool
	pending *Download

	onLoading func(bool)
}

func NewPage() *Page {
	return &Page{checked: make(map[int]bool)}
}

// OnLoading registers fn to be called whenever the loading indicator changes.
func (p *Page) OnLoading(fn func(bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onLoading = fn
}

func (p *Page) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scenes = nil
	p.info = nil
	p.checked = make(map[int]bool)
}

func (p *Page) SetLoading(loading bool) {
	p.mu.Lock()
	p.loading = loading
	fn := p.onLoading
	p.mu.Unlock()

	if fn != nil {
		fn(loading)
	}
}

func (p *Page) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, message)
}

func (p *Page) ShowScenes(scenes view.Scenes) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scenes = &scenes
}

func (p *Page) ShowVideoInfo(info view.VideoInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.info = &info
}

func (p *Page) CheckedFrames() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := make([]int, 0, len(p.checked))
	for i, on := range p.checked {
		if on {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	return idx
}

func (p *Page) CheckAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scenes == nil {
		return
	}
	for _, th := range p.scenes.Thumbnails {
		p.checked[th.Index] = true
	}
}

// Save parks the archive until the handler that triggered it streams it out.
func (p *Page) Save(filename string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = &Download{Filename: filename, Data: data}
	return nil
}

// SetURL records the value of the URL input.
func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

// SetChecked mirrors the checkboxes the browser submitted.
func (p *Page) SetChecked(indices []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checked = make(map[int]bool, len(indices))
	for _, i := range indices {
		p.checked[i] = true
	}
}

func (p *Page) Action(kind view.ActionKind) (view.Action, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return view.Find(p.scenes, p.info, kind)
}

// TakeDownload returns the pending download, if any, and drops the page's
// reference to it.
func (p *Page) TakeDownload() *Download {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.pending
	p.pending = nil
	return d
}

func (p *Page) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// snapshot copies the renderable state and drains pending alerts, which are
// shown exactly once.
func (p *Page) snapshot() pageState {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := pageState{
		URL:     p.url,
		Loading: p.loading,
		Alerts:  p.alerts,
		Scenes:  p.scenes,
		Info:    p.info,
		Checked: make(map[int]bool, len(p.checked)),
	}
	for i, on := range p.checked {
		st.Checked[i] = on
	}
	p.alerts = nil
	return st
}

type pageState struct {
	URL     string
	Loading bool
	Alerts  []string
	Scenes  *view.Scenes
	Info    *view.VideoInfo
	Checked map[int]bool
}
