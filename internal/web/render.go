package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/heimdex/scenegrab/internal/view"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	URL     string
	Loading bool
	Alerts  []string
	Scenes  *scenesData
	Info    *view.VideoInfo
	Version string
}

type scenesData struct {
	Title   string
	Items   []sceneItem
	Actions []view.Action
}

type sceneItem struct {
	Index   int
	Src     template.URL
	Caption string
	Valid   bool
	Checked bool
}

func newPageData(st pageState, version string) pageData {
	data := pageData{
		URL:     st.URL,
		Loading: st.Loading,
		Alerts:  st.Alerts,
		Info:    st.Info,
		Version: version,
	}
	if st.Scenes == nil {
		return data
	}

	items := make([]sceneItem, len(st.Scenes.Thumbnails))
	for i, th := range st.Scenes.Thumbnails {
		items[i] = sceneItem{
			Index:   th.Index,
			Caption: th.Caption,
			Valid:   th.Valid,
			Checked: st.Checked[th.Index],
		}
		// html/template rewrites data: URLs to #ZgotmplZ unless marked safe;
		// only payloads that decoded as base64 get that mark.
		if th.Valid {
			items[i].Src = template.URL(th.Src)
		}
	}
	data.Scenes = &scenesData{
		Title:   st.Scenes.Title,
		Items:   items,
		Actions: st.Scenes.Actions,
	}
	return data
}

func renderPage(w http.ResponseWriter, data pageData) error {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, err := buf.WriteTo(w)
	return err
}
