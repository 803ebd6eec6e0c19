package web

import (
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heimdex/scenegrab/internal/logging"
	"github.com/heimdex/scenegrab/internal/view"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	cfg.Logger = logging.WithComponent(cfg.Logger, "web")

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(LoopbackOnly(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Get("/", indexHandler(cfg))
	r.Post("/analyze", analyzeHandler(cfg))
	r.Post("/actions/{kind}", actionHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:     "ok",
			Version:    cfg.Version,
			UptimeS:    uptime,
			BackendURL: cfg.BackendURL,
			Analyzing:  cfg.Page.Loading(),
		})
	}
}

func indexHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newPageData(cfg.Page.snapshot(), cfg.Version)
		if err := renderPage(w, data); err != nil {
			cfg.Logger.Error("failed to render page", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to render page", "INTERNAL_ERROR")
		}
	}
}

func analyzeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid form", "INVALID_REQUEST")
			return
		}

		raw := r.PostFormValue("url")
		cfg.Page.SetURL(raw)

		// Failures are already on the page as alerts.
		if err := cfg.Controller.RunAnalysis(r.Context(), raw); err != nil {
			cfg.Logger.Debug("analysis returned error", "error", err)
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func actionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := view.ActionKind(chi.URLParam(r, "kind"))

		if err := r.ParseForm(); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid form", "INVALID_REQUEST")
			return
		}

		if kind == view.ActionDownloadSelected || kind == view.ActionDownloadAll {
			cfg.Page.SetChecked(parseIndices(r.PostForm["frame"]))
		}

		action, ok := cfg.Page.Action(kind)
		if !ok {
			WriteError(w, http.StatusNotFound, "action not available", "NOT_FOUND")
			return
		}

		if err := cfg.Controller.Dispatch(r.Context(), action); err != nil {
			cfg.Logger.Debug("action returned error", "action", string(kind), "error", err)
		}

		if dl := cfg.Page.TakeDownload(); dl != nil {
			writeAttachment(w, dl)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func writeAttachment(w http.ResponseWriter, dl *Download) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(dl.Data)
}

// parseIndices keeps values that parse as non-negative integers.
func parseIndices(values []string) []int {
	idx := make([]int, 0, len(values))
	for _, v := range values {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}
