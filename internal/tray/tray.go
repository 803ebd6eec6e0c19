// Package tray shows a system tray icon mirroring the web UI's loading state.
package tray

import (
	_ "embed"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
	"github.com/heimdex/scenegrab/internal/logging"
	"github.com/pkg/browser"
)

//go:embed icon.png
var iconBytes []byte

type Tray struct {
	url    string
	logger *slog.Logger

	statusItem *systray.MenuItem

	mu      sync.Mutex
	ready   bool
	loading bool

	openURL func(string) error
	onQuit  func()
}

type TrayConfig struct {
	// URL is the address of the web UI.
	URL    string
	Logger *slog.Logger
	OnQuit func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		url:     cfg.URL,
		logger:  logging.WithComponent(cfg.Logger, "tray"),
		openURL: browser.OpenURL,
		onQuit:  cfg.OnQuit,
	}
}

// Run blocks until the tray exits.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Scene Grab")
	systray.SetTooltip("Scene Grab " + t.url)

	t.mu.Lock()
	t.statusItem = systray.AddMenuItem(statusTitle(t.loading), "Current status")
	t.statusItem.Disable()
	t.ready = true
	t.mu.Unlock()

	addrItem := systray.AddMenuItem(t.url, "Web UI address")
	addrItem.Disable()

	systray.AddSeparator()

	openItem := systray.AddMenuItem("Open in Browser", "Open the web UI")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Scene Grab")

	go func() {
		for {
			select {
			case <-openItem.ClickedCh:
				t.handleOpen()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) handleOpen() {
	if err := t.openURL(t.url); err != nil {
		t.logger.Error("failed to open browser", "error", err)
	}
}

// SetLoading updates the status item. It may be called before the tray is
// ready; the state is applied once the menu exists.
func (t *Tray) SetLoading(loading bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.loading = loading
	if t.ready {
		t.statusItem.SetTitle(statusTitle(loading))
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}

func statusTitle(loading bool) string {
	if loading {
		return "Status: Analyzing"
	}
	return "Status: Idle"
}
