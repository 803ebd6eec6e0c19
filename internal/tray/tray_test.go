package tray

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestStatusTitle(t *testing.T) {
	if got := statusTitle(false); got != "Status: Idle" {
		t.Errorf("statusTitle(false) = %q", got)
	}
	if got := statusTitle(true); got != "Status: Analyzing" {
		t.Errorf("statusTitle(true) = %q", got)
	}
}

func TestIcon_IsPNG(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(iconBytes))
	if err != nil {
		t.Fatalf("icon is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 22 || b.Dy() != 22 {
		t.Errorf("icon size = %dx%d, want 22x22", b.Dx(), b.Dy())
	}
}

func TestSetLoading_BeforeReady(t *testing.T) {
	tr := NewTray(TrayConfig{URL: "http://127.0.0.1:8788/"})

	tr.SetLoading(true)

	if !tr.loading {
		t.Error("loading state not recorded")
	}
}

func TestHandleOpen(t *testing.T) {
	tr := NewTray(TrayConfig{URL: "http://127.0.0.1:8788/"})

	var opened string
	tr.openURL = func(u string) error {
		opened = u
		return errors.New("no browser")
	}
	tr.handleOpen()

	if opened != "http://127.0.0.1:8788/" {
		t.Errorf("opened %q", opened)
	}
}
