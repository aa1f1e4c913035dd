package window

import (
	"testing"

	"github.com/Carmen-Shannon/flycam/common"
)

type keyEvent struct {
	key     uint32
	pressed bool
}

func TestHandleKeyForwardsEvents(t *testing.T) {
	w := newEngineWindow()
	var got []keyEvent
	w.SetKeyCallback(func(keyCode uint32, pressed bool) {
		got = append(got, keyEvent{keyCode, pressed})
	})

	w.handleKey(common.KeyW, true)
	w.handleKey(common.KeyW, false)

	want := []keyEvent{{common.KeyW, true}, {common.KeyW, false}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("key events\nhave %v\nwant %v", got, want)
	}
	if w.closeRequested {
		t.Fatal("closeRequested\nhave true\nwant false")
	}
}

func TestHandleKeyCloseKey(t *testing.T) {
	w := newEngineWindow()
	called := false
	w.SetKeyCallback(func(uint32, bool) { called = true })

	w.handleKey(common.KeyEsc, false)
	if w.closeRequested {
		t.Fatal("release of close key\nhave closeRequested\nwant no close")
	}
	w.handleKey(common.KeyEsc, true)
	if !w.closeRequested {
		t.Fatal("press of close key\nhave no close\nwant closeRequested")
	}
	if called {
		t.Fatal("close key reached the key callback")
	}
	if w.IsRunning() {
		t.Fatal("IsRunning after close\nhave true\nwant false")
	}
}

func TestWithCloseKey(t *testing.T) {
	w := newEngineWindow(WithCloseKey(common.KeyEnter))
	var got []keyEvent
	w.SetKeyCallback(func(k uint32, p bool) { got = append(got, keyEvent{k, p}) })

	w.handleKey(common.KeyEsc, true)
	if w.closeRequested || len(got) != 1 {
		t.Fatalf("Esc with Enter as close key\nhave close=%v events=%v\nwant forwarded", w.closeRequested, got)
	}
	w.handleKey(common.KeyEnter, true)
	if !w.closeRequested {
		t.Fatal("Enter as close key\nhave no close\nwant closeRequested")
	}
}

func TestHandleCursorScalesToFramebuffer(t *testing.T) {
	w := newEngineWindow()
	var x, y float64
	w.SetCursorCallback(func(cx, cy float64) { x, y = cx, cy })

	w.handleCursor(10.5, 20)
	if x != 10.5 || y != 20 {
		t.Fatalf("unscaled cursor\nhave %v %v\nwant 10.5 20", x, y)
	}

	w.updateCursorScale(800, 600, 1600, 1200)
	w.handleCursor(10.5, 20)
	if x != 21 || y != 40 {
		t.Fatalf("scaled cursor\nhave %v %v\nwant 21 40", x, y)
	}

	w.updateCursorScale(0, 0, 0, 0)
	w.handleCursor(1, 1)
	if x != 2 || y != 2 {
		t.Fatalf("cursor after zero-size update\nhave %v %v\nwant 2 2", x, y)
	}
}

func TestHandleResize(t *testing.T) {
	w := newEngineWindow(WithWidth(320), WithHeight(240))
	if w.Width() != 320 || w.Height() != 240 {
		t.Fatalf("initial size\nhave %dx%d\nwant 320x240", w.Width(), w.Height())
	}
	var gotW, gotH int
	w.SetResizeCallback(func(width, height int) { gotW, gotH = width, height })
	w.handleResize(1024, 0)
	if gotW != 1024 || gotH != 0 || w.Width() != 1024 || w.Height() != 0 {
		t.Fatalf("resize\nhave cb %dx%d stored %dx%d\nwant 1024x0", gotW, gotH, w.Width(), w.Height())
	}
}
