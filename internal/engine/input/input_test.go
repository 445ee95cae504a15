package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestIsButtonDown(t *testing.T) {
	i := New()
	if i.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("no button should be down initially")
	}

	i.buttons[sdl.BUTTON_LEFT] = true
	if !i.IsButtonDown(sdl.BUTTON_LEFT) || i.IsButtonDown(sdl.BUTTON_RIGHT) {
		t.Error("button state not tracked per button")
	}
}
