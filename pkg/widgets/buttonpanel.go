package widgets

import (
	"github.com/raykavin/chartoverlay/pkg/overlay"
)

const (
	panelButtonSize = 22
	panelButtonGap  = 4
)

// Button is one action in a button panel (pane collapse, settings gear).
type Button struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
}

// ButtonPanel is a horizontal strip of square action buttons.
type ButtonPanel struct {
	Base
	buttons []Button
	onPress func(Button)
}

// NewButtonPanel creates a panel with the given buttons.
func NewButtonPanel(id string, corner overlay.Corner, priority int, buttons ...Button) *ButtonPanel {
	return &ButtonPanel{
		Base:    newBase(id, corner, priority),
		buttons: buttons,
	}
}

// Dimensions implements overlay.Widget.
func (p *ButtonPanel) Dimensions() overlay.Dimensions {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := len(p.buttons)
	if n == 0 {
		return overlay.Dimensions{}
	}

	return overlay.Dimensions{
		Width:  float64(n*panelButtonSize + (n-1)*panelButtonGap),
		Height: panelButtonSize,
	}
}

// Buttons returns the panel's buttons.
func (p *ButtonPanel) Buttons() []Button {
	p.mu.RLock()
	defer p.mu.RUnlock()

	buttons := make([]Button, len(p.buttons))
	copy(buttons, p.buttons)
	return buttons
}

// Press fires the press callback for the named button, if both exist.
func (p *ButtonPanel) Press(name string) {
	p.mu.RLock()
	var pressed *Button
	for i := range p.buttons {
		if p.buttons[i].Name == name {
			pressed = &p.buttons[i]
			break
		}
	}
	callback := p.onPress
	p.mu.RUnlock()

	if pressed != nil && callback != nil {
		callback(*pressed)
	}
}

// OnPress registers the press callback.
func (p *ButtonPanel) OnPress(callback func(Button)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPress = callback
}
