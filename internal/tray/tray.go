// Package tray shows the pipeline status in the system tray: the stable
// gesture, whether a usable hand is in view, and an enable toggle.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	facing     string
	shown      app.Status
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuGesture  *systray.MenuItem
	menuTracking *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New(facing string) *Tray {
	return &Tray{
		enabled: true,
		facing:  facing,
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the viewer menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	t.mu.Lock()
	systray.SetTitle(Title(t.shown))
	systray.SetTooltip("mudra hand gestures (" + t.facing + " camera)")

	t.menuToggle = systray.AddMenuItem(toggleLabel(t.enabled), "Toggle gesture recognition")
	systray.AddSeparator()

	t.menuGesture = systray.AddMenuItem(GestureLabel(t.shown), "Stable gesture")
	t.menuGesture.Disable()
	t.menuTracking = systray.AddMenuItem(TrackingLabel(t.shown), "Whether a usable hand is in view")
	t.menuTracking.Disable()
	systray.AddSeparator()
	t.mu.Unlock()

	menuSettings := systray.AddMenuItem("Open Viewer...", "Open the viewer in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit mudra")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleLabel(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleSettings handles the viewer menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus shows s. It is called for every frame, so the menu is only
// touched when the gesture or tracking flag changes. It reports whether
// the display changed.
func (t *Tray) SetStatus(s app.Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.Gesture == t.shown.Gesture && s.Tracking == t.shown.Tracking {
		return false
	}
	t.shown = s

	if t.menuGesture != nil {
		systray.SetTitle(Title(s))
		t.menuGesture.SetTitle(GestureLabel(s))
		t.menuTracking.SetTitle(TrackingLabel(s))
	}
	return true
}

// Shown returns the status currently displayed.
func (t *Tray) Shown() app.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.shown
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Title is the tray title for s: the stable gesture, dimmed when no
// usable hand is in view.
func Title(s app.Status) string {
	if !s.Tracking {
		return "mudra ○"
	}
	if s.Gesture == gesture.None {
		return "mudra ●"
	}
	return "mudra ● " + s.Gesture.String()
}

// GestureLabel is the menu line naming the stable gesture.
func GestureLabel(s app.Status) string {
	return "Gesture: " + s.Gesture.String()
}

// TrackingLabel is the menu line for the tracking flag.
func TrackingLabel(s app.Status) string {
	if s.Tracking {
		return "Hand: tracking"
	}
	return "Hand: not detected"
}

func toggleLabel(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}
