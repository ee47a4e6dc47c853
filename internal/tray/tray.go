// Package tray provides the system tray menu for the live coaching loop.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Choice is one entry of the exercise submenu.
type Choice struct {
	Name  string
	Title string
}

// Tray represents the system tray application.
type Tray struct {
	mu        sync.RWMutex
	choices   []Choice
	selected  string
	voice     bool
	onVoice   func(on bool)
	onSelect  func(name string)
	onReset   func()
	onStream  func()
	onQuit    func()
	menuVoice *systray.MenuItem
	menuReps  *systray.MenuItem
	menuItems map[string]*systray.MenuItem
}

// New creates a Tray offering the given exercises, with selected checked.
func New(choices []Choice, selected string, voice bool) *Tray {
	return &Tray{
		choices:   choices,
		selected:  selected,
		voice:     voice,
		menuItems: make(map[string]*systray.MenuItem),
	}
}

// OnVoice sets the callback for the voice toggle.
func (t *Tray) OnVoice(fn func(on bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onVoice = fn
}

// OnSelect sets the callback for choosing an exercise.
func (t *Tray) OnSelect(fn func(name string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSelect = fn
}

// OnReset sets the callback for the reset item.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnStream sets the callback for opening the live preview.
func (t *Tray) OnStream(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStream = fn
}

// OnQuit sets the callback for the quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit is chosen.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

func (t *Tray) onReady() {
	systray.SetTitle("RepWise")
	systray.SetTooltip("RepWise rep counter")

	t.mu.Lock()
	t.menuReps = systray.AddMenuItem(repsTitle(0), "Reps in this session")
	t.menuReps.Disable()
	systray.AddSeparator()

	t.menuVoice = systray.AddMenuItemCheckbox("Voice feedback", "Speak form cues", t.voice)

	exercises := systray.AddMenuItem("Exercise", "Choose the exercise to track")
	for _, c := range t.choices {
		item := exercises.AddSubMenuItemCheckbox(c.Title, c.Name, c.Name == t.selected)
		t.menuItems[c.Name] = item
		go t.watchChoice(c.Name, item)
	}

	menuReset := systray.AddMenuItem("Reset count", "Start the count again")
	menuStream := systray.AddMenuItem("Open preview...", "Open the live preview in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit RepWise")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuVoice.ClickedCh:
				t.handleVoice()
			case <-menuReset.ClickedCh:
				t.call(&t.onReset)
			case <-menuStream.ClickedCh:
				t.call(&t.onStream)
			case <-menuQuit.ClickedCh:
				t.call(&t.onQuit)
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) watchChoice(name string, item *systray.MenuItem) {
	for range item.ClickedCh {
		t.handleSelect(name)
	}
}

// call runs the callback stored in field outside the lock.
func (t *Tray) call(field *func()) {
	t.mu.RLock()
	fn := *field
	t.mu.RUnlock()

	if fn != nil {
		fn()
	}
}

func (t *Tray) handleVoice() {
	t.mu.Lock()
	t.voice = !t.voice
	on := t.voice
	if on {
		t.menuVoice.Check()
	} else {
		t.menuVoice.Uncheck()
	}
	callback := t.onVoice
	t.mu.Unlock()

	if callback != nil {
		callback(on)
	}
}

func (t *Tray) handleSelect(name string) {
	t.mu.Lock()
	t.selected = name
	for n, item := range t.menuItems {
		if n == name {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	callback := t.onSelect
	t.mu.Unlock()

	if callback != nil {
		callback(name)
	}
}

// SetReps updates the rep counter shown in the menu.
func (t *Tray) SetReps(reps int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuReps != nil {
		t.menuReps.SetTitle(repsTitle(reps))
	}
}

// Selected returns the checked exercise.
func (t *Tray) Selected() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selected
}

// VoiceEnabled returns the state of the voice toggle.
func (t *Tray) VoiceEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.voice
}

func repsTitle(reps int) string {
	return fmt.Sprintf("Reps: %d", reps)
}
