package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/user/vidtrim/tui/components"
)

type keyMap struct {
	Back       key.Binding
	Forward    key.Binding
	StepDown   key.Binding
	StepUp     key.Binding
	SetStart   key.Binding
	SetEnd     key.Binding
	JumpStart  key.Binding
	JumpEnd    key.Binding
	Home       key.Binding
	End        key.Binding
	Open       key.Binding
	SaveAs     key.Binding
	EditTimes  key.Binding
	Trim       key.Binding
	Cancel     key.Binding
	Preview    key.Binding
	Theme      key.Binding
	ToggleMode key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Back:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h / ←", "Move cursor back one step")),
	Forward:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l / →", "Move cursor forward one step")),
	StepDown:   key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "Smaller step")),
	StepUp:     key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "Larger step")),
	SetStart:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "Set start at cursor (or mpv position)")),
	SetEnd:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "Set end at cursor (or mpv position)")),
	JumpStart:  key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "Jump cursor to start")),
	JumpEnd:    key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "Jump cursor to end")),
	Home:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "Cursor to beginning of video")),
	End:        key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "Cursor to end of video")),
	Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "Open video")),
	SaveAs:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Save as")),
	EditTimes:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "Type start and end times")),
	Trim:       key.NewBinding(key.WithKeys("t", "enter"), key.WithHelp("t / enter", "Trim video")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Cancel trim or form")),
	Preview:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Preview range in mpv")),
	Theme:      key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "Toggle dark/light theme")),
	ToggleMode: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "Toggle copy/reencode")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Show/hide this help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "Quit")),
}

// ShortHelp is the one-line hint under the panel.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.SetStart, k.SetEnd, k.Trim, k.Preview, k.Help, k.Quit}
}

// FullHelp is used by the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Back, k.Forward, k.StepDown, k.StepUp, k.Home, k.End},
		{k.SetStart, k.SetEnd, k.JumpStart, k.JumpEnd, k.EditTimes},
		{k.Open, k.SaveAs, k.Trim, k.Cancel, k.Preview, k.ToggleMode},
		{k.Theme, k.Help, k.Quit},
	}
}

func helpGroups() []components.HelpGroup {
	titles := []string{"Slider", "Range", "File", "View"}
	full := keys.FullHelp()
	groups := make([]components.HelpGroup, len(full))
	for i, bindings := range full {
		groups[i] = components.HelpGroup{Title: titles[i], Bindings: bindings}
	}
	return groups
}
