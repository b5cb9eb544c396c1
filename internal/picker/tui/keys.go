package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Pick   key.Binding
	Cancel key.Binding
	Quit   key.Binding
	Filter key.Binding
	Reload key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Pick:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "pick")),
		Cancel: key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("Esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// statusHelp renders the key hints shown in the status bar.
func (k keyMap) statusHelp(filtering bool) string {
	bindings := []key.Binding{k.Down, k.Up, k.Pick, k.Filter, k.Reload, k.Cancel}
	if filtering {
		bindings = []key.Binding{k.Pick, k.Cancel}
	}
	s := ""
	for _, b := range bindings {
		h := b.Help()
		if filtering && b.Keys()[0] == "esc" {
			h.Desc = "clear filter"
		}
		s += "  " + h.Key + ":" + h.Desc
	}
	return s
}
