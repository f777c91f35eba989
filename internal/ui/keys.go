package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next        key.Binding
	Prev        key.Binding
	Up          key.Binding
	Down        key.Binding
	ToggleCol   key.Binding
	Clean       key.Binding
	Dedupe      key.Binding
	Fill        key.Binding
	Chart       key.Binding
	Target      key.Binding
	Save        key.Binding
	AddFiles    key.Binding
	BackToFiles key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next file")),
		Prev:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev file")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		ToggleCol:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle column")),
		Clean:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clean data")),
		Dedupe:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove duplicates")),
		Fill:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fill missing")),
		Chart:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visualize")),
		Target:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "csv/excel")),
		Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "convert & save")),
		AddFiles:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add files")),
		BackToFiles: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "back to files")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Clean, k.ToggleCol, k.Chart, k.Target, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.AddFiles},
		{k.Up, k.Down, k.ToggleCol},
		{k.Clean, k.Dedupe, k.Fill},
		{k.Chart, k.Target, k.Save},
		{k.Help, k.Quit},
	}
}
