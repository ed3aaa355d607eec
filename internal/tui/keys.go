package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	enter    key.Binding
	esc      key.Binding
	quit     key.Binding
	sync     key.Binding
	force    key.Binding
	pair     key.Binding
	forget   key.Binding
	mode     key.Binding
	autoSync key.Binding
	interval key.Binding
	rescan   key.Binding
	copy     key.Binding
	version  key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	left:     key.NewBinding(key.WithKeys("left", "h")),
	right:    key.NewBinding(key.WithKeys("right", "l")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	sync:     key.NewBinding(key.WithKeys("s")),
	force:    key.NewBinding(key.WithKeys("f")),
	pair:     key.NewBinding(key.WithKeys("p")),
	forget:   key.NewBinding(key.WithKeys("d")),
	mode:     key.NewBinding(key.WithKeys("m")),
	autoSync: key.NewBinding(key.WithKeys("a")),
	interval: key.NewBinding(key.WithKeys("i")),
	rescan:   key.NewBinding(key.WithKeys("r")),
	copy:     key.NewBinding(key.WithKeys("y")),
	version:  key.NewBinding(key.WithKeys("v")),
}
