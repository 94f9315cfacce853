package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/san-kum/iplot/internal/nav"
)

var arrows = map[string]string{"left": "←", "right": "→", "up": "↑", "down": "↓"}

// keyMap holds the bindings shown in the help footer. Navigation keys are
// derived from the configured step bindings so the help never lies.
type keyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Jump    key.Binding
	Cancel  key.Binding
	SaveAll key.Binding
	Export  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(bindings nav.Bindings, keys nav.Keys) keyMap {
	var back, fwd []string
	for k, d := range bindings {
		if d < 0 {
			back = append(back, k)
		} else {
			fwd = append(fwd, k)
		}
	}
	sort.Strings(back)
	sort.Strings(fwd)

	return keyMap{
		Prev:    key.NewBinding(key.WithKeys(back...), key.WithHelp(label(back), "back")),
		Next:    key.NewBinding(key.WithKeys(fwd...), key.WithHelp(label(fwd), "forward")),
		Jump:    key.NewBinding(key.WithKeys(keys.Commit), key.WithHelp("0-9 "+keys.Commit, "go to frame")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel entry")),
		SaveAll: key.NewBinding(key.WithKeys(keys.SaveAll), key.WithHelp(keys.SaveAll, "save all frames")),
		Export:  key.NewBinding(key.WithKeys(keys.Export), key.WithHelp(keys.Export, "write animation")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func label(keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if a, ok := arrows[k]; ok {
			k = a
		}
		out[i] = k
	}
	return strings.Join(out, "/")
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Jump, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Jump, k.Cancel},
		{k.SaveAll, k.Export, k.Help, k.Quit},
	}
}
