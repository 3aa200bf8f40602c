package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	open      key.Binding
	back      key.Binding
	filter    key.Binding
	day       key.Binding
	next      key.Binding
	prev      key.Binding
	create    key.Binding
	edit      key.Binding
	remove    key.Binding
	duplicate key.Binding
	csv       key.Binding
	pdf       key.Binding
	retry     key.Binding
	stats     key.Binding
	yes       key.Binding
	no        key.Binding
	quit      key.Binding

	nextField key.Binding
	prevField key.Binding
	addRow    key.Binding
	removeRow key.Binding
	rowUp     key.Binding
	rowDown   key.Binding
	save      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		day:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "day")),
		next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		create:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		duplicate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "duplicate")),
		csv:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export csv")),
		pdf:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export pdf")),
		retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		stats:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		nextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		addRow:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add exercise")),
		removeRow: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove exercise")),
		rowUp:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "move up")),
		rowDown:   key.NewBinding(key.WithKeys("ctrl+j"), key.WithHelp("ctrl+j", "move down")),
		save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.open, k.back},
		{k.filter, k.day, k.next, k.prev},
		{k.create, k.edit, k.remove, k.duplicate},
		{k.csv, k.pdf, k.retry, k.stats, k.quit},
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.open, k.filter, k.day, k.next, k.prev, k.create, k.edit, k.remove, k.duplicate, k.csv, k.pdf, k.quit}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.edit, k.remove, k.retry, k.back, k.quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.nextField, k.prevField, k.addRow, k.removeRow, k.rowUp, k.rowDown, k.save, k.back}
}

func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.yes, k.no}
}
