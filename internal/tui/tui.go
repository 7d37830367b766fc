// Package tui is the interactive presentation layer: a Bubble Tea list
// over one user's ledger. Every mutation is persisted before the next
// keypress is handled.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tudu/internal/ledger"
	"github.com/idilsaglam/tudu/internal/model"
	"github.com/idilsaglam/tudu/internal/ui"
)

// listItem adapts a model.Item to bubbles/list.Item.
type listItem struct {
	ID   int64
	Text string
	Done bool
}

func (i listItem) TitleText() string {
	box := ui.BoxUnchecked
	if i.Done {
		box = ui.BoxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Text)
}

// Implement list.Item interface
func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

type modelTUI struct {
	list     list.Model
	led      *ledger.Ledger
	userName string

	width  int
	height int

	// Inline add
	adding bool            // true when inline add is active
	ti     textinput.Model // shared text input model (used for add & edit)
	addErr string          // last add validation error (shown briefly)

	// Inline edit
	editing bool  // true when inline edit is active
	editID  int64 // id of the item being edited
	editErr string

	// Last persistence failure, shown until the next successful action.
	storeErr string
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	raw := it.TitleText() // e.g. "☐ Buy milk"
	space := strings.Index(raw, " ")
	if space < 0 {
		space = len(raw)
	}
	box, text := raw[:space], strings.TrimSpace(raw[space:])

	boxStyled := ui.MutedStyle.Render(box)
	textStyled := text
	if it.Done {
		boxStyled = ui.SuccessStyle.Render(ui.BoxChecked)
		textStyled = ui.DoneStyle.Render(text)
	}

	line := fmt.Sprintf("%s %s", boxStyled, textStyled)
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Run starts the interactive list over led. Mutations are already
// persisted by the time Run returns.
func Run(led *ledger.Ledger, user model.User) error {
	items := led.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{ID: it.ID, Text: it.Text, Done: it.Completed})
	}

	l := list.New(li, itemDelegate{}, 0, 0)
	l.Title = headerTitle(user.Name, items)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	// Extend help with Add / Edit bindings
	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, editBind} }

	m := modelTUI{
		list:     l,
		led:      led,
		userName: user.Name,
		width:    80,
		height:   24,
	}
	// set up text input for inline add/edit
	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.Placeholder = "New task..."
	m.ti.CharLimit = 200

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func headerTitle(name string, items []model.Item) string {
	var dn, pn int
	for _, it := range items {
		if it.Completed {
			dn++
		} else {
			pn++
		}
	}
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		ui.TitleStyle.Render(name+"'s todos"),
		ui.SuccessStyle.Render("✔"), dn,
		ui.PendingStyle.Render("•"), pn,
		ui.AccentStyle.Render("Total"), len(items),
	)
}

// refresh mirrors the ledger back into the list after a mutation and
// recomputes the header counts.
func (m *modelTUI) refresh() {
	items := m.led.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{ID: it.ID, Text: it.Text, Done: it.Completed})
	}
	m.list.SetItems(li)
	m.list.Title = headerTitle(m.userName, items)
	if m.list.Index() >= len(li) && len(li) > 0 {
		m.list.Select(len(li) - 1)
	}
}

// selectedID resolves the highlighted row to an item id, honoring any
// active filter.
func (m *modelTUI) selectedID() (int64, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return 0, false
	}
	return it.ID, true
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}

	// add mode
	if m.adding {
		var cmd tea.Cmd
		switch x := msg.(type) {
		case tea.KeyMsg:
			switch x.String() {
			case "enter":
				if _, err := m.led.Add(m.ti.Value()); err != nil {
					// leave the input as typed, per form behavior
					if errors.Is(err, ledger.ErrEmptyText) {
						m.addErr = "Task cannot be empty"
					} else {
						m.storeErr = err.Error()
					}
					return m, nil
				}
				m.storeErr = ""
				m.refresh()
				m.ti.SetValue("")
				m.ti.Blur()
				m.adding = false
				m.addErr = ""
				return m, nil
			case "esc":
				m.adding = false
				m.addErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// edit mode
	if m.editing {
		var cmd tea.Cmd
		switch x := msg.(type) {
		case tea.KeyMsg:
			switch x.String() {
			case "enter":
				err := m.led.Edit(m.editID, m.ti.Value())
				switch {
				case errors.Is(err, ledger.ErrEmptyText):
					m.editErr = "Task cannot be empty"
					return m, nil
				case errors.Is(err, ledger.ErrNotFound):
					// item vanished under us: drop the pending edit
				case err != nil:
					m.storeErr = err.Error()
					return m, nil
				default:
					m.storeErr = ""
				}
				m.refresh()
				m.ti.SetValue("")
				m.ti.Blur()
				m.editing = false
				m.editErr = ""
				return m, nil
			case "esc":
				m.editing = false
				m.editErr = ""
				m.ti.SetValue("")
				m.ti.Blur()
				return m, nil
			}
		}
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// keys pass through to the list while filtering
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if id, ok := m.selectedID(); ok {
				if _, err := m.led.Toggle(id); err != nil {
					m.storeErr = err.Error()
					return m, nil
				}
				m.storeErr = ""
				m.refresh()
			}
			return m, nil
		case "d":
			if id, ok := m.selectedID(); ok {
				if err := m.led.Delete(id); err != nil && !errors.Is(err, ledger.ErrNotFound) {
					m.storeErr = err.Error()
					return m, nil
				}
				m.storeErr = ""
				m.refresh()
			}
			return m, nil
		case "a":
			m.adding = true
			m.ti.SetValue("")
			m.ti.Placeholder = "New task..."
			m.ti.Focus()
			return m, nil
		case "e":
			if id, ok := m.selectedID(); ok {
				if it, found := m.list.SelectedItem().(listItem); found {
					m.editing = true
					m.editID = id
					m.ti.SetValue(it.Text)
					m.ti.CursorEnd()
					m.ti.Placeholder = "Edit task..."
					m.ti.Focus()
				}
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) View() string {
	listHeight := m.height - 4
	if m.adding || m.editing {
		listHeight = m.height - 6
	}
	m.list.SetSize(m.width-2, listHeight)

	content := m.list.View()
	if m.storeErr != "" {
		content += "\n" + ui.ErrorStyle.Render("✖ "+m.storeErr)
	}
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add task"
		if m.editing {
			title = "Update task"
		}
		if m.addErr != "" && m.adding {
			title += " — " + ui.ErrorStyle.Render(m.addErr)
		}
		if m.editErr != "" && m.editing {
			title += " — " + ui.ErrorStyle.Render(m.editErr)
		}
		inputLine := title + "\n" + m.ti.View()
		content = content + "\n" + bar.Render(inputLine)
	}
	return panelString(content)
}

// helpers for View
func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}
