package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/projection"
)

// editState is the inline editor for one property cell.
type editState struct {
	input  textinput.Model
	active bool
	prop   host.Property
	column string
	object string
	err    error
}

func newEditState() editState {
	ti := textinput.New()
	ti.Prompt = "= "
	ti.CharLimit = 1024
	return editState{input: ti}
}

// editTarget resolves the property behind the focused cell, or explains why
// the cell cannot be edited.
func (m Model) editTarget() (host.Property, *column.PropertyColumn, error) {
	obj, ok := m.selectedObject()
	if !ok {
		return nil, nil, fmt.Errorf("no object selected")
	}
	c, ok := m.focusedColumn()
	if !ok {
		return nil, nil, fmt.Errorf("no column focused")
	}
	pc, ok := c.(*column.PropertyColumn)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not a property column", c.Title())
	}
	if op := pc.Render(obj, m.table.session.Missing()).Op; op != projection.OpEditable {
		return nil, nil, fmt.Errorf("%s is read-only", pc.Title())
	}
	p, ok := pc.Get(obj)
	if !ok {
		return nil, nil, fmt.Errorf("%s has no %s", obj.Name(), pc.Path())
	}
	if !host.Editable(p.Kind()) {
		return nil, nil, fmt.Errorf("%s values cannot be edited", p.Kind())
	}
	return p, pc, nil
}

// editText is the text the editor starts with: the form SetText parses.
func editText(p host.Property) string {
	if c, ok := p.Value().(host.Color); ok {
		return host.HexColor(c)
	}
	return projection.Canonical(p)
}

func (m *Model) beginEdit() tea.Cmd {
	if m.edits == nil {
		return nil
	}
	p, pc, err := m.editTarget()
	if err != nil {
		m.notify(err.Error(), true)
		return nil
	}
	obj, _ := m.selectedObject()
	m.edit.active = true
	m.edit.prop = p
	m.edit.column = pc.Title()
	m.edit.object = obj.Name()
	m.edit.err = nil
	m.edit.input.SetValue(editText(p))
	m.edit.input.CursorEnd()
	return m.edit.input.Focus()
}

func (m *Model) endEdit() {
	m.edit.active = false
	m.edit.prop = nil
	m.edit.err = nil
	m.edit.input.Blur()
}

// handleEditKey processes keys while a cell is being edited.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.endEdit()
		return m, m.releaseHeld()

	case key.Matches(msg, m.keys.Confirm):
		text := strings.TrimSpace(m.edit.input.Value())
		if err := m.edits.SetText(m.edit.prop, text); err != nil {
			m.edit.err = err
			return m, nil
		}
		m.logger.Info("property edited",
			"list", m.table.list.Name,
			"object", m.edit.object,
			"path", m.edit.prop.Path(),
			"value", text,
		)
		m.endEdit()
		m.resort()
		return m, nil
	}

	var cmd tea.Cmd
	m.edit.input, cmd = m.edit.input.Update(msg)
	m.edit.err = nil
	return m, cmd
}

func (m *Model) undoEdit() tea.Cmd {
	if m.edits == nil || !m.edits.Undo() {
		m.notify("nothing to undo", false)
		return nil
	}
	m.resort()
	m.notify("edit undone", false)
	return m.releaseHeld()
}

// commitEdits writes every modified document and asks for a reload.
func (m *Model) commitEdits() tea.Cmd {
	if m.edits == nil || !m.edits.Dirty() {
		m.notify("no unsaved edits", false)
		return nil
	}
	written, err := m.edits.Commit()
	if err != nil {
		m.logger.Error("save failed", "written", len(written), "error", err)
		m.notify("save failed: "+firstLine(err.Error()), true)
		return nil
	}
	m.logger.Info("edits saved", "documents", written)
	m.notify(fmt.Sprintf("saved %d %s", len(written), plural(len(written), "document")), false)
	m.quitArmed = false
	m.reload()
	return m.releaseHeld()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
