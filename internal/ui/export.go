package ui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/assetlist/internal/export"
)

const exportStamp = "20060102-150405"

// exportFile writes every object of the list, in sort order, to a timestamped
// TSV file in the export directory. The search filter does not apply.
func (m *Model) exportFile() tea.Cmd {
	if m.table.session == nil {
		return nil
	}
	name := export.FileName(m.table.list.Name, time.Now().Format(exportStamp))
	path := filepath.Join(m.config.ExportDir, name)
	if err := export.WriteFile(path, m.table.session, m.table.order); err != nil {
		m.logger.Error("export failed", "list", m.table.list.Name, "path", path, "error", err)
		m.notify(err.Error(), true)
		return nil
	}
	m.logger.Info("list exported", "list", m.table.list.Name, "path", path, "rows", len(m.table.order))
	m.notify(fmt.Sprintf("exported %d rows to %s", len(m.table.order), path), false)
	return nil
}

// copyTable places every object of the list, in sort order, on the clipboard
// as TSV.
func (m *Model) copyTable() tea.Cmd {
	if m.table.session == nil {
		return nil
	}
	text, err := export.String(m.table.session, m.table.order)
	if err != nil {
		m.notify(err.Error(), true)
		return nil
	}
	m.logger.Info("list copied", "list", m.table.list.Name, "rows", len(m.table.order))
	return m.copyCmd(fmt.Sprintf("%d rows", len(m.table.order)), text)
}
