package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/config"
	"github.com/five82/assetlist/internal/export"
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
	"github.com/five82/assetlist/internal/logging"
	"github.com/five82/assetlist/internal/prefs"
	"github.com/five82/assetlist/internal/proptree"
	"github.com/five82/assetlist/internal/sorting"
)

// ErrCheckFailed is returned by Check when any list or document has problems.
var ErrCheckFailed = errors.New("check found problems")

// exportStamp names export files by local time.
const exportStamp = "20060102-150405"

// ExportOptions select what a headless export writes and where.
type ExportOptions struct {
	List string
	// Sort keys, primary first. Empty uses the list's remembered sort.
	Sort []string
	// Output is a file path, "-" for stdout, or empty for a timestamped file
	// in the export directory.
	Output    string
	Clipboard bool
}

// headless is the loaded state shared by the non-interactive commands.
type headless struct {
	cfg     config.Config
	logger  *slog.Logger
	catalog *host.Catalog
	lists   []*listconfig.Configuration
	listErr error
}

func loadHeadless(opts Options) (*headless, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := logging.Terminal(opts.stderr(), cfg.LogLevel)

	catalog, err := host.LoadCatalog(cfg.CatalogDir, cfg.Include)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	for _, problem := range catalog.Problems {
		logger.Warn("catalog document skipped", "error", problem)
	}
	lists, listErr := listconfig.LoadDir(cfg.ListsDir)
	if listErr != nil {
		logger.Warn("list configuration skipped", "error", listErr)
	}
	logger.Debug("catalog loaded", "documents", len(catalog.Docs), "lists", len(lists))
	return &headless{cfg: cfg, logger: logger, catalog: catalog, lists: lists, listErr: listErr}, nil
}

func (h *headless) list(name string) (*listconfig.Configuration, error) {
	if list, ok := listconfig.Find(h.lists, name); ok {
		return list, nil
	}
	names := make([]string, len(h.lists))
	for i, l := range h.lists {
		names[i] = l.Name
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("list %q not found: no lists in %s", name, h.cfg.ListsDir)
	}
	return nil, fmt.Errorf("list %q not found (have %s)", name, strings.Join(names, ", "))
}

func (h *headless) session(list *listconfig.Configuration) *column.Session {
	objects := h.catalog.OfType(list.TypeName, list.Sources())
	// Invalid columns are left out and already logged; the rest still export.
	s, _ := column.NewSession(list, objects, h.logger)
	return s
}

// Export writes one list as tab-separated text without starting the TUI.
func Export(opts Options, eo ExportOptions, stdout io.Writer) error {
	h, err := loadHeadless(opts)
	if err != nil {
		return err
	}
	list, err := h.list(eo.List)
	if err != nil {
		return err
	}
	s := h.session(list)

	var history sorting.History
	if len(eo.Sort) > 0 {
		history, err = parseSort(s.Titles(), eo.Sort)
		if err != nil {
			return err
		}
	} else {
		userPrefs, _ := prefs.Load(opts.PrefsPath)
		history = userPrefs.History(list.Name, s.Titles())
	}
	order := sorting.SessionOrder(s, &history)

	switch {
	case eo.Clipboard:
		text, err := export.String(s, order)
		if err != nil {
			return err
		}
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy export: %w", err)
		}
		h.logger.Info("export copied", "list", list.Name, "rows", len(order))
		return nil

	case eo.Output == "-":
		return export.TSV(stdout, s, order)
	}

	path := eo.Output
	if path == "" {
		path = filepath.Join(h.cfg.ExportDir, export.FileName(list.Name, time.Now().Format(exportStamp)))
	}
	if err := export.WriteFile(path, s, order); err != nil {
		return err
	}
	h.logger.Info("export written", "list", list.Name, "rows", len(order), "path", path)
	_, err = fmt.Fprintln(stdout, path)
	return err
}

// Check validates every list against the catalog and prints a summary table.
// It returns ErrCheckFailed when a list is invalid, a list file failed to
// load, or a catalog document was skipped.
func Check(opts Options, stdout io.Writer) error {
	h, err := loadHeadless(opts)
	if err != nil {
		return err
	}

	failed := h.listErr != nil || len(h.catalog.Problems) > 0
	rows := make([][]string, 0, len(h.lists))
	for _, list := range h.lists {
		status := "ok"
		objects := h.catalog.OfType(list.TypeName, list.Sources())
		columns := strconv.Itoa(len(list.Columns))
		if err := list.Validate(); err != nil {
			status = firstLine(err)
			failed = true
		} else {
			s, err := column.NewSession(list, objects, h.logger)
			switch {
			case err != nil:
				status = firstLine(err)
				failed = true
			case len(s.Misses) > 0:
				total := 0
				for _, n := range s.Misses {
					total += n
				}
				status = fmt.Sprintf("%d missing values", total)
			}
		}
		rows = append(rows, []string{list.Name, list.TypeName, strconv.Itoa(len(objects)), columns, status})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("List", "Type", "Objects", "Columns", "Status").
		Rows(rows...)
	if _, err := fmt.Fprintln(stdout, t.String()); err != nil {
		return err
	}
	for _, problem := range h.catalog.Problems {
		if _, err := fmt.Fprintf(stdout, "document: %v\n", problem); err != nil {
			return err
		}
	}
	if h.listErr != nil {
		if _, err := fmt.Fprintf(stdout, "lists: %v\n", h.listErr); err != nil {
			return err
		}
	}
	if failed {
		return ErrCheckFailed
	}
	return nil
}

func firstLine(err error) string {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return line
}

// Paths prints the property tree of an object type. When list is set the
// type comes from that list and paths it already shows are marked.
func Paths(opts Options, typeName, list string, stdout io.Writer) error {
	h, err := loadHeadless(opts)
	if err != nil {
		return err
	}

	var used map[string]struct{}
	if list != "" {
		cfg, err := h.list(list)
		if err != nil {
			return err
		}
		typeName = cfg.TypeName
		used = cfg.UsedPaths()
	}
	if strings.TrimSpace(typeName) == "" {
		return fmt.Errorf("no object type given (have %s)", strings.Join(h.catalog.Types(), ", "))
	}

	paths := proptree.NewCache().Paths(typeName, h.catalog.Objects())
	if len(paths) == 0 {
		return fmt.Errorf("no properties found for type %q", typeName)
	}
	root := proptree.BuildTree(paths, used, true)

	out := tree.Root(typeName).Enumerator(tree.RoundedEnumerator)
	addNodes(out, root)
	_, err = fmt.Fprintln(stdout, out.String())
	return err
}

func addNodes(t *tree.Tree, n *proptree.Node) {
	for _, c := range n.Children {
		label := pathLabel(c)
		if c.Leaf() {
			t.Child(label)
			continue
		}
		sub := tree.Root(label)
		addNodes(sub, c)
		t.Child(sub)
	}
}

func pathLabel(n *proptree.Node) string {
	label := n.Name
	if n.Kind != host.KindInvalid {
		label += " (" + n.Kind.String() + ")"
	}
	if n.Disabled {
		label += " *"
	}
	return label
}
