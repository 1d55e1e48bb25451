package export

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/assetlist/internal/column"
	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
)

func session(t *testing.T, docs map[string]string, cfg *listconfig.Configuration) *column.Session {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, body := range docs {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	c, err := host.LoadFS("mem", fsys, nil)
	require.NoError(t, err)
	s, err := column.NewSession(cfg, c.OfType(cfg.TypeName, cfg.Sources()), nil)
	require.NoError(t, err)
	return s
}

func scoreSession(t *testing.T) *column.Session {
	return session(t, map[string]string{
		"x.yaml": "type: Player\nname: X\nfields: {score: 5}\n",
		"y.yaml": "type: Player\nname: Y\nfields: {}\n",
	}, &listconfig.Configuration{
		Name:     "Players",
		TypeName: "Player",
		Columns:  []listconfig.ColumnConfiguration{{PropertyPath: "score", Title: "Score", ValueKind: host.KindInteger}},
	})
}

func TestTSVAbsentCellsAreEmptyFields(t *testing.T) {
	s := scoreSession(t)
	got, err := String(s, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "Name\tScore\nX\t5\nY\t\n", got)
}

func TestTSVFollowsOrder(t *testing.T) {
	s := scoreSession(t)
	got, err := String(s, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, "Name\tScore\nY\t\nX\t5\n", got)

	got, err = String(s, nil)
	require.NoError(t, err)
	assert.Equal(t, "Name\tScore\n", got)

	_, err = String(s, []int{2})
	assert.Error(t, err)
}

func TestTSVSanitizesValuesAndAddsPath(t *testing.T) {
	s := session(t, map[string]string{
		"notes/a.yaml": "type: Note\nname: A\nfields:\n  text: \"one\\ttwo\\r\\nthree\"\n  ratio: 0.25\n",
	}, &listconfig.Configuration{
		TypeName:          "Note",
		AdditionalColumns: listconfig.ColumnPath,
		Columns: []listconfig.ColumnConfiguration{
			{PropertyPath: "text", ValueKind: host.KindString},
			{PropertyPath: "ratio", Title: "Ratio", ValueKind: host.KindFloat, NumericalDisplay: listconfig.NumericalReadonlyPercentageLabelNormalised},
		},
	})
	got, err := String(s, []int{0})
	require.NoError(t, err)
	assert.Equal(t, "Name\tPath\ttext\tRatio\nA\tnotes/a.yaml\tone two three\t0.25\n", got)
}

func TestWriteFile(t *testing.T) {
	s := scoreSession(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out", FileName("Players", ""))

	require.NoError(t, WriteFile(path, s, []int{0, 1}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name\tScore\nX\t5\nY\t\n", string(data))

	err = WriteFile(path, s, []int{0, 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write export")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name\tScore\nX\t5\nY\t\n", string(data), "failed export leaves the previous file intact")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Enemy_Stats-20260101.tsv", FileName("Enemy Stats", "20260101"))
	assert.Equal(t, "a_b.tsv", FileName("a/b", ""))
	assert.Equal(t, "list.tsv", FileName("  ", ""))
}
