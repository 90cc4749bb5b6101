package recent

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoirb/proposal-binder/internal/path"
)

func newTestStore(t *testing.T, limit int) (*Store, string) {
	t.Helper()

	b, err := path.NewBuilder("", func() string { return uuid.New().String() })
	require.NoError(t, err)

	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "state", "recent.yaml"), limit, b, log.NewNopLogger()), dir
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	return file
}

func TestStore(t *testing.T) {
	s, dir := newTestStore(t, 0)

	list, err := s.List(Spreadsheet)
	require.NoError(t, err)
	assert.Empty(t, list)

	a := touch(t, dir, "a.xlsx")
	b := touch(t, dir, "b.xlsx")
	template := touch(t, dir, "modelo.docx")

	require.NoError(t, s.Add(Spreadsheet, a))
	require.NoError(t, s.Add(Spreadsheet, b))
	require.NoError(t, s.Add(Spreadsheet, a))
	require.NoError(t, s.Add(Template, template))

	list, err = s.List(Spreadsheet)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, list)

	list, err = s.List(Template)
	require.NoError(t, err)
	assert.Equal(t, []string{template}, list)

	require.NoError(t, os.Remove(b))
	list, err = s.List(Spreadsheet)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, list)

	require.NoError(t, s.Clear())
	list, err = s.List(Template)
	require.NoError(t, err)
	assert.Empty(t, list)

	entries, err := os.ReadDir(filepath.Join(dir, "state"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStoreLimit(t *testing.T) {
	s, dir := newTestStore(t, 3)

	var files []string
	for i := 0; i < 5; i++ {
		file := touch(t, dir, fmt.Sprintf("%d.xlsx", i))
		files = append(files, file)
		require.NoError(t, s.Add(Spreadsheet, file))
	}

	list, err := s.List(Spreadsheet)
	require.NoError(t, err)
	assert.Equal(t, []string{files[4], files[3], files[2]}, list)
}

func TestStoreUnknownKind(t *testing.T) {
	s, _ := newTestStore(t, 0)

	_, err := s.List("pdf")
	assert.ErrorIs(t, err, errUnknownKind)
	assert.ErrorIs(t, s.Add("pdf", "x.pdf"), errUnknownKind)
}
