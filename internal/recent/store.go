package recent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gopkg.in/yaml.v3"
)

// DefaultLimit of files kept per kind.
const DefaultLimit = 10

// Kinds of recent files.
const (
	Spreadsheet = "spreadsheet"
	Template    = "template"
)

var errUnknownKind = errors.New("unknown kind of recent file")

type pathBuilder interface {
	TmpFile(output string) string
}

// files is the stored state, most recent first.
type files struct {
	Spreadsheets []string `yaml:"spreadsheets"`
	Templates    []string `yaml:"templates"`
}

func (f *files) list(kind string) (*[]string, error) {
	switch kind {
	case Spreadsheet:
		return &f.Spreadsheets, nil
	case Template:
		return &f.Templates, nil
	}
	return nil, errUnknownKind
}

// Store of recently used files.
type Store struct {
	file  string
	limit int

	path   pathBuilder
	logger log.Logger
}

// NewStore returns store in file keeping at most limit paths per kind.
func NewStore(
	file string,
	limit int,
	path pathBuilder,
	logger log.Logger,
) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		file:   file,
		limit:  limit,
		path:   path,
		logger: logger,
	}
}

// List returns existing files of kind, most recent first.
func (s *Store) List(kind string) ([]string, error) {
	state, err := s.load()
	if err != nil {
		return nil, err
	}
	list, err := state.list(kind)
	if err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(*list))
	for _, file := range *list {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	return existing, nil
}

// Add moves file to the top of the kind list.
func (s *Store) Add(kind, file string) (err error) {
	logger := log.WithPrefix(s.logger, "method", "Add", "kind", kind)

	if abs, absErr := filepath.Abs(file); absErr == nil {
		file = abs
	}

	state, err := s.load()
	if err != nil {
		level.Error(logger).Log("msg", "load", "err", err)
		return
	}
	list, err := state.list(kind)
	if err != nil {
		return
	}

	updated := make([]string, 0, len(*list)+1)
	updated = append(updated, file)
	for _, item := range *list {
		if item != file {
			updated = append(updated, item)
		}
	}
	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}
	*list = updated

	if err = s.save(state); err != nil {
		level.Error(logger).Log("msg", "save", "err", err)
	}
	return
}

// Clear removes all entries.
func (s *Store) Clear() error {
	return s.save(&files{})
}

func (s *Store) load() (*files, error) {
	state := &files{}
	data, err := os.ReadFile(s.file)
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read recent files: %w", err)
	}
	if err = yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parse recent files: %w", err)
	}
	return state, nil
}

// save replaces the store file through a temp file.
func (s *Store) save(state *files) (err error) {
	data, err := yaml.Marshal(state)
	if err != nil {
		return
	}
	if err = os.MkdirAll(filepath.Dir(s.file), 0o755); err != nil {
		return
	}

	tmp := s.path.TmpFile(s.file)
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	if err = os.Rename(tmp, s.file); err != nil {
		os.Remove(tmp)
	}
	return
}
