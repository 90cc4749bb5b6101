package path

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultOutput = "proposta_gerada.docx"

// Builder path.
type Builder struct {
	templateDir string
	uuidFunc    func() string
}

// NewBuilder returns builder looking up template names in templateDir.
// An empty templateDir resolves names against the working directory.
func NewBuilder(
	templateDir string,
	uuidFunc func() string,
) (*Builder, error) {
	if templateDir != "" {
		if _, err := os.Stat(templateDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("path %s is not exist", templateDir)
		}
	}

	return &Builder{
		templateDir: templateDir,
		uuidFunc:    uuidFunc,
	}, nil
}

// Template returns path to template by name. Paths that exist or
// carry a directory are returned as is.
func (b *Builder) Template(name string) string {
	if b.templateDir == "" || filepath.IsAbs(name) || filepath.Base(name) != name {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(b.templateDir, name)
}

// Output returns the default output path next to the spreadsheet.
func (b *Builder) Output(spreadsheet string) string {
	return filepath.Join(filepath.Dir(spreadsheet), defaultOutput)
}

// TmpFile returns a unique hidden path in the directory of name.
func (b *Builder) TmpFile(name string) string {
	dir, base := filepath.Split(name)
	return filepath.Join(dir, "."+base+"."+b.uuidFunc()+".tmp")
}
