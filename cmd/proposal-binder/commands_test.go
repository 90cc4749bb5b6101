package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoirb/proposal-binder/internal/templater"
)

func TestParseOverrides(t *testing.T) {
	overrides, err := parseOverrides([]string{"PRAZO=15 dias", " CLIENTE =ACME=Ltda", "VAZIO="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"PRAZO":   "15 dias",
		"CLIENTE": "ACME=Ltda",
		"VAZIO":   "",
	}, overrides)

	_, err = parseOverrides([]string{"PRAZO"})
	assert.ErrorIs(t, err, errOverrideFormat)

	_, err = parseOverrides([]string{"=15 dias"})
	assert.ErrorIs(t, err, errOverrideFormat)
}

func TestMergeRequest(t *testing.T) {
	file := templater.Request{
		ID:          "from-file",
		Spreadsheet: "a.xlsx",
		Template:    "b.docx",
		Output:      "c.docx",
		Overrides:   map[string]string{"PRAZO": "10 dias"},
	}

	assert.Equal(t, file, mergeRequest(file, templater.Request{}))

	merged := mergeRequest(file, templater.Request{ID: "flag", Output: "d.docx", AllowPartial: true})
	assert.Equal(t, "flag", merged.ID)
	assert.Equal(t, "d.docx", merged.Output)
	assert.True(t, merged.AllowPartial)
	assert.Equal(t, "a.xlsx", merged.Spreadsheet)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("json", "debug")
	assert.NoError(t, err)
	_, err = newLogger("", "")
	assert.NoError(t, err)

	_, err = newLogger("xml", "info")
	assert.ErrorIs(t, err, errLogFormat)
	_, err = newLogger("logfmt", "verbose")
	assert.Error(t, err)
}

func TestRecentCmd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BINDER_RECENT_FILE", filepath.Join(dir, "recent.yaml"))
	t.Setenv("BINDER_LOG_LEVEL", "none")

	spreadsheet := filepath.Join(dir, "orçamento.xlsx")
	require.NoError(t, os.WriteFile(spreadsheet, []byte("x"), 0o644))

	a, err := newApp("")
	require.NoError(t, err)
	require.NoError(t, a.store.Add("spreadsheet", spreadsheet))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"recent", "--json"})
	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `{
		"is_ok": true,
		"payload": {"spreadsheets": ["`+spreadsheet+`"], "templates": []}
	}`, out.String())

	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"recent", "--clear"})
	require.NoError(t, cmd.Execute())

	list, err := a.store.List("spreadsheet")
	require.NoError(t, err)
	assert.Empty(t, list)
}
