package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func TestEditCmd_Use(t *testing.T) {
	assert.Equal(t, "edit FILE", editCmd.Use)
}

func TestEditCmd_RequiresFileArgument(t *testing.T) {
	rootCmd.SetArgs([]string{"edit"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestRunEdit_RequiresTTY(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("requires a non-interactive stdin")
	}

	original := settingsService
	settingsService = &MockSettingsService{}
	defer func() { settingsService = original }()

	err := runEdit(editCmd, []string{"draft.md"})

	assert.ErrorContains(t, err, "interactive terminal")
}

func TestReadDocument_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(path, []byte("Known content.\n"), 0o644))

	text, err := readDocument(path)

	require.NoError(t, err)
	assert.Equal(t, "Known content.\n", text)
}

func TestReadDocument_MissingFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()

	text, err := readDocument(filepath.Join(dir, "new.md"))

	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestReadDocument_DirectoryFails(t *testing.T) {
	dir := t.TempDir()

	_, err := readDocument(dir)

	assert.Error(t, err)
}
