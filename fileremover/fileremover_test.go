package fileremover

import (
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenExistingAndMissingPaths_WhenRemovingStale_ThenExistingAreRemoved(t *testing.T) {
	// Given
	dir := t.TempDir()
	existing := filepath.Join(dir, "java-test-work.zip")
	missing := filepath.Join(dir, "missing.zip")
	fileManager := fileutil.NewFileManager()
	require.NoError(t, fileManager.Write(existing, "old", 0600))
	remover := NewFileRemover(fileManager, log.NewLogger())

	// When
	err := remover.RemoveStale(missing, existing)

	// Then
	require.NoError(t, err)
	assert.NoFileExists(t, existing)
}
