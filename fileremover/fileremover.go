package fileremover

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
)

// FileRemover clears artifacts a previous run left behind.
type FileRemover interface {
	RemoveStale(paths ...string) error
}

type fileRemover struct {
	fileManager fileutil.FileManager
	logger      log.Logger
}

// NewFileRemover ...
func NewFileRemover(fileManager fileutil.FileManager, logger log.Logger) FileRemover {
	return fileRemover{
		fileManager: fileManager,
		logger:      logger,
	}
}

// RemoveStale removes every path; a path that does not exist is not an error.
func (r fileRemover) RemoveStale(paths ...string) error {
	for _, pth := range paths {
		err := r.fileManager.Remove(pth)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", pth, err)
		}
		r.logger.Debugf("Removed stale %s", pth)
	}
	return nil
}
