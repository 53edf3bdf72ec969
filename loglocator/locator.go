package loglocator

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/lvotypko/javatest-report/report"
)

const (
	// ArchiveName is the consolidated log archive at the run root.
	ArchiveName = "java-test-work.zip"
	// LegacyLogDir holds the logs of runs archived before the consolidated archive existed.
	LegacyLogDir = "archive/java-test-work"
)

// Locator finds captured logs in a run's storage: the consolidated archive first,
// then the legacy flat file layout.
type Locator struct {
	store      RunStore
	archiveDir string
	logger     log.Logger
}

// NewLocator ...
// archiveDir is the folder name archive entries are recorded under, see ArchiveDirName.
func NewLocator(store RunStore, archiveDir string, logger log.Logger) *Locator {
	return &Locator{
		store:      store,
		archiveDir: archiveDir,
		logger:     logger,
	}
}

// ArchiveDirName resolves the configured log source folder against the workspace and
// returns its final path segment. Archive entries only record that segment, so a
// configured "." or "./" resolves to the workspace folder's own name.
func ArchiveDirName(workspace, sourceDir string) string {
	return filepath.Base(filepath.Join(workspace, sourceDir))
}

// Locate ...
func (l *Locator) Locate(ctx context.Context, ref string) (*report.Log, error) {
	clean := path.Clean(ref)
	if ref == "" || !fs.ValidPath(clean) {
		return nil, report.NewNotFoundError(report.KindLog, ref)
	}

	lg, err := l.fromArchive(ctx, clean)
	if err == nil {
		return lg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	l.logger.Debugf("Log %s not in the consolidated archive: %s", clean, err)

	lg, err = l.fromLegacy(ctx, clean)
	if err == nil {
		return lg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	l.logger.Debugf("Log %s not in the legacy layout: %s", clean, err)

	nf := report.NewNotFoundError(report.KindLog, ref)
	nf.Cause = err
	return nil, nf
}

func (l *Locator) entryName(ref string) string {
	if l.archiveDir == "" {
		return ref
	}
	return l.archiveDir + "/" + ref
}

func (l *Locator) fromArchive(ctx context.Context, ref string) (*report.Log, error) {
	obj, info, err := l.store.Open(ctx, ArchiveName)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(obj, info.Size)
	if err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("failed to read log archive %s: %w", ArchiveName, err)
	}

	name := l.entryName(ref)
	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			entry = f
			break
		}
	}
	if entry == nil {
		_ = obj.Close()
		return nil, fmt.Errorf("%s!%s: %w", ArchiveName, name, fs.ErrNotExist)
	}

	rc, err := entry.Open()
	if err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("failed to open %s in log archive: %w", name, err)
	}

	return &report.Log{
		ReadCloser: &archiveEntry{ReadCloser: rc, archive: obj},
		Name:       name,
		ModTime:    entry.Modified,
		Size:       int64(entry.UncompressedSize64),
		Source:     report.LogSourceArchive,
	}, nil
}

func (l *Locator) fromLegacy(ctx context.Context, ref string) (*report.Log, error) {
	name := LegacyLogDir + "/" + ref
	obj, info, err := l.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	return &report.Log{
		ReadCloser: obj,
		Name:       name,
		ModTime:    info.ModTime,
		Size:       info.Size,
		Source:     report.LogSourceLegacy,
	}, nil
}

// archiveEntry releases the archive handle together with the entry reader.
type archiveEntry struct {
	io.ReadCloser
	archive io.Closer
}

func (e *archiveEntry) Close() error {
	return errors.Join(e.ReadCloser.Close(), e.archive.Close())
}
