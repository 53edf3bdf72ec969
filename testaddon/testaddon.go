package testaddon

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/lvotypko/javatest-report/junit"
)

// ReportFileName is the JUnit report name the add-on picks up from a bundle.
const ReportFileName = "junit.xml"

// Exporter ...
type Exporter interface {
	ExportBundle(bundle Bundle) error
}

type exporter struct {
	testAddon   TestAddon
	fileManager fileutil.FileManager
}

// NewExporter ...
func NewExporter(testAddon TestAddon, fileManager fileutil.FileManager) Exporter {
	return &exporter{
		testAddon:   testAddon,
		fileManager: fileManager,
	}
}

// Bundle ...
type Bundle struct {
	Report junit.TestReport
	// LogDir is copied into the bundle when set.
	LogDir          string
	TargetAddonPath string
	BundleName      string
}

func (e exporter) ExportBundle(bundle Bundle) error {
	bundleName := e.testAddon.ReplaceUnsupportedFilenameCharacters(bundle.BundleName)
	bundleDir := filepath.Join(bundle.TargetAddonPath, bundleName)

	var buf bytes.Buffer
	if err := junit.Write(&buf, bundle.Report); err != nil {
		return err
	}
	if err := e.fileManager.Write(filepath.Join(bundleDir, ReportFileName), buf.String(), 0600); err != nil {
		return fmt.Errorf("failed to write junit report: %w", err)
	}

	if bundle.LogDir != "" {
		if err := e.testAddon.CopyDirectory(bundle.LogDir, bundleDir); err != nil {
			return err
		}
	}

	return e.testAddon.SaveBundleMetadata(bundleDir, bundleName)
}
