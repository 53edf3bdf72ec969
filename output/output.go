package output

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/ziputil"
	"github.com/lvotypko/javatest-report/fileremover"
	"github.com/lvotypko/javatest-report/junit"
	"github.com/lvotypko/javatest-report/loglocator"
	"github.com/lvotypko/javatest-report/report"
	"github.com/lvotypko/javatest-report/testaddon"
)

// Exported step outputs.
const (
	ResultKey      = "JAVATEST_REPORT_RESULT"
	TotalKey       = "JAVATEST_REPORT_TOTAL"
	FailedKey      = "JAVATEST_REPORT_FAILED"
	SkippedKey     = "JAVATEST_REPORT_SKIPPED"
	ReportIDKey    = "JAVATEST_REPORT_ID"
	JUnitPathKey   = "JAVATEST_REPORT_JUNIT_PATH"
	FailedTestsKey = "JAVATEST_FAILED_TESTS"

	failedTestsEnvVarSizeLimitInBytes = 1024
)

// Exporter ...
type Exporter interface {
	ExportTestRunResult(failed bool)
	ExportSummary(tree *report.ReportTree) error
	ExportJUnitReport(deployDir string, tree *report.ReportTree) error
	ExportTestAddon(tree *report.ReportTree, bundleName, logDir string)
	ArchiveLogs(runRoot, logDir string) (string, error)
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	outputExporter    export.Exporter
	testAddonExporter testaddon.Exporter
	fileRemover       fileremover.FileRemover
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, outputExporter export.Exporter, testAddonExporter testaddon.Exporter, fileRemover fileremover.FileRemover) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
		fileRemover:       fileRemover,
	}
}

func (e exporter) ExportTestRunResult(failed bool) {
	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := e.envRepository.Set(ResultKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", ResultKey, err)
	}
}

func (e exporter) ExportSummary(tree *report.ReportTree) error {
	root := tree.Root()
	values := []struct {
		key   string
		value string
	}{
		{TotalKey, strconv.Itoa(root.TotalCount())},
		{FailedKey, strconv.Itoa(root.FailCount())},
		{SkippedKey, strconv.Itoa(root.SkippedCount())},
		{ReportIDKey, tree.RunID()},
	}
	for _, v := range values {
		if err := e.envRepository.Set(v.key, v.value); err != nil {
			return fmt.Errorf("failed to export %s: %w", v.key, err)
		}
	}

	return e.exportFailedTests(collectFailedTests(root))
}

func (e exporter) ExportJUnitReport(deployDir string, tree *report.ReportTree) error {
	pth := filepath.Join(deployDir, testaddon.ReportFileName)
	f, err := createFile(pth)
	if err != nil {
		return err
	}
	if err := junit.Write(f, junit.Convert(tree)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", pth, err)
	}

	if err := e.outputExporter.ExportOutput(JUnitPathKey, pth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", JUnitPathKey, err)
	}
	return nil
}

func (e exporter) ExportTestAddon(tree *report.ReportTree, bundleName, logDir string) {
	addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey)
	if len(addonResultPath) == 0 {
		return
	}

	e.logger.Println()
	e.logger.Infof("Exporting test results")

	if err := e.testAddonExporter.ExportBundle(testaddon.Bundle{
		Report:          junit.Convert(tree),
		LogDir:          logDir,
		TargetAddonPath: addonResultPath,
		BundleName:      bundleName,
	}); err != nil {
		e.logger.Warnf("Failed to export test results: %s", err)
	}
}

// ArchiveLogs consolidates logDir into the run archive. Entries are stored under the
// final segment of logDir, the prefix the log locator looks them up with.
func (e exporter) ArchiveLogs(runRoot, logDir string) (string, error) {
	archivePth := filepath.Join(runRoot, loglocator.ArchiveName)
	if err := e.fileRemover.RemoveStale(archivePth); err != nil {
		return "", err
	}

	if err := ziputil.ZipDir(logDir, archivePth, false); err != nil {
		return "", fmt.Errorf("failed to archive captured logs (%s): %w", logDir, err)
	}

	e.logger.Donef("Captured logs archived: %s", archivePth)
	return archivePth, nil
}

func (e exporter) exportFailedTests(failedTests []string) error {
	if len(failedTests) == 0 {
		return nil
	}

	var failedTestsMessage string
	for i, failedTest := range failedTests {
		failedTestsMessageLine := fmt.Sprintf("- %s\n", failedTest)

		if len(failedTestsMessage)+len(failedTestsMessageLine) > failedTestsEnvVarSizeLimitInBytes {
			e.logger.Warnf("%s env var size limit (%d characters) exceeded. Skipping %d test cases.", FailedTestsKey, failedTestsEnvVarSizeLimitInBytes, len(failedTests)-i)
			break
		}

		failedTestsMessage += failedTestsMessageLine
	}

	if err := e.envRepository.Set(FailedTestsKey, failedTestsMessage); err != nil {
		return fmt.Errorf("failed to export %s: %w", FailedTestsKey, err)
	}

	return nil
}
