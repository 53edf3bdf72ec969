package output

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/lvotypko/javatest-report/fileremover"
	"github.com/lvotypko/javatest-report/loglocator"
	"github.com/lvotypko/javatest-report/output/mocks"
	"github.com/lvotypko/javatest-report/report"
	"github.com/lvotypko/javatest-report/testaddon"
	addonmocks "github.com/lvotypko/javatest-report/testaddon/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testingMocks struct {
	envRepository     *mocks.Repository
	testAddonExporter *addonmocks.Exporter
}

func Test_GivenSuccessfulTest_WhenExportingTestRunResults_ThenSetsEnvVariableToSuccess(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportTestRunResult(false)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", ResultKey, "succeeded")
}

func Test_GivenFailedTest_WhenExportingTestRunResults_ThenSetsEnvVariableToFailure(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	exporter.ExportTestRunResult(true)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", ResultKey, "failed")
}

func Test_GivenReport_WhenExportingSummary_ThenCountsAndFailedTestsAreSet(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportSummary(createTree())

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertCalled(t, "Set", TotalKey, "2")
	mocks.envRepository.AssertCalled(t, "Set", FailedKey, "1")
	mocks.envRepository.AssertCalled(t, "Set", SkippedKey, "1")
	mocks.envRepository.AssertCalled(t, "Set", ReportIDKey, "run-1")
	mocks.envRepository.AssertCalled(t, "Set", FailedTestsKey, "- basic.pkg/A\n")
}

func Test_GivenManyFailedTests_WhenExportingSummary_ThenListIsCappedAtSizeLimit(t *testing.T) {
	// Given
	suite := report.NewResultNode("s", "s", report.RoleSuite)
	for i := 0; i < 100; i++ {
		id := strings.Repeat("x", 20) + string(rune('a'+i%26)) + strings.Repeat("y", i/26)
		suite.Add(report.NewTestRecord(id, id, report.StatusFail))
	}
	root := report.NewResultNode("report", "report", report.RoleReport)
	root.Add(suite)
	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportSummary(report.NewReportTree("run", root, nil))

	// Then
	require.NoError(t, err)
	var exported string
	for _, call := range mocks.envRepository.Calls {
		if call.Arguments.String(0) == FailedTestsKey {
			exported = call.Arguments.String(1)
		}
	}
	assert.NotEmpty(t, exported)
	assert.LessOrEqual(t, len(exported), failedTestsEnvVarSizeLimitInBytes)
	assert.True(t, strings.HasSuffix(exported, "\n"))
}

func Test_GivenNoFailures_WhenExportingSummary_ThenFailedTestsAreNotSet(t *testing.T) {
	// Given
	suite := report.NewResultNode("s", "s", report.RoleSuite)
	suite.Add(report.NewTestRecord("t", "pkg/T", report.StatusPass))
	root := report.NewResultNode("report", "report", report.RoleReport)
	root.Add(suite)
	exporter, mocks := createSutAndMocks()

	// When
	err := exporter.ExportSummary(report.NewReportTree("run", root, nil))

	// Then
	require.NoError(t, err)
	mocks.envRepository.AssertNotCalled(t, "Set", FailedTestsKey, mock.Anything)
}

func Test_GivenReport_WhenExportingJUnit_ThenReportIsWrittenToDeployDir(t *testing.T) {
	// Given
	deployDir := t.TempDir()
	exporter, _ := createSutAndMocks()

	// When
	err := exporter.ExportJUnitReport(deployDir, createTree())

	// Then
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(deployDir, testaddon.ReportFileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), `<testsuite id="basic" name="Basic" tests="3" failures="1" skipped="1">`)
}

func Test_GivenAddonResultDir_WhenExportingTestAddon_ThenBundleIsExported(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()
	mocks.envRepository.On("Get", configs.BitrisePerStepTestResultDirEnvKey).Return("/addon")
	mocks.testAddonExporter.On("ExportBundle", mock.Anything).Return(nil)

	// When
	exporter.ExportTestAddon(createTree(), "Java tests", "/work/jtwork")

	// Then
	mocks.testAddonExporter.AssertCalled(t, "ExportBundle", mock.MatchedBy(func(bundle testaddon.Bundle) bool {
		return bundle.TargetAddonPath == "/addon" &&
			bundle.BundleName == "Java tests" &&
			bundle.LogDir == "/work/jtwork" &&
			bundle.Report.Tests == 3
	}))
}

func Test_GivenNoAddonResultDir_WhenExportingTestAddon_ThenNothingIsExported(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks()
	mocks.envRepository.On("Get", configs.BitrisePerStepTestResultDirEnvKey).Return("")

	// When
	exporter.ExportTestAddon(createTree(), "Java tests", "")

	// Then
	mocks.testAddonExporter.AssertNotCalled(t, "ExportBundle", mock.Anything)
}

func Test_GivenLogDir_WhenArchiving_ThenLocatorFindsEntriesUnderTheFolderName(t *testing.T) {
	// Given
	runRoot := t.TempDir()
	workspace := t.TempDir()
	logDir := filepath.Join(workspace, "jtwork")
	require.NoError(t, fileutil.NewFileManager().Write(filepath.Join(logDir, "sub", "out.log"), "captured", 0600))
	require.NoError(t, fileutil.NewFileManager().Write(filepath.Join(runRoot, loglocator.ArchiveName), "stale", 0600))
	exporter, _ := createSutAndMocks()

	// When
	archivePth, err := exporter.ArchiveLogs(runRoot, logDir)

	// Then
	require.NoError(t, err)
	assert.True(t, isPathExists(archivePth))

	store := loglocator.NewDirStore(runRoot, pathutil.NewPathChecker())
	locator := loglocator.NewLocator(store, loglocator.ArchiveDirName(workspace, "jtwork"), log.NewLogger())
	lg, err := locator.Locate(context.Background(), "sub/out.log")
	require.NoError(t, err)
	defer func() { _ = lg.Close() }()
	content, err := io.ReadAll(lg)
	require.NoError(t, err)
	assert.Equal(t, "captured", string(content))
	assert.Equal(t, report.LogSourceArchive, lg.Source)
}

// Helpers

func createSutAndMocks() (Exporter, testingMocks) {
	envRepository := new(mocks.Repository)
	envRepository.On("Set", mock.Anything, mock.Anything).Return(nil)
	testAddonExporter := new(addonmocks.Exporter)

	logger := log.NewLogger()
	outputExporter := export.NewExporter(command.NewFactory(env.NewRepository()))
	remover := fileremover.NewFileRemover(fileutil.NewFileManager(), logger)

	exporter := NewExporter(envRepository, logger, outputExporter, testAddonExporter, remover)

	return exporter, testingMocks{
		envRepository:     envRepository,
		testAddonExporter: testAddonExporter,
	}
}

func createTree() *report.ReportTree {
	suite := report.NewResultNode("basic", "Basic", report.RoleSuite)
	suite.Add(report.NewTestRecord("t1", "pkg/A", report.StatusFail, report.WithStatusMessage("pkg/A.jtr")))
	suite.Add(report.NewTestRecord("t2", "pkg/B", report.StatusPass))
	suite.Add(report.NewTestRecord("t3", "other/C", report.StatusSkip))
	root := report.NewResultNode("report", "report", report.RoleReport)
	root.Add(suite)
	return report.NewReportTree("run-1", root, nil)
}

func isPathExists(path string) bool {
	isExist, _ := pathutil.NewPathChecker().IsPathExists(path)
	return isExist
}
