package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-steputils/v2/stepenv"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/joho/godotenv"
	"github.com/lvotypko/javatest-report/fileremover"
	"github.com/lvotypko/javatest-report/ingest"
	"github.com/lvotypko/javatest-report/output"
	"github.com/lvotypko/javatest-report/step"
	"github.com/lvotypko/javatest-report/testaddon"
)

const envFileKey = "JAVATEST_REPORT_ENV_FILE"

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()

	if err := loadEnvFile(os.Getenv(envFileKey)); err != nil {
		logger.Errorf("Load env file: %s", err)
		return 1
	}

	configParser, reportRunner := createStep(logger)

	config, err := configParser.ProcessConfig()
	if err != nil {
		logger.Errorf("Process config: %s", err)
		return 1
	}

	result, runErr := reportRunner.Run(config)
	if runErr != nil {
		logger.Errorf("Run: %s", runErr)
		return 1
	}

	logger.Println()
	if err := reportRunner.Export(step.ExportOpts{
		Tree:       result.Tree,
		DeployDir:  config.DeployDir,
		BundleName: config.BundleName,
		LogDir:     config.LogDir,
	}); err != nil {
		logger.Errorf("Export outputs: %s", err)
		return 1
	}

	if config.ServeAddress != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Println()
		if err := reportRunner.Serve(ctx, config.ServeAddress, result.Tree); err != nil {
			logger.Errorf("Serve logs: %s", err)
			return 1
		}
	}

	if result.Tree.Root().FailCount() > 0 {
		return 1
	}
	return 0
}

// loadEnvFile applies the dotenv file at pth without overriding variables already set.
func loadEnvFile(pth string) error {
	if pth == "" {
		return nil
	}
	if err := godotenv.Load(pth); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env file (%s) does not exist", pth)
		}
		return fmt.Errorf("failed to load env file (%s): %w", pth, err)
	}
	return nil
}

func createStep(logger log.Logger) (step.ConfigParser, step.ReportRunner) {
	envRepository := env.NewRepository()
	inputParser := stepconf.NewInputParser(envRepository)
	pathModifier := pathutil.NewPathModifier()
	pathChecker := pathutil.NewPathChecker()
	fileManager := fileutil.NewFileManager()
	commandFactory := command.NewFactory(envRepository)

	testAddon := testaddon.NewTestAddon(logger, commandFactory, fileManager)
	testAddonExporter := testaddon.NewExporter(testAddon, fileManager)
	outputExporter := output.NewExporter(
		stepenv.NewRepository(envRepository),
		logger,
		export.NewExporter(commandFactory),
		testAddonExporter,
		fileremover.NewFileRemover(fileManager, logger),
	)
	feedLoader := ingest.NewLoader(fileManager, logger)

	configParser := step.NewConfigParser(inputParser, logger, pathModifier)
	reportRunner := step.NewReportRunner(logger, feedLoader, outputExporter, pathChecker)

	return configParser, reportRunner
}
