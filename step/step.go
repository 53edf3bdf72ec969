package step

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/lvotypko/javatest-report/ingest"
	"github.com/lvotypko/javatest-report/loglocator"
	"github.com/lvotypko/javatest-report/logserve"
	"github.com/lvotypko/javatest-report/output"
	"github.com/lvotypko/javatest-report/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// FeedLoader ...
type FeedLoader interface {
	LoadFiles(paths []string) ([]ingest.Feed, error)
}

// ReportRunner ...
type ReportRunner struct {
	logger         log.Logger
	feedLoader     FeedLoader
	outputExporter output.Exporter
	pathChecker    pathutil.PathChecker
}

// NewReportRunner ...
func NewReportRunner(logger log.Logger, feedLoader FeedLoader, outputExporter output.Exporter, pathChecker pathutil.PathChecker) ReportRunner {
	return ReportRunner{
		logger:         logger,
		feedLoader:     feedLoader,
		outputExporter: outputExporter,
		pathChecker:    pathChecker,
	}
}

// Result ...
type Result struct {
	Tree        *report.ReportTree
	ArchivePath string
}

// Run ...
func (s ReportRunner) Run(cfg Config) (Result, error) {
	var result Result

	if cfg.ArchiveLogs {
		s.logger.Infof("Archiving captured logs")
		archivePth, err := s.outputExporter.ArchiveLogs(cfg.RunRoot, cfg.LogDir)
		if err != nil {
			return result, err
		}
		result.ArchivePath = archivePth
		s.logger.Println()
	}

	store, err := s.newRunStore(cfg)
	if err != nil {
		return result, err
	}
	locator := loglocator.NewLocator(store, cfg.ArchiveDir, s.logger)

	s.logger.Infof("Loading test records")
	feeds, err := s.feedLoader.LoadFiles(cfg.RecordPaths)
	if err != nil {
		return result, fmt.Errorf("failed to load test records: %w", err)
	}

	tree, err := ingest.Build(feeds, locator)
	if err != nil {
		return result, fmt.Errorf("failed to build report: %w", err)
	}
	result.Tree = tree

	s.logger.Println()
	s.printSummary(tree)

	return result, nil
}

// ExportOpts ...
type ExportOpts struct {
	Tree       *report.ReportTree
	DeployDir  string
	BundleName string
	LogDir     string
}

// Export ...
func (s ReportRunner) Export(opts ExportOpts) error {
	root := opts.Tree.Root()
	s.outputExporter.ExportTestRunResult(root.FailCount() > 0)

	if err := s.outputExporter.ExportSummary(opts.Tree); err != nil {
		return err
	}

	if opts.DeployDir != "" {
		if err := s.outputExporter.ExportJUnitReport(opts.DeployDir, opts.Tree); err != nil {
			return err
		}
	}

	s.outputExporter.ExportTestAddon(opts.Tree, opts.BundleName, opts.LogDir)

	return nil
}

// Serve serves the captured logs of tree on addr until ctx is done.
func (s ReportRunner) Serve(ctx context.Context, addr string, tree *report.ReportTree) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	handler := logserve.NewHandler(tree, s.logger, logserve.NewMetrics(reg))
	server := logserve.NewServer(addr, logserve.NewMux(handler, reg))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	s.logger.Infof("Serving captured logs on %s", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("log server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down log server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Donef("Log server stopped")
	return nil
}

func (s ReportRunner) newRunStore(cfg Config) (loglocator.RunStore, error) {
	if cfg.Storage != bucketStorage {
		return loglocator.NewDirStore(cfg.RunRoot, s.pathChecker), nil
	}

	client, err := loglocator.NewMinioClient(cfg.Bucket.Endpoint, cfg.Bucket.AccessKeyID, cfg.Bucket.SecretAccessKey)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("Reading run storage from bucket %s (prefix: %s)", cfg.Bucket.Bucket, cfg.Bucket.Prefix)
	return loglocator.NewBucketStore(client, cfg.Bucket.Bucket, cfg.Bucket.Prefix), nil
}

func (s ReportRunner) printSummary(tree *report.ReportTree) {
	s.logger.Infof("Test results (run %s)", tree.RunID())
	for _, suite := range tree.Suites() {
		s.logger.Printf("- %s: %d total, %d failed, %d skipped", suite.Name(), suite.TotalCount(), suite.FailCount(), suite.SkippedCount())
		for _, key := range suite.PackageNames() {
			group, _ := suite.PackageTests(key)
			s.logger.Debugf("  %s: %d total, %d failed", key, group.TotalCount(), group.FailCount())
		}
	}

	root := tree.Root()
	if root.FailCount() > 0 {
		s.logger.Errorf("%d of %d tests failed", root.FailCount(), root.TotalCount())
		return
	}
	s.logger.Donef("All %d tests passed (%d skipped)", root.TotalCount(), root.SkippedCount())
}
