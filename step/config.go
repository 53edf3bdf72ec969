package step

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/kballard/go-shellquote"
	"github.com/lvotypko/javatest-report/loglocator"
)

// Input ...
type Input struct {
	// Report sources
	RecordsPath  string `env:"records_path,required"`
	RunRoot      string `env:"run_root,required"`
	WorkspaceDir string `env:"workspace_dir,dir"`
	LogSourceDir string `env:"log_source_dir"`
	ArchiveLogs  bool   `env:"archive_logs,opt[yes,no]"`

	// Run storage
	Storage           string          `env:"storage,opt[local,s3]"`
	S3Endpoint        string          `env:"s3_endpoint"`
	S3Bucket          string          `env:"s3_bucket"`
	S3Prefix          string          `env:"s3_prefix"`
	S3AccessKeyID     stepconf.Secret `env:"s3_access_key_id"`
	S3SecretAccessKey stepconf.Secret `env:"s3_secret_access_key"`

	// Output export
	BundleName   string `env:"bundle_name"`
	ServeAddress string `env:"serve_address"`
	DeployDir    string `env:"BITRISE_DEPLOY_DIR"`

	// Debug
	Verbose bool `env:"verbose,opt[yes,no]"`
}

type storageKind int

const (
	invalidStorage storageKind = iota
	localStorage
	bucketStorage
)

func parseStorageKind(storage string) storageKind {
	switch storage {
	case "", "local":
		return localStorage
	case "s3":
		return bucketStorage
	default:
		return invalidStorage
	}
}

// BucketConfig ...
type BucketConfig struct {
	Endpoint        string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// Config ...
type Config struct {
	RecordPaths []string
	RunRoot     string

	// LogDir is the captured log folder: LogSourceDir resolved against the workspace.
	LogDir string
	// ArchiveDir is the prefix of the log entries inside the run archive.
	ArchiveDir  string
	ArchiveLogs bool

	Storage storageKind
	Bucket  BucketConfig

	BundleName   string
	ServeAddress string
	DeployDir    string
}

// ConfigParser ...
type ConfigParser struct {
	inputParser  stepconf.InputParser
	logger       log.Logger
	pathModifier pathutil.PathModifier
}

// NewConfigParser ...
func NewConfigParser(inputParser stepconf.InputParser, logger log.Logger, pathModifier pathutil.PathModifier) ConfigParser {
	return ConfigParser{
		inputParser:  inputParser,
		logger:       logger,
		pathModifier: pathModifier,
	}
}

// ProcessConfig ...
func (p ConfigParser) ProcessConfig() (Config, error) {
	var input Input
	if err := p.inputParser.Parse(&input); err != nil {
		return Config{}, err
	}

	stepconf.Print(input)
	p.logger.Println()

	p.logger.EnableDebugLog(input.Verbose)

	recordPaths, err := p.parseRecordPaths(input.RecordsPath)
	if err != nil {
		return Config{}, err
	}

	runRoot, err := p.pathModifier.AbsPath(input.RunRoot)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand run root (%s): %w", input.RunRoot, err)
	}

	workspaceDir := input.WorkspaceDir
	if workspaceDir == "" {
		workspaceDir = "."
	}
	workspaceDir, err = p.pathModifier.AbsPath(workspaceDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand workspace dir (%s): %w", input.WorkspaceDir, err)
	}

	archiveDir := loglocator.ArchiveDirName(workspaceDir, input.LogSourceDir)
	var logDir string
	if input.LogSourceDir != "" {
		logDir = filepath.Join(workspaceDir, input.LogSourceDir)
	}

	storage := parseStorageKind(input.Storage)
	if storage == invalidStorage {
		return Config{}, fmt.Errorf("invalid storage (%s), should be local or s3", input.Storage)
	}

	if err := validateStorage(input, storage); err != nil {
		return Config{}, err
	}

	if input.ArchiveLogs && logDir == "" {
		return Config{}, errors.New("archive_logs requires log_source_dir to be set")
	}

	bundleName := input.BundleName
	if bundleName == "" {
		bundleName = "Java tests"
	}

	return Config{
		RecordPaths: recordPaths,
		RunRoot:     runRoot,
		LogDir:      logDir,
		ArchiveDir:  archiveDir,
		ArchiveLogs: input.ArchiveLogs,
		Storage:     storage,
		Bucket: BucketConfig{
			Endpoint:        input.S3Endpoint,
			Bucket:          input.S3Bucket,
			Prefix:          input.S3Prefix,
			AccessKeyID:     string(input.S3AccessKeyID),
			SecretAccessKey: string(input.S3SecretAccessKey),
		},
		BundleName:   bundleName,
		ServeAddress: input.ServeAddress,
		DeployDir:    input.DeployDir,
	}, nil
}

func (p ConfigParser) parseRecordPaths(recordsPath string) ([]string, error) {
	paths, err := shellquote.Split(recordsPath)
	if err != nil {
		return nil, fmt.Errorf("provided records_path (%s) are not valid CLI parameters: %w", recordsPath, err)
	}
	if len(paths) == 0 {
		return nil, errors.New("records_path does not name any feed file")
	}

	var absPaths []string
	for _, pth := range paths {
		absPth, err := p.pathModifier.AbsPath(pth)
		if err != nil {
			return nil, fmt.Errorf("failed to expand feed path (%s): %w", pth, err)
		}
		absPaths = append(absPaths, absPth)
	}
	return absPaths, nil
}

func validateStorage(input Input, storage storageKind) error {
	if storage != bucketStorage {
		return nil
	}

	var missing []string
	if input.S3Endpoint == "" {
		missing = append(missing, "s3_endpoint")
	}
	if input.S3Bucket == "" {
		missing = append(missing, "s3_bucket")
	}
	if len(missing) > 0 {
		return fmt.Errorf("s3 storage requires: %s", strings.Join(missing, ", "))
	}
	if input.ArchiveLogs {
		return errors.New("archive_logs is only supported with local storage")
	}
	return nil
}
