package ingest

import (
	"fmt"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/google/uuid"
	"github.com/lvotypko/javatest-report/report"
)

// RootID is the id of the report root every feed's top level suites are added to.
const RootID = "report"

// Loader reads feeds from disk and builds report trees from them.
type Loader struct {
	fileManager fileutil.FileManager
	logger      log.Logger
}

// NewLoader ...
func NewLoader(fileManager fileutil.FileManager, logger log.Logger) *Loader {
	return &Loader{
		fileManager: fileManager,
		logger:      logger,
	}
}

// LoadFiles decodes every feed file in order.
func (l *Loader) LoadFiles(paths []string) ([]Feed, error) {
	var feeds []Feed
	for _, pth := range paths {
		feed, err := l.loadFile(pth)
		if err != nil {
			return nil, err
		}
		l.logger.Printf("- %s: %d top level suite(s), format %s", pth, len(feed.Suites), feed.FormatVersion)
		feeds = append(feeds, feed)
	}
	return feeds, nil
}

func (l *Loader) loadFile(pth string) (Feed, error) {
	f, err := l.fileManager.Open(pth)
	if err != nil {
		return Feed{}, fmt.Errorf("failed to open feed %s: %w", pth, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Warnf("Failed to close feed %s: %s", pth, err)
		}
	}()

	feed, err := Decode(f)
	if err != nil {
		return Feed{}, fmt.Errorf("%s: %w", pth, err)
	}
	return feed, nil
}

// Build assembles the feeds into one published report tree.
// Every node is complete before it is added to its parent, so rollups see final counts.
func Build(feeds []Feed, locator report.LogLocator) (*report.ReportTree, error) {
	root := report.NewResultNode(RootID, RootID, report.RoleReport)

	var runID string
	seen := map[string]bool{}
	for _, feed := range feeds {
		if runID == "" {
			runID = feed.RunID
		}
		for _, spec := range feed.Suites {
			if err := checkID(spec.ID, seen, RootID); err != nil {
				return nil, err
			}
			node, err := buildNode(spec, spec.ID)
			if err != nil {
				return nil, err
			}
			root.Add(node)
		}
	}

	if runID == "" {
		runID = uuid.NewString()
	}

	return report.NewReportTree(runID, root, locator), nil
}

func buildNode(spec NodeSpec, pth string) (*report.ResultNode, error) {
	role, err := parseRole(spec.Role, len(spec.Suites) > 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pth, err)
	}

	name := spec.Name
	if name == "" {
		name = spec.ID
	}
	node := report.NewResultNode(spec.ID, name, role, report.WithNodeDescription(spec.Description))

	seen := map[string]bool{}
	for _, childSpec := range spec.Suites {
		if err := checkID(childSpec.ID, seen, pth); err != nil {
			return nil, err
		}
		child, err := buildNode(childSpec, pth+"/"+childSpec.ID)
		if err != nil {
			return nil, err
		}
		node.Add(child)
	}

	for _, recordSpec := range spec.Tests {
		if err := checkID(recordSpec.ID, seen, pth); err != nil {
			return nil, err
		}
		node.Add(newRecord(recordSpec))
	}

	return node, nil
}

func newRecord(spec RecordSpec) *report.TestRecord {
	name := spec.Name
	if name == "" {
		name = spec.ID
	}

	opts := []report.RecordOption{
		report.WithDescription(spec.Description),
		report.WithStatusMessage(spec.StatusMessage),
	}
	for k, v := range spec.Attributes {
		opts = append(opts, report.WithAttribute(k, v))
	}
	if spec.Counts != nil {
		opts = append(opts, report.WithCounts(report.Counts{
			Total:   spec.Counts.Total,
			Failed:  spec.Counts.Failed,
			Skipped: spec.Counts.Skipped,
		}))
	}

	return report.NewTestRecord(spec.ID, name, report.ParseStatus(spec.Status), opts...)
}

// parseRole defaults to suite only for nodes holding test records alone;
// a suite's children are leaf records.
func parseRole(role string, hasSuites bool) (report.Role, error) {
	switch strings.ToLower(role) {
	case "":
		if hasSuites {
			return report.RoleOrdinary, nil
		}
		return report.RoleSuite, nil
	case "suite":
		if hasSuites {
			return report.RoleOrdinary, fmt.Errorf("suite role does not allow nested suites, use group")
		}
		return report.RoleSuite, nil
	case "group":
		return report.RoleOrdinary, nil
	default:
		return report.RoleOrdinary, fmt.Errorf("unknown node role (%s), should be suite or group", role)
	}
}

func checkID(id string, seen map[string]bool, owner string) error {
	if id == "" {
		return fmt.Errorf("%s: entry without id", owner)
	}
	if seen[id] {
		return fmt.Errorf("%s: duplicate id (%s)", owner, id)
	}
	seen[id] = true
	return nil
}
