package ingest

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/google/uuid"
	"github.com/lvotypko/javatest-report/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenSuiteFeed_WhenBuilt_ThenRollupsAndPackagesMatch(t *testing.T) {
	// Given
	feed, err := Decode(strings.NewReader(basicFeed))
	require.NoError(t, err)

	// When
	tree, err := Build([]Feed{feed}, nil)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "run-42", tree.RunID())

	suite, err := tree.Node("basic")
	require.NoError(t, err)
	assert.Equal(t, report.RoleSuite, suite.Role())
	assert.Equal(t, 2, suite.TotalCount())
	assert.Equal(t, 1, suite.FailCount())
	assert.Equal(t, 1, suite.SkippedCount())
	assert.Equal(t, []string{"pkg"}, suite.PackageNames())

	group, ok := suite.PackageTests("pkg")
	require.True(t, ok)
	var ids []string
	for _, e := range group.Children() {
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []string{"t1", "t2"}, ids)

	root := tree.Root()
	assert.Equal(t, 2, root.TotalCount())
	assert.Equal(t, 1, root.FailCount())
	assert.Equal(t, "Suite", root.ChildTitle())
}

func Test_GivenNestedGroup_WhenBuilt_ThenChildIsCompleteBeforeParentRollup(t *testing.T) {
	// Given
	feed := Feed{Suites: []NodeSpec{{
		ID:   "outer",
		Role: "group",
		Suites: []NodeSpec{{
			ID: "inner",
			Tests: []RecordSpec{
				{ID: "a", Name: "x/A", Status: "FAIL"},
				{ID: "b", Name: "x/B", Status: "PASS"},
			},
		}},
	}}}

	// When
	tree, err := Build([]Feed{feed}, nil)

	// Then
	require.NoError(t, err)
	outer, err := tree.Node("outer")
	require.NoError(t, err)
	assert.Equal(t, report.RoleOrdinary, outer.Role())
	assert.Equal(t, "outer", outer.Name())
	assert.Equal(t, 2, outer.TotalCount())
	assert.Equal(t, 1, outer.FailCount())
	assert.Empty(t, outer.PackageNames())
	assert.Len(t, outer.FailedTests(), 1)

	record, err := tree.Record("outer", "inner", "a")
	require.NoError(t, err)
	assert.Equal(t, report.StatusFail, record.Status())
}

func Test_GivenUnroledNodeWithNestedSuite_WhenBuilt_ThenItIsAGroupWithoutPackages(t *testing.T) {
	// Given
	feed := Feed{Suites: []NodeSpec{{
		ID: "outer",
		Suites: []NodeSpec{{
			ID:    "inner",
			Name:  "com/acme/Inner",
			Tests: []RecordSpec{{ID: "t1", Name: "x/T1", Status: "FAIL"}},
		}},
	}}}

	// When
	tree, err := Build([]Feed{feed}, nil)

	// Then
	require.NoError(t, err)
	outer, err := tree.Node("outer")
	require.NoError(t, err)
	assert.Equal(t, report.RoleOrdinary, outer.Role())
	assert.Empty(t, outer.PackageNames())
	assert.Equal(t, 1, outer.FailCount())

	inner, err := tree.Node("outer", "inner")
	require.NoError(t, err)
	assert.Equal(t, report.RoleSuite, inner.Role())
	assert.Equal(t, []string{"x"}, inner.PackageNames())
}

func Test_GivenFeedWithoutRunID_WhenBuilt_ThenRunIDIsGenerated(t *testing.T) {
	tree, err := Build([]Feed{{}}, nil)

	require.NoError(t, err)
	_, err = uuid.Parse(tree.RunID())
	assert.NoError(t, err)
}

func Test_GivenInvalidFeeds_WhenBuilt_ThenErrorIsReturned(t *testing.T) {
	tests := []struct {
		name    string
		feeds   []Feed
		wantErr string
	}{
		{
			name:    "unknown role",
			feeds:   []Feed{{Suites: []NodeSpec{{ID: "s", Role: "package"}}}},
			wantErr: "s: unknown node role (package), should be suite or group",
		},
		{
			name:    "suite role with nested suites",
			feeds:   []Feed{{Suites: []NodeSpec{{ID: "s", Role: "suite", Suites: []NodeSpec{{ID: "i"}}}}}},
			wantErr: "s: suite role does not allow nested suites, use group",
		},
		{
			name:    "duplicate record id",
			feeds:   []Feed{{Suites: []NodeSpec{{ID: "s", Tests: []RecordSpec{{ID: "t"}, {ID: "t"}}}}}},
			wantErr: "s: duplicate id (t)",
		},
		{
			name:    "duplicate suite id across feeds",
			feeds:   []Feed{{Suites: []NodeSpec{{ID: "s"}}}, {Suites: []NodeSpec{{ID: "s"}}}},
			wantErr: "report: duplicate id (s)",
		},
		{
			name:    "record without id",
			feeds:   []Feed{{Suites: []NodeSpec{{ID: "s", Suites: []NodeSpec{{ID: "g", Tests: []RecordSpec{{Name: "x"}}}}}}}},
			wantErr: "s/g: entry without id",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.feeds, nil)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func Test_GivenFeedFiles_WhenLoaded_ThenFeedsAreReturnedInOrder(t *testing.T) {
	// Given
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yml")
	second := filepath.Join(dir, "second.json")
	fileManager := fileutil.NewFileManager()
	require.NoError(t, fileManager.Write(first, basicFeed, 0644))
	require.NoError(t, fileManager.Write(second, `{"run_id": "other", "suites": []}`, 0644))
	loader := NewLoader(fileManager, log.NewLogger())

	// When
	feeds, err := loader.LoadFiles([]string{first, second})

	// Then
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, "run-42", feeds[0].RunID)
	assert.Equal(t, "other", feeds[1].RunID)
}

func Test_GivenMissingFeedFile_WhenLoaded_ThenErrorNamesThePath(t *testing.T) {
	loader := NewLoader(fileutil.NewFileManager(), log.NewLogger())
	pth := filepath.Join(t.TempDir(), "missing.yml")

	_, err := loader.LoadFiles([]string{pth})

	require.Error(t, err)
	assert.Contains(t, err.Error(), pth)
}

func Test_GivenUnsupportedVersionFile_WhenLoaded_ThenErrorIsReturned(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "feed.yml")
	require.NoError(t, fileutil.NewFileManager().Write(pth, "format_version: \"2.0\"\n", 0644))
	loader := NewLoader(fileutil.NewFileManager(), log.NewLogger())

	_, err := loader.LoadFiles([]string{pth})

	assert.ErrorContains(t, err, "unsupported feed format version (2.0)")
}
