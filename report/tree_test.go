package report

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocator struct {
	refs []string
	logs map[string]string
}

func (l *fakeLocator) Locate(_ context.Context, ref string) (*Log, error) {
	l.refs = append(l.refs, ref)
	content, ok := l.logs[ref]
	if !ok {
		return nil, NewNotFoundError(KindLog, ref)
	}
	return &Log{
		ReadCloser: io.NopCloser(strings.NewReader(content)),
		Name:       ref,
		Size:       int64(len(content)),
		Source:     LogSourceLegacy,
	}, nil
}

func buildTree(locator LogLocator) *ReportTree {
	suite := NewResultNode("basic", "Basic", RoleSuite)
	suite.Add(NewTestRecord("t1", "pkg/A", StatusFail, WithStatusMessage("pkg/A.jtr")))
	suite.Add(NewTestRecord("t2", "pkg/B", StatusPass))

	group := NewResultNode("group", "Group", RoleOrdinary)
	group.Add(suite)

	root := NewResultNode("root", "root", RoleReport)
	root.Add(group)

	return NewReportTree("run-1", root, locator)
}

func Test_GivenTree_WhenWalkingPath_ThenNodeIsFound(t *testing.T) {
	// Given
	tree := buildTree(nil)

	// When
	node, err := tree.Node("group", "basic")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Basic", node.Name())
	assert.Equal(t, "group", node.ParentID())
	assert.Equal(t, "run-1", tree.RunID())
}

func Test_GivenTree_WhenPathPointsAtRecordOrNothing_ThenNodeIsNotFound(t *testing.T) {
	// Given
	tree := buildTree(nil)

	// When
	_, recordErr := tree.Node("group", "basic", "t1")
	_, missingErr := tree.Node("nope")

	// Then
	assert.True(t, IsNotFound(recordErr))
	assert.True(t, IsNotFound(missingErr))

	var nf *NotFoundError
	require.True(t, errors.As(missingErr, &nf))
	assert.Equal(t, KindNode, nf.Kind)
	assert.Equal(t, "nope", nf.Key)
}

func Test_GivenTree_WhenLookingUpRecord_ThenEntryIsReturned(t *testing.T) {
	// Given
	tree := buildTree(nil)

	// When
	e, err := tree.Record("group", "basic", "t2")
	_, missingErr := tree.Record("group", "basic", "t9")

	// Then
	require.NoError(t, err)
	assert.Equal(t, StatusPass, e.Status())
	assert.True(t, IsNotFound(missingErr))
}

func Test_GivenTree_WhenCollectingSuites_ThenOnlySuiteNodesAreReturned(t *testing.T) {
	// Given
	tree := buildTree(nil)

	// When
	suites := tree.Suites()

	// Then
	require.Len(t, suites, 1)
	assert.Equal(t, "basic", suites[0].ID())
}

func Test_GivenKnownRecord_WhenLogRequested_ThenLocatorGetsStatusMessage(t *testing.T) {
	// Given
	locator := &fakeLocator{logs: map[string]string{"pkg/A.jtr": "boom"}}
	tree := buildTree(locator)

	// When
	log, err := tree.Log(context.Background(), []string{"group", "basic"}, "t1")

	// Then
	require.NoError(t, err)
	defer func() { _ = log.Close() }()
	content, err := io.ReadAll(log)
	require.NoError(t, err)
	assert.Equal(t, "boom", string(content))
	assert.Equal(t, []string{"pkg/A.jtr"}, locator.refs)
}

func Test_GivenUnknownRecord_WhenLogRequested_ThenLocatorIsNeverCalled(t *testing.T) {
	// Given
	locator := &fakeLocator{}
	tree := buildTree(locator)

	// When
	_, err := tree.Log(context.Background(), []string{"group", "basic"}, "missing")

	// Then
	assert.True(t, IsNotFound(err))
	assert.Empty(t, locator.refs)
}

func Test_GivenRecordWithoutLogReference_WhenLogRequested_ThenLogIsNotFound(t *testing.T) {
	// Given
	locator := &fakeLocator{}
	tree := buildTree(locator)

	// When
	_, err := tree.Log(context.Background(), []string{"group", "basic"}, "t2")

	// Then
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, KindLog, nf.Kind)
	assert.Empty(t, locator.refs)
}

func Test_GivenPackageGroup_WhenLogRequested_ThenLogfileAttributeIsUsed(t *testing.T) {
	// Given
	locator := &fakeLocator{logs: map[string]string{"pkg/A.jtr": "boom"}}
	tree := buildTree(locator)
	suite, err := tree.Node("group", "basic")
	require.NoError(t, err)
	group, ok := suite.PackageTests("pkg")
	require.True(t, ok)

	// When
	log, err := group.Log(context.Background(), locator, "t1")

	// Then
	require.NoError(t, err)
	_ = log.Close()
	assert.Equal(t, []string{"pkg/A.jtr"}, locator.refs)
}
