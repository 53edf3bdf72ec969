package report

import (
	"context"
	"errors"
	"strings"
)

// ReportTree is the published, read-only result of one run.
type ReportTree struct {
	runID   string
	root    *ResultNode
	locator LogLocator
}

// NewReportTree publishes root. root must not be modified afterwards.
func NewReportTree(runID string, root *ResultNode, locator LogLocator) *ReportTree {
	return &ReportTree{
		runID:   runID,
		root:    root,
		locator: locator,
	}
}

// RunID ...
func (t *ReportTree) RunID() string {
	return t.runID
}

// Root ...
func (t *ReportTree) Root() *ResultNode {
	return t.root
}

// Node walks the child ids in path starting at the root. An empty path is the root.
func (t *ReportTree) Node(path ...string) (*ResultNode, error) {
	node := t.root
	for i, id := range path {
		e, ok := node.Get(id)
		if !ok {
			return nil, NewNotFoundError(KindNode, strings.Join(path[:i+1], "/"))
		}
		child, ok := e.(*ResultNode)
		if !ok {
			return nil, NewNotFoundError(KindNode, strings.Join(path[:i+1], "/"))
		}
		node = child
	}
	return node, nil
}

// Record returns the entry at the end of path.
func (t *ReportTree) Record(path ...string) (Entry, error) {
	if len(path) == 0 {
		return t.root, nil
	}

	node, err := t.Node(path[:len(path)-1]...)
	if err != nil {
		return nil, err
	}

	id := path[len(path)-1]
	e, ok := node.Get(id)
	if !ok {
		return nil, NewNotFoundError(KindRecord, id)
	}
	return e, nil
}

// Log opens the log of record id owned by the node at nodePath.
func (t *ReportTree) Log(ctx context.Context, nodePath []string, id string) (*Log, error) {
	node, err := t.Node(nodePath...)
	if err != nil {
		return nil, err
	}
	if t.locator == nil {
		return nil, errors.New("no log locator configured for the report")
	}
	return node.Log(ctx, t.locator, id)
}

// Suites returns every suite-role node of the tree, depth first, in id order.
func (t *ReportTree) Suites() []*ResultNode {
	var suites []*ResultNode
	var walk func(n *ResultNode)
	walk = func(n *ResultNode) {
		if n.role == RoleSuite {
			suites = append(suites, n)
		}
		for _, e := range n.Children() {
			if child, ok := e.(*ResultNode); ok {
				walk(child)
			}
		}
	}
	walk(t.root)
	return suites
}
