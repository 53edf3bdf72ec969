package report

import "slices"

// Role controls how a ResultNode treats the entries added to it.
type Role int

// const ...
const (
	// RoleOrdinary is an intermediate grouping of suites or other groups.
	RoleOrdinary Role = iota
	// RoleSuite owns leaf test records and projects them into its package index.
	RoleSuite
	// RolePackage is a package group holding flattened records of a suite.
	RolePackage
	// RoleReport is the root of a report tree.
	RoleReport
)

func (r Role) String() string {
	switch r {
	case RoleSuite:
		return "suite"
	case RolePackage:
		return "package"
	case RoleReport:
		return "report"
	default:
		return "group"
	}
}

// ResultNode is a composite of test records and nested nodes with rolled-up counts.
//
// A node is built by a single goroutine through Add and is read-only afterwards;
// concurrent readers need no locking once construction has finished.
type ResultNode struct {
	id          string
	name        string
	description string
	role        Role
	parent      string

	children *entryIndex
	failed   *entryIndex
	skipped  *entryIndex
	packages *PackageIndex

	counts Counts
}

// NodeOption ...
type NodeOption func(*ResultNode)

// WithNodeDescription ...
func WithNodeDescription(description string) NodeOption {
	return func(n *ResultNode) {
		n.description = description
	}
}

// NewResultNode ...
func NewResultNode(id, name string, role Role, opts ...NodeOption) *ResultNode {
	n := &ResultNode{
		id:       id,
		name:     name,
		role:     role,
		children: newEntryIndex(),
		failed:   newEntryIndex(),
		skipped:  newEntryIndex(),
		packages: newPackageIndex(id),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Add inserts e keyed by its id and rolls its counts up into n.
//
// Skipped entries are excluded from the total but their fail and skip counts are still
// added. Re-adding an id replaces the child; counters keep accumulating.
// Only leaf records are projected into the package index.
func (n *ResultNode) Add(e Entry) {
	id := e.ID()
	status := e.Status()

	n.failed.remove(id)
	n.skipped.remove(id)
	n.children.put(e)

	switch status {
	case StatusSkip:
		n.skipped.put(e)
	case StatusPass:
	default:
		n.failed.put(e)
	}

	if status != StatusSkip {
		n.counts.Total += e.TotalCount()
	}
	n.counts.Failed += e.FailCount()
	n.counts.Skipped += e.SkippedCount()

	e.setParent(n.id)

	if _, leaf := e.(*TestRecord); !leaf {
		return
	}
	if p, ok := ProjectPackage(n.role, e.Name(), status); ok {
		n.packages.add(p, e)
	}
}

// Get ...
func (n *ResultNode) Get(id string) (Entry, bool) {
	return n.children.get(id)
}

// Children returns all children ordered by id.
func (n *ResultNode) Children() []Entry {
	return n.children.values()
}

// FailedTests ...
func (n *ResultNode) FailedTests() []Entry {
	return n.failed.values()
}

// SkippedTests ...
func (n *ResultNode) SkippedTests() []Entry {
	return n.skipped.values()
}

// PackageNames returns the package keys of this node, never nil.
func (n *ResultNode) PackageNames() []string {
	return n.packages.Names()
}

// PackageTests ...
func (n *ResultNode) PackageTests(key string) (*ResultNode, bool) {
	return n.packages.Get(key)
}

// Packages ...
func (n *ResultNode) Packages() *PackageIndex {
	return n.packages
}

// ChildTitle is the caption of this node's children.
func (n *ResultNode) ChildTitle() string {
	switch n.role {
	case RoleReport:
		return "Suite"
	case RoleSuite, RolePackage:
		return "Test"
	default:
		return "Group"
	}
}

func (n *ResultNode) Role() Role            { return n.role }
func (n *ResultNode) ID() string            { return n.id }
func (n *ResultNode) Name() string          { return n.name }
func (n *ResultNode) Description() string   { return n.description }
func (n *ResultNode) StatusMessage() string { return "" }
func (n *ResultNode) TotalCount() int       { return n.counts.Total }
func (n *ResultNode) FailCount() int        { return n.counts.Failed }
func (n *ResultNode) SkippedCount() int     { return n.counts.Skipped }
func (n *ResultNode) ParentID() string      { return n.parent }

// Counts ...
func (n *ResultNode) Counts() Counts {
	return n.counts
}

// Status of a node: failing if anything below failed, skipped if everything below was
// skipped, passing otherwise.
func (n *ResultNode) Status() Status {
	switch {
	case n.counts.Failed > 0:
		return StatusFail
	case n.counts.Total == 0 && n.counts.Skipped > 0:
		return StatusSkip
	default:
		return StatusPass
	}
}

func (n *ResultNode) setParent(id string) {
	n.parent = id
}

// entryIndex is a map with its keys kept sorted for ordered iteration.
type entryIndex struct {
	entries map[string]Entry
	ids     []string
}

func newEntryIndex() *entryIndex {
	return &entryIndex{entries: map[string]Entry{}}
}

func (x *entryIndex) put(e Entry) {
	id := e.ID()
	if _, ok := x.entries[id]; !ok {
		i, _ := slices.BinarySearch(x.ids, id)
		x.ids = slices.Insert(x.ids, i, id)
	}
	x.entries[id] = e
}

func (x *entryIndex) remove(id string) {
	if _, ok := x.entries[id]; !ok {
		return
	}
	delete(x.entries, id)
	if i, found := slices.BinarySearch(x.ids, id); found {
		x.ids = slices.Delete(x.ids, i, i+1)
	}
}

func (x *entryIndex) get(id string) (Entry, bool) {
	e, ok := x.entries[id]
	return e, ok
}

func (x *entryIndex) values() []Entry {
	values := make([]Entry, 0, len(x.ids))
	for _, id := range x.ids {
		values = append(values, x.entries[id])
	}
	return values
}
