package report

import "strings"

const nameSeparator = "/"

// Projection is where a record lands in a suite's package index.
type Projection struct {
	PackageKey string
	LeafName   string
}

// ProjectPackage decides whether a record added to a node of the given role is projected
// into the node's package index, and under which key.
//
// Only suite nodes project, skipped records never do, and the name needs a '/' that is
// neither its first nor its last character. For "a/b/Test1" the key is "a.b" and the leaf
// name "Test1".
func ProjectPackage(role Role, name string, status Status) (Projection, bool) {
	if status == StatusSkip || role != RoleSuite {
		return Projection{}, false
	}

	pos := strings.LastIndex(name, nameSeparator)
	if pos <= 0 || pos == len(name)-1 {
		return Projection{}, false
	}

	return Projection{
		PackageKey: strings.ReplaceAll(name[:pos], nameSeparator, "."),
		LeafName:   name[pos+1:],
	}, true
}

func leafName(name string) string {
	return name[strings.LastIndex(name, nameSeparator)+1:]
}

// flatten builds the one-level summary of an entry stored in a package group.
func flatten(e Entry) *TestRecord {
	return NewTestRecord(e.ID(), e.Name(), e.Status(),
		WithDescription(e.Description()),
		WithAttribute(LogFileAttribute, e.StatusMessage()),
	)
}
