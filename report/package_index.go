package report

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PackageIndex groups a suite's records by package key.
// Keys iterate in the order their first record was added.
type PackageIndex struct {
	owner    string
	packages *orderedmap.OrderedMap[string, *ResultNode]
}

func newPackageIndex(owner string) *PackageIndex {
	return &PackageIndex{
		owner:    owner,
		packages: orderedmap.New[string, *ResultNode](),
	}
}

func (i *PackageIndex) add(p Projection, e Entry) {
	group, ok := i.packages.Get(p.PackageKey)
	if !ok {
		group = NewResultNode(p.PackageKey, p.PackageKey, RolePackage)
		group.setParent(i.owner)
		i.packages.Set(p.PackageKey, group)
	}
	group.Add(flatten(e))
}

// Names ...
func (i *PackageIndex) Names() []string {
	names := make([]string, 0, i.packages.Len())
	for pair := i.packages.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Get ...
func (i *PackageIndex) Get(key string) (*ResultNode, bool) {
	return i.packages.Get(key)
}

// Len ...
func (i *PackageIndex) Len() int {
	return i.packages.Len()
}
