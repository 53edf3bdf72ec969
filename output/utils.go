package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lvotypko/javatest-report/report"
)

// collectFailedTests lists the failed leaf records under n, prefixed with the ids of the
// nodes leading to them.
func collectFailedTests(n *report.ResultNode) []string {
	var names []string
	var walk func(n *report.ResultNode, prefix []string)
	walk = func(n *report.ResultNode, prefix []string) {
		for _, e := range n.FailedTests() {
			switch child := e.(type) {
			case *report.ResultNode:
				walk(child, append(prefix, child.ID()))
			default:
				names = append(names, strings.Join(append(prefix, e.Name()), "."))
			}
		}
	}
	walk(n, nil)
	return names
}

func createFile(pth string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(pth), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", pth, err)
	}
	f, err := os.Create(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", pth, err)
	}
	return f, nil
}
