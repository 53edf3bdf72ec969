package junit

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/lvotypko/javatest-report/report"
)

// TestReport ...
type TestReport struct {
	XMLName    xml.Name    `xml:"testsuites"`
	Name       string      `xml:"name,attr,omitempty"`
	Tests      int         `xml:"tests,attr"`
	Failures   int         `xml:"failures,attr"`
	Skipped    int         `xml:"skipped,attr"`
	TestSuites []TestSuite `xml:"testsuite"`
}

// TestSuite ...
type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	ID        string     `xml:"id,attr"`
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Skipped   int        `xml:"skipped,attr"`
	TestCases []TestCase `xml:"testcase"`
}

// TestCase ...
type TestCase struct {
	XMLName    xml.Name   `xml:"testcase"`
	Name       string     `xml:"name,attr"`
	ClassName  string     `xml:"classname,attr"`
	Failure    *Failure   `xml:"failure,omitempty"`
	Skipped    *Skipped   `xml:"skipped,omitempty"`
	Properties []Property `xml:"properties>property,omitempty"`
}

// Failure ...
type Failure struct {
	Message string `xml:"message,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// Skipped ...
type Skipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Property ...
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Convert maps every suite-role node of the tree to a testsuite.
// Records of nested ordinary nodes belong to the closest suite above them.
func Convert(tree *report.ReportTree) TestReport {
	testReport := TestReport{Name: tree.RunID()}

	for _, suite := range tree.Suites() {
		testSuite := TestSuite{
			ID:   suite.ID(),
			Name: suite.Name(),
		}
		collectTestCases(suite, suite.Name(), &testSuite)

		testReport.Tests += testSuite.Tests
		testReport.Failures += testSuite.Failures
		testReport.Skipped += testSuite.Skipped
		testReport.TestSuites = append(testReport.TestSuites, testSuite)
	}

	return testReport
}

func collectTestCases(node *report.ResultNode, suiteName string, testSuite *TestSuite) {
	for _, e := range node.Children() {
		switch child := e.(type) {
		case *report.ResultNode:
			if child.Role() == report.RoleSuite {
				continue
			}
			collectTestCases(child, suiteName, testSuite)
		case *report.TestRecord:
			testCase := newTestCase(child, suiteName)
			testSuite.Tests++
			if testCase.Failure != nil {
				testSuite.Failures++
			}
			if testCase.Skipped != nil {
				testSuite.Skipped++
			}
			testSuite.TestCases = append(testSuite.TestCases, testCase)
		}
	}
}

func newTestCase(record *report.TestRecord, suiteName string) TestCase {
	testCase := TestCase{
		Name:      record.Name(),
		ClassName: suiteName,
	}
	if projection, ok := report.ProjectPackage(report.RoleSuite, record.Name(), report.StatusPass); ok {
		testCase.Name = projection.LeafName
		testCase.ClassName = projection.PackageKey
	}

	switch record.Status() {
	case report.StatusFail:
		message := record.Description()
		if message == "" {
			message = "failed"
		}
		testCase.Failure = &Failure{Message: message, Value: record.StatusMessage()}
	case report.StatusSkip:
		testCase.Skipped = &Skipped{Message: record.Description()}
	}

	if ref := report.LogRef(record); ref != "" {
		testCase.Properties = append(testCase.Properties, Property{Name: report.LogFileAttribute, Value: ref})
	}

	return testCase
}

// Write encodes the report as indented XML with the standard header.
func Write(w io.Writer, testReport TestReport) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(testReport); err != nil {
		return fmt.Errorf("failed to encode junit report: %w", err)
	}
	return enc.Close()
}
