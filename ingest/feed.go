package ingest

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

const defaultFormatVersion = "1.0"

var supportedFormatVersions = version.MustConstraints(version.NewConstraint(">= 1.0, < 2.0"))

// Feed is a run's test records, already materialized from the harness output.
type Feed struct {
	FormatVersion string     `yaml:"format_version"`
	RunID         string     `yaml:"run_id"`
	Suites        []NodeSpec `yaml:"suites"`
}

// NodeSpec ...
type NodeSpec struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Role        string       `yaml:"role"`
	Tests       []RecordSpec `yaml:"tests"`
	Suites      []NodeSpec   `yaml:"suites"`
}

// RecordSpec ...
type RecordSpec struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Status        string            `yaml:"status"`
	Description   string            `yaml:"description"`
	StatusMessage string            `yaml:"status_message"`
	Attributes    map[string]string `yaml:"attributes"`
	Counts        *CountsSpec       `yaml:"counts"`
}

// CountsSpec ...
type CountsSpec struct {
	Total   int `yaml:"total"`
	Failed  int `yaml:"failed"`
	Skipped int `yaml:"skipped"`
}

// Decode reads a YAML (or JSON) feed and checks its format version.
func Decode(r io.Reader) (Feed, error) {
	var feed Feed
	if err := yaml.NewDecoder(r).Decode(&feed); err != nil {
		if err == io.EOF {
			return Feed{}, fmt.Errorf("empty feed")
		}
		return Feed{}, fmt.Errorf("failed to decode feed: %w", err)
	}

	if feed.FormatVersion == "" {
		feed.FormatVersion = defaultFormatVersion
	}
	if err := CheckFormatVersion(feed.FormatVersion); err != nil {
		return Feed{}, err
	}

	return feed, nil
}

// CheckFormatVersion ...
func CheckFormatVersion(v string) error {
	ver, err := version.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid feed format version (%s): %w", v, err)
	}
	if !supportedFormatVersions.Check(ver) {
		return fmt.Errorf("unsupported feed format version (%s), supported: %s", v, supportedFormatVersions)
	}
	return nil
}
