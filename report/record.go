package report

// LogFileAttribute is the attribute a flattened package record uses to point at its log.
const LogFileAttribute = "logfile"

// Entry is anything a ResultNode can own: a leaf TestRecord or a nested ResultNode.
type Entry interface {
	ID() string
	Name() string
	Status() Status
	Description() string
	StatusMessage() string
	TotalCount() int
	FailCount() int
	SkippedCount() int
	// ParentID is the id of the owning node, empty until the entry is added somewhere.
	ParentID() string

	setParent(id string)
}

// TestRecord describes one executed test. It is immutable once constructed,
// apart from the parent link set by ResultNode.Add.
type TestRecord struct {
	id            string
	name          string
	status        Status
	description   string
	statusMessage string
	attributes    map[string]string
	counts        Counts
	parent        string
}

// RecordOption ...
type RecordOption func(*TestRecord)

// WithDescription ...
func WithDescription(description string) RecordOption {
	return func(r *TestRecord) {
		r.description = description
	}
}

// WithStatusMessage sets the status message, which doubles as the relative location of the
// record's captured log.
func WithStatusMessage(message string) RecordOption {
	return func(r *TestRecord) {
		r.statusMessage = message
	}
}

// WithAttribute ...
func WithAttribute(key, value string) RecordOption {
	return func(r *TestRecord) {
		r.attributes[key] = value
	}
}

// WithCounts overrides the 1/0/0 style self counts derived from the status,
// for records that summarize a subtree.
func WithCounts(counts Counts) RecordOption {
	return func(r *TestRecord) {
		r.counts = counts
	}
}

// NewTestRecord ...
func NewTestRecord(id, name string, status Status, opts ...RecordOption) *TestRecord {
	r := &TestRecord{
		id:         id,
		name:       name,
		status:     status,
		attributes: map[string]string{},
		counts:     defaultCounts(status),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TestRecord) ID() string            { return r.id }
func (r *TestRecord) Name() string          { return r.name }
func (r *TestRecord) Status() Status        { return r.status }
func (r *TestRecord) Description() string   { return r.description }
func (r *TestRecord) StatusMessage() string { return r.statusMessage }
func (r *TestRecord) TotalCount() int       { return r.counts.Total }
func (r *TestRecord) FailCount() int        { return r.counts.Failed }
func (r *TestRecord) SkippedCount() int     { return r.counts.Skipped }
func (r *TestRecord) ParentID() string      { return r.parent }

// Attribute ...
func (r *TestRecord) Attribute(key string) (string, bool) {
	v, ok := r.attributes[key]
	return v, ok
}

// Attributes returns a copy of the attribute bag.
func (r *TestRecord) Attributes() map[string]string {
	attrs := make(map[string]string, len(r.attributes))
	for k, v := range r.attributes {
		attrs[k] = v
	}
	return attrs
}

// LeafName is the part of the name after the last '/'.
func (r *TestRecord) LeafName() string {
	return leafName(r.name)
}

func (r *TestRecord) setParent(id string) {
	r.parent = id
}
