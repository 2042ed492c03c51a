package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordLookup(_ *LookupEvent) error             { return nil }
func (n *NoopRecorder) RecentLookups(_ int) ([]LookupEvent, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                  { return nil }
