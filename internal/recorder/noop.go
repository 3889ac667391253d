package recorder

// NoopRecorder is used when SQLite is not configured or fails to open.
// Subscriptions still work for the process lifetime through the in-memory
// registry; they just don't survive restarts.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSignal(_ *SignalRecord) error { return nil }
func (n *NoopRecorder) AddSubscriber(_ int64) error        { return nil }
func (n *NoopRecorder) RemoveSubscriber(_ int64) error     { return nil }
func (n *NoopRecorder) Subscribers() ([]int64, error)      { return nil, nil }
func (n *NoopRecorder) Close() error                       { return nil }
