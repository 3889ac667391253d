package recorder

import "HypeBot/internal/model"

// SignalRecord holds everything persisted for one emitted setup signal.
// The AI fields are flattened so the recorder stays decoupled from the
// validator; confidence is -1 when no validation ran.
type SignalRecord struct {
	Symbol       string
	Interval     string
	Signal       *model.SetupSignal
	AIConfirmed  bool
	AIConfidence int
	AIComment    string
}

// Recorder persists signal history and the subscriber set.
type Recorder interface {
	RecordSignal(rec *SignalRecord) error
	AddSubscriber(chatID int64) error
	RemoveSubscriber(chatID int64) error
	Subscribers() ([]int64, error)
	Close() error
}
