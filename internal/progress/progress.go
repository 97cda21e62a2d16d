package progress

// Stage identifies one step of the pipeline.
type Stage string

const (
	StageMetadata   Stage = "metadata"
	StageDownload   Stage = "download"
	StageTranscribe Stage = "transcribe"
	StageSummarize  Stage = "summarize"
	StagePublish    Stage = "publish"
	StageSave       Stage = "save"
)

// Event is a best-effort notification about pipeline advancement.
// Percent is nil when the stage cannot measure completion.
type Event struct {
	Stage   Stage    `json:"stage"`
	Message string   `json:"message"`
	Percent *float64 `json:"percent,omitempty"`
}

// Pct returns a pointer to p for use in Event.Percent.
func Pct(p float64) *float64 {
	return &p
}

// Sink receives progress events. Emit must never block the caller.
type Sink interface {
	Emit(ev Event)
}

// FuncSink adapts a function to Sink.
type FuncSink func(ev Event)

func (f FuncSink) Emit(ev Event) {
	f(ev)
}

type discard struct{}

func (discard) Emit(Event) {}

// Discard drops every event.
var Discard Sink = discard{}

// ChanSink forwards events to a buffered channel, dropping events when the
// buffer is full.
type ChanSink struct {
	ch chan Event
}

// NewChanSink creates a ChanSink with the given buffer size.
func NewChanSink(buffer int) *ChanSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChanSink{ch: make(chan Event, buffer)}
}

func (s *ChanSink) Emit(ev Event) {
	select {
	case s.ch <- ev:
	default:
	}
}

// Events returns the receive side of the sink.
func (s *ChanSink) Events() <-chan Event {
	return s.ch
}

// Close closes the channel. Emit must not be called afterwards.
func (s *ChanSink) Close() {
	close(s.ch)
}
