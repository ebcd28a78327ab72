package session

// FeedbackSink receives user-visible signals. It holds no logic.
// An empty message clears that kind of message.
type FeedbackSink interface {
	SetError(msg string)
	SetInfo(msg string)
	Clear()
}

// Feedback keeps at most one error and one info message.
// A new signal overwrites the previous one of the same kind.
type Feedback struct {
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	Info  string `json:"info,omitempty" yaml:"info,omitempty"`
}

func (f *Feedback) SetError(msg string) { f.Error = msg }

func (f *Feedback) SetInfo(msg string) { f.Info = msg }

// Clear drops both messages.
func (f *Feedback) Clear() {
	f.Error = ""
	f.Info = ""
}

var _ FeedbackSink = (*Feedback)(nil)

// FeedbackFunc adapts a single function to FeedbackSink.
// The kind is "error", "info" or "clear"; msg is empty for "clear".
type FeedbackFunc func(kind, msg string)

func (fn FeedbackFunc) SetError(msg string) { fn("error", msg) }

func (fn FeedbackFunc) SetInfo(msg string) { fn("info", msg) }

func (fn FeedbackFunc) Clear() { fn("clear", "") }
