package metronome

// LogChannelWriter is an io.Writer that forwards each log record to a
// channel, so the same *log.Logger can feed both the rotating log file and
// the UI log pane. Writes never block: if the channel is full the record is
// dropped from the pane (it still reaches the file via the MultiWriter).
type LogChannelWriter struct {
	ch chan<- string
}

// NewLogChannelWriter creates a writer forwarding to ch.
func NewLogChannelWriter(ch chan<- string) *LogChannelWriter {
	if ch == nil {
		panic("LogChannelWriter: channel cannot be nil")
	}
	return &LogChannelWriter{ch: ch}
}

func (w *LogChannelWriter) Write(p []byte) (int, error) {
	select {
	case w.ch <- string(p):
	default:
	}
	return len(p), nil
}
