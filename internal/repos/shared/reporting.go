package shared

import (
	"fmt"
	"io"
	"sync"
)

// Reporter emits user-facing progress lines to an underlying sink.
type Reporter interface {
	Printf(format string, args ...any)
}

type writerReporter struct {
	mutex  *sync.Mutex
	writer io.Writer
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer.
// A nil writer discards every line.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = io.Discard
	}
	return writerReporter{mutex: &sync.Mutex{}, writer: writer}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	fmt.Fprintf(reporter.writer, format, args...)
}
