package progress

import (
	"fmt"
	"io"
	"strings"
)

// TerminalSink renders progress updates as styled lines on a terminal.
type TerminalSink struct {
	Out io.Writer
}

func NewTerminalSink(out io.Writer) *TerminalSink {
	return &TerminalSink{Out: out}
}

func (t *TerminalSink) Send(update *Update) error {
	var err error

	switch update.Kind {
	case KindHeading:
		_, err = fmt.Fprintf(t.Out, "\x1b[1m* %s \033[0m\n", strings.ToUpper(update.Status))
	case KindProgress:
		_, err = fmt.Fprintf(t.Out, "→ %s\n", update.Status)
	case KindSuccess:
		_, err = fmt.Fprintf(t.Out, "\033[32m✔ %s\033[0m\n", update.Status)
	case KindFailure:
		_, err = fmt.Fprintf(t.Out, "\033[31m✖ %s\033[0m\n", update.Status)
	default:
		_, err = fmt.Fprintln(t.Out, update.Status)
	}

	return err
}
