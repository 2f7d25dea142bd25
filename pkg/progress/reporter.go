package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type Kind int

const (
	KindHeading Kind = iota
	KindProgress
	KindSuccess
	KindFailure
)

type Update struct {
	Kind   Kind
	Status string
}

// Sink receives progress updates. Implementations must be safe to call from
// the reporter's goroutine.
type Sink interface {
	Send(update *Update) error
}

type Reporter struct {
	sink         Sink
	progressChan chan *Update
}

func NewReporter(sink Sink) *Reporter {
	return &Reporter{
		sink:         sink,
		progressChan: make(chan *Update),
	}
}

func (p *Reporter) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			// Senders may still be flushing final updates; keep draining
			// until Close so they never block.
			for update := range p.progressChan {
				p.send(update)
			}
			return
		case update, ok := <-p.progressChan:
			if !ok {
				return
			}
			p.send(update)
		}
	}
}

func (p *Reporter) send(update *Update) {
	err := p.sink.Send(update)
	if err != nil {
		slog.Error("failed to send progress update", "update", update.Status, "error", err)
	}
}

func (p *Reporter) Close() {
	close(p.progressChan)
}

func (p *Reporter) Heading(s string) {
	p.progressChan <- &Update{
		Kind:   KindHeading,
		Status: s,
	}
}

func (p *Reporter) Progress(s string, args ...any) {
	p.progressChan <- &Update{
		Kind:   KindProgress,
		Status: fmt.Sprintf(s, args...),
	}
}

func (p *Reporter) BasicProgress(s string) {
	p.Progress("%s", s)
}

func (p *Reporter) Success(s string, args ...any) {
	p.progressChan <- &Update{
		Kind:   KindSuccess,
		Status: fmt.Sprintf(s, args...),
	}
}

func (p *Reporter) Failure(s string, args ...any) {
	p.progressChan <- &Update{
		Kind:   KindFailure,
		Status: fmt.Sprintf(s, args...),
	}
}

type Result struct {
	Success string
	Failure string
}

// Sends a failure progress if err is not nil, else a success progress
func (p *Reporter) Result(err error, result Result) {
	if err != nil {
		p.Failure("%s", result.Failure)
	} else {
		p.Success("%s", result.Success)
	}
}
