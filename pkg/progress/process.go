package progress

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type ProcessReporter struct {
	*Reporter
	TotalCount        int
	Template          ProcessTemplate
	progressCount     atomic.Int64
	doneContext       context.Context
	cancel            context.CancelFunc
	progressionPeriod time.Duration
	wg                sync.WaitGroup
}

type ProcessReporterOptions struct {
	ReportPeriod time.Duration
	Template     ProcessTemplate
	TotalCount   int
}

type ProcessTemplate struct {
	PresentAction string // Present tense of the action e.g. "flushing"
	PastAction    string // Past tense of the action e.g. "flushed"
	Subject       string // The subject being processed in plural form e.g. "sessions"
}

func (r *Reporter) NewProcess(opts *ProcessReporterOptions) *ProcessReporter {
	period := opts.ReportPeriod
	if period <= 0 {
		period = 5 * time.Second
	}

	return &ProcessReporter{
		TotalCount:        opts.TotalCount,
		Template:          opts.Template,
		Reporter:          r,
		progressionPeriod: period,
	}
}

func (p *ProcessReporter) Start(ctx context.Context) {
	p.doneContext, p.cancel = context.WithCancel(ctx)

	p.Reporter.Progress("%s %s", p.Template.PresentAction, p.Template.Subject)
	ticker := time.NewTicker(p.progressionPeriod)
	p.wg.Add(1)

	go func() {
		defer ticker.Stop()
		defer p.wg.Done()

		for {
			select {
			case <-ticker.C:
				p.sendProgress()
			case <-p.doneContext.Done():
				p.sendProgress() // Send final processed count
				return
			}
		}
	}()
}

func (p *ProcessReporter) Done() {
	p.cancel()
	p.wg.Wait()
}

func (p *ProcessReporter) Increment(delta int) {
	p.progressCount.Add(int64(delta))
}

func (p *ProcessReporter) sendProgress() {
	count := p.progressCount.Load()
	if p.TotalCount > 0 {
		p.Reporter.Progress("%s %d/%d %s", p.Template.PastAction, count, p.TotalCount, p.Template.Subject)
	} else {
		p.Reporter.Progress("%s %d %s", p.Template.PastAction, count, p.Template.Subject)
	}
}
