package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tjrates-service/internal/domain"
	"tjrates-service/internal/scrape"
)

// SourceResult is one source's outcome within a run. Saved counts rows
// actually written; Err is nil on success.
type SourceResult struct {
	Bank  string
	Saved int
	Err   error
	Kind  scrape.Kind
}

// Report summarizes one full scrape pass over all registered sources.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []SourceResult
}

func (r Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Aggregator runs every source once and writes the normalized rates to the
// sink. One source failing, including panicking, never aborts the pass.
type Aggregator struct {
	sources     []scrape.Source
	sink        RateSink
	lock        RunLock
	obs         RunObserver
	log         *zap.Logger
	clock       Clock
	concurrency int
}

type AggregatorOption func(*Aggregator)

func WithRunLock(l RunLock) AggregatorOption       { return func(a *Aggregator) { a.lock = l } }
func WithObserver(o RunObserver) AggregatorOption  { return func(a *Aggregator) { a.obs = o } }
func WithAggregatorClock(c Clock) AggregatorOption { return func(a *Aggregator) { a.clock = c } }

// WithConcurrency bounds how many sources fetch at once. Zero or one keeps
// the run sequential.
func WithConcurrency(n int) AggregatorOption { return func(a *Aggregator) { a.concurrency = n } }

func NewAggregator(sources []scrape.Source, sink RateSink, log *zap.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{sources: sources, sink: sink, log: log}
	for _, opt := range opts {
		opt(a)
	}
	if a.lock == nil {
		a.lock = NoopLock{}
	}
	if a.obs == nil {
		a.obs = noopObserver{}
	}
	if a.clock == nil {
		a.clock = realClock{}
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

// Run executes one pass. Report order follows source registration order
// regardless of concurrency. A held run lock returns ErrRunInProgress.
func (a *Aggregator) Run(ctx context.Context) (Report, error) {
	ok, err := a.lock.TryLock(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return Report{}, ErrRunInProgress
	}
	defer func() { _ = a.lock.Unlock(ctx) }()

	report := Report{
		StartedAt: a.clock.Now(),
		Results:   make([]SourceResult, len(a.sources)),
	}

	workers := a.concurrency
	if workers <= 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, src scrape.Source) {
			defer wg.Done()
			defer func() { <-sem }()
			report.Results[i] = a.runSource(ctx, src)
		}(i, src)
	}
	wg.Wait()

	report.FinishedAt = a.clock.Now()
	for _, res := range report.Results {
		if res.Err != nil {
			a.obs.SourceFailed(res.Bank, res.Kind)
			a.log.Warn("source failed",
				zap.String("bank", res.Bank),
				zap.String("kind", string(res.Kind)),
				zap.Error(res.Err),
			)
			continue
		}
		a.obs.SourceSucceeded(res.Bank, res.Saved)
		a.log.Info("source scraped",
			zap.String("bank", res.Bank),
			zap.Int("saved", res.Saved),
		)
	}
	return report, nil
}

func (a *Aggregator) runSource(ctx context.Context, src scrape.Source) (res SourceResult) {
	bank := src.Bank()
	res.Bank = bank.Name
	defer func() {
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("panic in source %s: %v", bank.Name, rec)
			res.Kind = scrape.KindInternal
			res.Saved = 0
		}
	}()

	raw, err := src.Fetch(ctx)
	if err != nil {
		res.Err = err
		res.Kind = scrape.KindOf(err)
		return res
	}

	for _, rr := range raw {
		nr, err := domain.Normalize(rr.Label, rr.Buy, rr.Sell)
		if err != nil {
			a.log.Debug("rate skipped",
				zap.String("bank", bank.Name),
				zap.String("label", rr.Label),
				zap.Error(err),
			)
			continue
		}
		if _, err := a.sink.SaveObservation(ctx, bank, nr); err != nil {
			res.Err = fmt.Errorf("save %s/%s: %w", bank.Name, nr.Code, err)
			res.Kind = scrape.KindInternal
			return res
		}
		res.Saved++
	}
	if res.Saved == 0 {
		res.Err = scrape.Formatf("%s: no rates survived normalization", bank.Name)
		res.Kind = scrape.KindFormat
	}
	return res
}
