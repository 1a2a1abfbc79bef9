package summary

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meetscribe/internal/apperror"
	"github.com/nguyentantai21042004/meetscribe/internal/llm"
	"github.com/nguyentantai21042004/meetscribe/internal/logger"
	"github.com/nguyentantai21042004/meetscribe/internal/resilience"
	"github.com/nguyentantai21042004/meetscribe/internal/telemetry"
)

// ReducerOptions tune the map and reduce stages.
type ReducerOptions struct {
	ChunkModel    string
	FinalModel    string
	MaxConcurrent int
	CallTimeout   time.Duration
	Context       string
	Sample        string
	Retry         resilience.RetryConfig
}

// Reducer summarizes each chunk, then merges the partial summaries with one
// final call.
type Reducer struct {
	model    llm.Model
	opts     ReducerOptions
	recorder *telemetry.Recorder
	logger   logger.Logger
}

// NewReducer creates a Reducer.
func NewReducer(model llm.Model, opts ReducerOptions, rec *telemetry.Recorder, log logger.Logger) *Reducer {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 5 * time.Minute
	}
	if opts.Retry.Logger == nil {
		opts.Retry.Logger = log
	}
	return &Reducer{model: model, opts: opts, recorder: rec, logger: log}
}

// Reduce returns the final summary of chunks. Any failed call fails the run.
func (r *Reducer) Reduce(ctx context.Context, chunks []string) (string, error) {
	partial, err := r.mapChunks(ctx, chunks)
	if err != nil {
		return "", err
	}

	combined := strings.Join(partial, " ")
	r.logger.Info(ctx, "Sending %d chunk summaries for final summarization", len(partial))

	final, err := r.complete(ctx, llm.Request{
		Model:  r.opts.FinalModel,
		System: finalSystem,
		Prompt: finalPrompt(r.opts.Context, r.opts.Sample, combined),
	})
	if err != nil {
		return "", apperror.Wrap(err, apperror.SummarizationCallFailure, "Error while generating final summary.")
	}
	return final, nil
}

// mapChunks summarizes every chunk with bounded concurrency and returns the
// results in chunk order.
func (r *Reducer) mapChunks(ctx context.Context, chunks []string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	results := make([]string, len(chunks))
	slots := make(chan struct{}, r.opts.MaxConcurrent)

	for i, chunk := range chunks {
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			once.Do(func() { firstErr = err })
			break
		}

		wg.Add(1)
		go func(i int, chunk string) {
			defer wg.Done()
			defer func() { <-slots }()

			r.logger.Debug(ctx, "Summarizing chunk %d/%d", i+1, len(chunks))
			out, err := r.complete(ctx, llm.Request{
				Model:  r.opts.ChunkModel,
				System: chunkSystem,
				Prompt: chunkPrompt(chunk),
			})
			if err != nil {
				once.Do(func() {
					firstErr = apperror.Wrap(err, apperror.SummarizationCallFailure, "Error while generating summary.").
						WithMetadata("chunk", strconv.Itoa(i))
					cancel()
				})
				return
			}
			results[i] = out
		}(i, chunk)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (r *Reducer) complete(ctx context.Context, req llm.Request) (string, error) {
	var out string
	err := resilience.Retry(ctx, r.opts.Retry, func(int) error {
		callCtx, cancel := context.WithTimeout(ctx, r.opts.CallTimeout)
		defer cancel()

		start := time.Now()
		text, err := r.model.Complete(callCtx, req)
		r.recorder.ObserveCall("llm", time.Since(start), err)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	return out, err
}
