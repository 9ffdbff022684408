// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/reportgen/core"
)

// Generator produces a single report. Both report.Generator and the
// top-level reportgen.Service satisfy it.
type Generator interface {
	Generate(ctx context.Context, req *core.Request) (*core.Report, error)
}

// Result is the outcome of one report in a batch.
type Result struct {
	Type   core.ReportType
	Report *core.Report
	Err    error
}

// Runner runs report generations on a bounded worker pool.
type Runner struct {
	generator Generator
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets the number of concurrent generations.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a batch runner over gen.
func NewRunner(gen Generator, opts ...Option) (*Runner, error) {
	if gen == nil {
		return nil, ErrGeneratorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		generator: gen,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}
	r.logger = r.logger.With("component", "batch-runner")

	return r, nil
}

// Run generates one report per type over the same products and returns
// the results in the order of types. With no types, every supported type
// is generated. Run blocks until all reports finish.
func (r *Runner) Run(ctx context.Context, products []core.Product, types ...core.ReportType) []Result {
	if len(types) == 0 {
		types = core.ReportTypes
	}

	results := make([]Result, len(types))
	var wg sync.WaitGroup

	for i, reportType := range types {
		results[i].Type = reportType.Normalize()
		req := &core.Request{ReportType: results[i].Type, Products: products}

		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Report, results[i].Err = r.generator.Generate(ctx, req)
		})
		if err != nil {
			wg.Done()
			results[i].Err = fmt.Errorf("%w: %w", ErrRunnerReleased, err)
		}
	}

	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			r.logger.Warn("report failed", "type", res.Type, "err", res.Err)
		}
	}
	r.logger.Info("batch complete", "reports", len(results), "failed", failed)

	return results
}

// Release releases the worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
