package driver

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/IAIK/rebecca/internal/graph"
	"github.com/IAIK/rebecca/internal/label"
	"github.com/IAIK/rebecca/internal/progress"
	"github.com/IAIK/rebecca/internal/report"
	"github.com/IAIK/rebecca/internal/solver"
)

// ProbingJob describes one probing check to run against one labeled copy of
// a circuit graph. DumpSMTPath and DumpModelPath, when non-empty, tell the
// dispatcher to persist the assembled query and (if SAT) its satisfying
// model to those paths once the check completes.
type ProbingJob struct {
	Label         string
	Graph         *graph.Graph
	Mode          solver.Mode
	Order         int
	Budget        time.Duration
	DumpSMTPath   string
	DumpModelPath string
}

// IndependenceJob describes one independence check to run against a
// circuit's unlabeled graph plus its share/secret/mask entries.
type IndependenceJob struct {
	Label         string
	Graph         *graph.Graph
	Entries       []label.Entry
	Order         int
	Budget        time.Duration
	DumpSMTPath   string
	DumpModelPath string
}

// dumpVerdict writes a verdict's assembled query and, when SAT, its model
// to the requested paths. Write failures are logged, not fatal: a dump is
// a debugging aid, not part of the verdict itself.
func dumpVerdict(jobLabel, smtPath, modelPath string, v solver.Verdict) {
	if v.CNF == nil {
		return
	}
	if smtPath != "" {
		content := v.CNF.Dimacs() + "\n" + v.CNF.SExpr()
		if err := os.WriteFile(smtPath, []byte(content), 0644); err != nil {
			slog.Warn("failed to write smt dump", slog.String("labeling", jobLabel), slog.String("error", err.Error()))
		}
	}
	if modelPath != "" && v.Model.SAT {
		if err := os.WriteFile(modelPath, []byte(v.CNF.Model(v.Model)), 0644); err != nil {
			slog.Warn("failed to write model dump", slog.String("labeling", jobLabel), slog.String("error", err.Error()))
		}
	}
}

func modeName(m solver.Mode) string {
	if m == solver.ModeStable {
		return "stable"
	}
	return "transient"
}

// RunProbing dispatches jobs across a worker pool bounded by poolSize,
// collecting one report.Result per job. It stops launching new jobs as soon
// as any completed job comes back insecure, mirroring the original tool's
// first-counter-example short circuit, but still waits for jobs already in
// flight and returns their results too; with poolSize > 1, which jobs were
// already launched at that point depends on completion order. statusFunc, if
// non-nil, receives a progress update per job (e.g. to drive a spinner).
func RunProbing(netlist string, jobs []ProbingJob, poolSize int, statusFunc progress.MultiSpinnerUpdateFunc) ([]report.Result, error) {
	run := func(ctx context.Context, j ProbingJob) (report.Result, error) {
		start := time.Now()
		verdict, err := solver.CheckProbing(j.Graph, j.Mode, j.Order, j.Budget)
		elapsed := time.Since(start)
		if err != nil {
			slog.Warn("probing check failed, reporting insecure", slog.String("labeling", j.Label), slog.String("error", err.Error()))
			return report.Result{
				Netlist:  netlist,
				Labeling: j.Label,
				Kind:     report.KindProbing,
				Mode:     modeName(j.Mode),
				Order:    j.Order,
				Secure:   false,
				Elapsed:  elapsed,
			}, nil
		}
		recordMetrics("probing", verdict.Secure, elapsed)
		dumpVerdict(j.Label, j.DumpSMTPath, j.DumpModelPath, verdict)
		return report.Result{
			Netlist:  netlist,
			Labeling: j.Label,
			Kind:     report.KindProbing,
			Mode:     modeName(j.Mode),
			Order:    j.Order,
			Secure:   verdict.Secure,
			Witness:  verdict.Witness,
			Elapsed:  elapsed,
		}, nil
	}
	return dispatch(jobs, poolSize, statusFunc, func(j ProbingJob) string { return j.Label }, run)
}

// RunIndependence is RunProbing's counterpart for independence checks.
func RunIndependence(netlist string, jobs []IndependenceJob, poolSize int, statusFunc progress.MultiSpinnerUpdateFunc) ([]report.Result, error) {
	run := func(ctx context.Context, j IndependenceJob) (report.Result, error) {
		start := time.Now()
		verdict, err := solver.CheckIndependence(j.Graph, j.Entries, j.Order, j.Budget)
		elapsed := time.Since(start)
		if err != nil {
			slog.Warn("independence check failed, reporting insecure", slog.String("labeling", j.Label), slog.String("error", err.Error()))
			return report.Result{
				Netlist:  netlist,
				Labeling: j.Label,
				Kind:     report.KindIndependence,
				Mode:     "transient",
				Order:    j.Order,
				Secure:   false,
				Elapsed:  elapsed,
			}, nil
		}
		recordMetrics("independence", verdict.Secure, elapsed)
		dumpVerdict(j.Label, j.DumpSMTPath, j.DumpModelPath, verdict)
		return report.Result{
			Netlist:  netlist,
			Labeling: j.Label,
			Kind:     report.KindIndependence,
			Mode:     "transient",
			Order:    j.Order,
			Secure:   verdict.Secure,
			Witness:  verdict.Witness,
			Elapsed:  elapsed,
		}, nil
	}
	return dispatch(jobs, poolSize, statusFunc, func(j IndependenceJob) string { return j.Label }, run)
}

func recordMetrics(kind string, secure bool, elapsed time.Duration) {
	checksTotal.WithLabelValues(kind, fmt.Sprintf("%t", secure)).Inc()
	checkDurationSeconds.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// dispatch runs runOne over jobs with at most poolSize goroutines active at
// once, cancelling the shared context (which runOne implementations are
// free to ignore, since a solver call can't be interrupted mid-search) once
// the first insecure verdict is observed. A runOne error never aborts the
// batch: it is logged and folded into an insecure, empty-witness result for
// that job, consistent with how a solver timeout is already reported.
func dispatch[J any](jobs []J, poolSize int, statusFunc progress.MultiSpinnerUpdateFunc, labelOf func(J) string, runOne func(context.Context, J) (report.Result, error)) ([]report.Result, error) {
	if poolSize <= 0 {
		poolSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make([]report.Result, len(jobs))
	sem := make(chan struct{}, poolSize)
	var wg sync.WaitGroup
	var foundInsecure sync.Once
	var mu sync.Mutex
	var firstInsecure bool

	for i, j := range jobs {
		sem <- struct{}{}
		mu.Lock()
		stop := firstInsecure
		mu.Unlock()
		if stop {
			<-sem
			break
		}
		wg.Add(1)
		go func(i int, j J) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := runOne(ctx, j)
			if err != nil {
				slog.Warn("check worker failed, reporting insecure", slog.String("labeling", labelOf(j)), slog.String("error", err.Error()))
				res = report.Result{Labeling: labelOf(j), Secure: false}
			}
			results[i] = res
			if !res.Secure {
				mu.Lock()
				firstInsecure = true
				mu.Unlock()
				foundInsecure.Do(cancel)
			}
			if statusFunc != nil {
				status := "secure"
				if err != nil {
					status = fmt.Sprintf("error: %v", err)
				} else if !res.Secure {
					status = "insecure"
				}
				if statusErr := statusFunc(labelOf(j), status); statusErr != nil {
					slog.Debug("status update failed", slog.String("error", statusErr.Error()))
				}
			}
		}(i, j)
	}
	wg.Wait()

	out := make([]report.Result, 0, len(jobs))
	for i := range jobs {
		if results[i].Labeling != "" {
			out = append(out, results[i])
		}
	}
	return out, nil
}
