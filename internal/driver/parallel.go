package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"playscript/internal/diag"
	"playscript/internal/observ"
	"playscript/internal/source"
	"playscript/internal/trace"
)

// ProgressStatus is the state of one file in a multi-file check.
type ProgressStatus uint8

const (
	ProgressQueued ProgressStatus = iota
	ProgressWorking
	ProgressDone
	ProgressCached
)

func (s ProgressStatus) String() string {
	switch s {
	case ProgressQueued:
		return "queued"
	case ProgressWorking:
		return "working"
	case ProgressDone:
		return "done"
	case ProgressCached:
		return "cached"
	}
	return "unknown"
}

type ProgressEvent struct {
	Path        string
	Status      ProgressStatus
	Diagnostics int
	HasErrors   bool
}

// ProgressFunc receives progress events. It is called from worker
// goroutines and must be safe for concurrent use.
type ProgressFunc func(ProgressEvent)

type CheckOptions struct {
	Jobs           int // 0 means GOMAXPROCS
	MaxDiagnostics int
	EnableTimings  bool
	Cache          *DiagCache // nil disables caching
	Progress       ProgressFunc
	Observer       PhaseObserver
}

// CheckResult is the outcome of analysing one file.
type CheckResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Cached bool
	Timing *observ.Report
}

// CheckFiles analyses every file independently and in parallel. Files that
// cannot be read get an IO diagnostic instead of failing the whole check.
// Results keep the order of paths.
func CheckFiles(ctx context.Context, paths []string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	fileSet := source.NewFileSet()
	results := make([]CheckResult, len(paths))
	if len(paths) == 0 {
		return fileSet, results, nil
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	span.WithExtra("files", fmt.Sprint(len(paths)))
	defer span.End("")

	// the FileSet is only read once the workers start
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make([]error, len(paths))
	for i, path := range paths {
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
		if loadErrors[i] != nil {
			// an empty stand-in gives the IO diagnostic a file to point at
			fileIDs[i] = fileSet.AddVirtual(path, nil)
		}
		opts.report(ProgressEvent{Path: path, Status: ProgressQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErrors[i] != nil {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileIDs[i]}, "failed to load file: "+loadErrors[i].Error()))
				results[i] = CheckResult{Path: path, FileID: fileIDs[i], Bag: bag}
				opts.report(ProgressEvent{Path: path, Status: ProgressDone, Diagnostics: 1, HasErrors: true})
				return nil
			}
			res, err := checkOne(gctx, fileSet, fileSet.Get(fileIDs[i]), opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			status := ProgressDone
			if res.Cached {
				status = ProgressCached
			}
			opts.report(ProgressEvent{Path: path, Status: status, Diagnostics: res.Bag.Len(), HasErrors: res.Bag.HasErrors()})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func checkOne(ctx context.Context, fs *source.FileSet, file *source.File, opts CheckOptions) (CheckResult, error) {
	out := CheckResult{Path: file.Path, FileID: file.ID}
	key := CacheKey(file)
	if opts.Cache != nil {
		var payload DiagPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			trace.PointIn(ctx, trace.ScopeModule, "cache-error", err.Error())
		}
		if hit {
			out.Bag = diag.NewBag(opts.MaxDiagnostics)
			payload.restore(file.ID, out.Bag)
			out.Cached = true
			trace.PointIn(ctx, trace.ScopeModule, "cache-hit", file.Path)
			return out, nil
		}
	}

	opts.report(ProgressEvent{Path: file.Path, Status: ProgressWorking})
	res, err := compileFile(ctx, fs, file, newTimer(Options{EnableTimings: opts.EnableTimings}), Options{
		MaxDiagnostics: opts.MaxDiagnostics,
		Observer:       opts.Observer,
	})
	if err != nil {
		return out, err
	}
	out.Bag = res.Bag
	if res.Timer != nil {
		report := res.Timer.Report()
		out.Timing = &report
	}
	if opts.Cache != nil {
		if err := opts.Cache.Put(key, payloadFromBag(file, res.Bag)); err != nil {
			trace.PointIn(ctx, trace.ScopeModule, "cache-error", err.Error())
		}
	}
	return out, nil
}

func (o CheckOptions) report(ev ProgressEvent) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}

// MergeBags collects the diagnostics of all results into one sorted bag.
func MergeBags(results []CheckResult) *diag.Bag {
	out := diag.NewBag(0)
	for _, r := range results {
		if r.Bag != nil {
			out.Merge(r.Bag)
		}
	}
	out.Sort()
	return out
}
