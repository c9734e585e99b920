package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hirlower/internal/diag"
	"hirlower/internal/hir"
	"hirlower/internal/lower"
	"hirlower/internal/observ"
	"hirlower/internal/project"
	"hirlower/internal/source"
	"hirlower/internal/trace"
)

// Options configures LowerPack and LowerPacks.
type Options struct {
	MaxDiagnostics int
	// Lower carries the lowering switches; Reporter and Strings are set per
	// pack by the driver.
	Lower lower.Options
	// Dedup drops repeated diagnostics (same code, span and message).
	Dedup       bool
	Dump        bool
	DumpOptions hir.DumpOptions
	// Jobs limits how many packs are lowered at once; 0 means GOMAXPROCS.
	Jobs          int
	Cache         *DiskCache
	PhaseObserver PhaseObserver
}

// Summary counts what one lowering run produced.
type Summary struct {
	Items        int
	TraitItems   int
	ImplItems    int
	ForeignItems int
	Bodies       int
	Macros       int
	Owners       int
	HirIDs       int
}

// Summarize counts the tables of c.
func Summarize(c *hir.Crate) Summary {
	s := Summary{
		Items:        len(c.Items),
		TraitItems:   len(c.TraitItems),
		ImplItems:    len(c.ImplItems),
		ForeignItems: len(c.ForeignItems),
		Bodies:       len(c.Bodies),
		Macros:       len(c.ExportedMacros),
		Owners:       len(c.OwnerCounters),
	}
	for _, n := range c.OwnerCounters {
		s.HirIDs += int(n)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d items, %d trait items, %d impl items, %d foreign items, %d bodies, %d hir ids",
		s.Items, s.TraitItems, s.ImplItems, s.ForeignItems, s.Bodies, s.HirIDs)
}

// Result is the outcome of one pack.
type Result struct {
	Path    string
	Name    string
	Digest  project.Digest
	FileSet *source.FileSet
	Bag     *diag.Bag
	// HIR is nil when the result came from the cache or the run failed.
	HIR     *hir.Crate
	Summary Summary
	Dump    string
	Cached  bool
	// Err is an internal fault; the pack produced no HIR.
	Err    error
	Timing observ.Report
}

// Failed reports whether the pack has errors or an internal fault.
func (r *Result) Failed() bool {
	return r.Err != nil || r.Bag.HasErrors()
}

// LowerPack reads, decodes and lowers the pack at path. I/O and decoding
// problems become diagnostics of the result. The returned error is non-nil
// only when ctx is done.
func LowerPack(ctx context.Context, path string, opts Options) (*Result, error) {
	res := newResult(path, opts)
	timer := observ.NewTimer()
	defer finish(res, timer, opts.PhaseObserver)

	var data []byte
	err := runPhase(timer, opts.PhaseObserver, path, PhaseRead, func() error {
		var readErr error
		// #nosec G304 -- path is provided by the caller
		data, readErr = os.ReadFile(path)
		return readErr
	})
	if err != nil {
		res.Bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  fmt.Sprintf("failed to read %s: %v", path, err),
		})
		return res, nil
	}
	return res, lowerData(ctx, res, timer, data, opts)
}

// LowerData lowers an in-memory pack; name is used for reporting only.
func LowerData(ctx context.Context, name string, data []byte, opts Options) (*Result, error) {
	res := newResult(name, opts)
	timer := observ.NewTimer()
	defer finish(res, timer, opts.PhaseObserver)
	return res, lowerData(ctx, res, timer, data, opts)
}

func finish(res *Result, timer *observ.Timer, obs PhaseObserver) {
	res.Timing = timer.Report()
	status := PhaseEnd
	if res.Failed() {
		status = PhaseFailed
	}
	obs.emit(PhaseEvent{
		Pack:    res.Path,
		Name:    PhasePack,
		Status:  status,
		Elapsed: res.Timing.Total,
		Err:     res.Err,
	})
}

func newResult(path string, opts Options) *Result {
	return &Result{
		Path:    path,
		Name:    strings.TrimSuffix(filepath.Base(path), PackExt),
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
}

func lowerData(ctx context.Context, res *Result, timer *observ.Timer, data []byte, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	span, ctx := trace.Start(trace.WithTrack(ctx, res.Name), trace.ScopeDriver, "pack")
	span.Attr("path", res.Path)
	defer func() {
		span.Attr("cached", strconv.FormatBool(res.Cached)).End("")
	}()

	res.Digest = project.Combine(project.DigestOf(data), optionsDigest(opts))

	var (
		pack *Pack
		fset *source.FileSet
	)
	err := runPhase(timer, opts.PhaseObserver, res.Path, PhaseDecode, func() error {
		var decErr error
		if pack, decErr = DecodePack(data); decErr != nil {
			return decErr
		}
		fset, decErr = pack.FileSet()
		return decErr
	})
	if err != nil {
		res.Bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IODecodePack,
			Message:  fmt.Sprintf("%s: %v", res.Path, err),
		})
		return nil
	}
	if pack.Name != "" {
		res.Name = pack.Name
	}
	res.FileSet = fset

	if lookupCache(timer, opts, res) {
		return nil
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	var reporter diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Dedup {
		reporter = diag.NewDedupReporter(reporter)
	}
	lopts := opts.Lower
	lopts.Reporter = reporter
	lopts.Strings = nil
	lopts.Validate = false

	var out *hir.Crate
	err = runPhase(timer, opts.PhaseObserver, res.Path, PhaseLower, func() error {
		var lowerErr error
		out, lowerErr = lower.Lower(ctx, pack.Crate, pack.Resolver(), lopts)
		return lowerErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		res.Err = err
		res.Bag.Merge(bag)
		return nil
	}
	if opts.Lower.Validate {
		err = runPhase(timer, opts.PhaseObserver, res.Path, PhaseValidate, func() error {
			if verr := hir.Validate(out); verr != nil {
				return &lower.InternalError{Cause: verr}
			}
			return nil
		})
		if err != nil {
			res.Err = err
			res.Bag.Merge(bag)
			return nil
		}
	}

	bag.Sort()
	res.Bag.Merge(bag)
	res.HIR = out
	res.Summary = Summarize(out)
	if opts.Dump {
		err = runPhase(timer, opts.PhaseObserver, res.Path, PhaseDump, func() error {
			var b strings.Builder
			if dumpErr := hir.Dump(&b, out, opts.DumpOptions); dumpErr != nil {
				return dumpErr
			}
			res.Dump = b.String()
			return nil
		})
		if err != nil {
			res.Err = fmt.Errorf("dump: %w", err)
			return nil
		}
	}
	storeCache(timer, opts, res)
	return nil
}

func lookupCache(timer *observ.Timer, opts Options, res *Result) bool {
	if opts.Cache == nil {
		return false
	}
	var payload CachedResult
	var hit bool
	err := runPhase(timer, opts.PhaseObserver, res.Path, PhaseCache, func() error {
		var getErr error
		hit, getErr = opts.Cache.Get(res.Digest, &payload)
		return getErr
	})
	if err != nil || !hit {
		// a broken entry is simply recomputed and overwritten
		return false
	}
	res.Cached = true
	res.Summary = payload.Summary
	res.Dump = payload.Dump
	for _, d := range payload.Diagnostics {
		res.Bag.Add(d)
	}
	return true
}

func storeCache(timer *observ.Timer, opts Options, res *Result) {
	if opts.Cache == nil {
		return
	}
	payload := &CachedResult{
		Name:        res.Name,
		Summary:     res.Summary,
		Dump:        res.Dump,
		Diagnostics: append([]diag.Diagnostic(nil), res.Bag.Items()...),
	}
	if err := runPhase(timer, opts.PhaseObserver, res.Path, PhaseCache, func() error {
		return opts.Cache.Put(res.Digest, payload)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "cache: failed to store %s: %v\n", res.Path, err)
	}
}

// optionsDigest covers every option that changes what a run prints.
func optionsDigest(opts Options) project.Digest {
	key := fmt.Sprintf("schema=%d;abi=%d;validate=%t;dedup=%t;max=%d;dump=%t;bodies=%t;spans=%t",
		cacheSchema, opts.Lower.MissingABI, opts.Lower.Validate, opts.Dedup,
		opts.MaxDiagnostics, opts.Dump, opts.DumpOptions.Bodies, opts.DumpOptions.Spans)
	return project.DigestOf([]byte(key))
}

func runPhase(timer *observ.Timer, obs PhaseObserver, pack, name string, fn func() error) error {
	obs.emit(PhaseEvent{Pack: pack, Name: name, Status: PhaseStart})
	stop := timer.Start(name)
	err := fn()
	elapsed := stop(err)
	status := PhaseEnd
	if err != nil {
		status = PhaseFailed
	}
	obs.emit(PhaseEvent{Pack: pack, Name: name, Status: status, Elapsed: elapsed, Err: err})
	return err
}
