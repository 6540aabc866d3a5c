// Package theseus wires the four components described by the engine's
// design (Object/Diff Provider, Blame State, History Walker, Cohort
// Aggregator) into the single entry point the CLI drives.
package theseus

import (
	"path/filepath"

	"github.com/amedeedaboville/gix-of-theseus/internal/cohort"
	"github.com/amedeedaboville/gix-of-theseus/internal/engineerr"
	"github.com/amedeedaboville/gix-of-theseus/internal/objectprovider"
	"github.com/amedeedaboville/gix-of-theseus/internal/walker"
)

// Config assembles the knobs the CLI exposes into the engine's input, the
// same shape hercules's ConfigurationOption records feed into
// PipelineItem.Configure(), simplified to one pipeline instead of a plugin
// registry.
type Config struct {
	// RepoPath is a local working directory containing a git object
	// database.
	RepoPath string
	// Head is the revision to walk ancestors from; empty means the
	// repository's current HEAD.
	Head string
	// Include and Exclude are shell path globs (filepath.Match syntax).
	// A path is kept when it matches no Exclude glob and, if Include is
	// non-empty, matches at least one Include glob.
	Include []string
	Exclude []string
	// Workers sizes the per-file fan-out pool; 0 means runtime.NumCPU().
	Workers int
	// Debug enables the FileBlame.Validate() invariant checks after every
	// derive.
	Debug bool
	// Cancel, if non-nil, lets the caller abort the run cooperatively.
	Cancel <-chan struct{}
	// OnProgress, if non-nil, is called once per processed commit with
	// its index and the total commit count, mirroring hercules's
	// Pipeline.OnProgress hook.
	OnProgress func(processed, total int)
	// Dense, if true, expands the output to one row per calendar week
	// between the first and last sample via walker.Densify, instead of
	// the sparse, commit-triggered sample list spec.md §8 describes.
	Dense bool
}

// Run executes the full engine over cfg and returns the resulting table,
// ready for cohort.WriteFile.
func Run(cfg Config) (*cohort.Table, error) {
	if cfg.RepoPath == "" {
		return nil, engineerr.NewConfigError("repository path is required")
	}
	provider, err := objectprovider.NewGitProvider(cfg.RepoPath)
	if err != nil {
		return nil, engineerr.NewConfigError("opening " + cfg.RepoPath + ": " + err.Error())
	}

	predicate, err := buildPredicate(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	w := walker.New(provider, walker.Options{
		Predicate:      predicate,
		WorkerPoolSize: cfg.Workers,
		Debug:          cfg.Debug,
		Cancel:         cfg.Cancel,
		OnProgress:     cfg.OnProgress,
	})
	defer w.Close()

	samples, err := w.Run(cfg.Head)
	if err != nil {
		return nil, err
	}
	if cfg.Dense {
		samples = walker.Densify(samples)
	}
	return cohort.Build(samples), nil
}

// buildPredicate compiles include/exclude globs into a single
// objectprovider.Predicate. An unparsable glob is a configuration error,
// not a runtime one, so it is validated eagerly.
func buildPredicate(include, exclude []string) (objectprovider.Predicate, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return objectprovider.AcceptAll, nil
	}
	for _, pat := range append(append([]string{}, include...), exclude...) {
		if _, err := filepath.Match(pat, "probe"); err != nil {
			return nil, engineerr.NewConfigError("invalid glob " + pat + ": " + err.Error())
		}
	}
	return func(path string) bool {
		for _, pat := range exclude {
			if globMatch(pat, path) {
				return false
			}
		}
		if len(include) == 0 {
			return true
		}
		for _, pat := range include {
			if globMatch(pat, path) {
				return true
			}
		}
		return false
	}, nil
}

// globMatch tries pat against the full path and against the path's base
// name, so both full-path globs such as "internal/*/file.go" and base-name
// globs such as "*.go" match. filepath.Match has no recursive "**": every
// "*" matches within a single path segment.
func globMatch(pat, path string) bool {
	if ok, _ := filepath.Match(pat, path); ok {
		return true
	}
	ok, _ := filepath.Match(pat, filepath.Base(path))
	return ok
}
