// Package template implements the template resolver (spec.md 4.1): given a
// bare template filename, it returns the path to use (joined onto the
// configured directory, so relative if that directory is), searching a
// local override directory before the system template directory.
package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scottpeterman/wirlwind/pkg/lrucache"
)

// neverExpire is used as the lrucache TTL for resolved templates: per
// spec.md 5 the template file cache is read-only after first resolution,
// so entries are cached for the lifetime of the process.
const neverExpire = 365 * 24 * time.Hour

// Tier identifies which search location satisfied a resolution.
type Tier string

const (
	TierLocal  Tier = "local"
	TierSystem Tier = "system"
)

// NotFoundError is returned when neither the local nor the system directory
// has the named template. It carries both searched paths so operators can
// see exactly what was tried.
type NotFoundError struct {
	Name       string
	LocalPath  string
	SystemPath string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found (searched local=%s, system=%s)", e.Name, e.LocalPath, e.SystemPath)
}

// Resolver resolves template filenames for a single engine (e.g.
// "textfsm" or "ttp") to concrete paths on disk. Resolution results are
// memoized: the template file cache is read-only after first resolution
// per spec.md 5, reloads require a process restart.
type Resolver struct {
	localDir  string
	systemDir string

	cache *lrucache.Cache[string, resolved]
}

type resolved struct {
	path string
	tier Tier
	err  error
}

// New creates a resolver for one engine. localDir is typically
// "templates/<engine>" under the process working root; systemDir is the
// installed system template package directory for that engine (may be "",
// in which case only the local override directory is ever searched).
func New(localDir, systemDir string) *Resolver {
	return &Resolver{
		localDir:  localDir,
		systemDir: systemDir,
		cache:     lrucache.New[string, resolved](),
	}
}

// Resolve returns the concrete path for name and which tier satisfied the
// lookup. A *NotFoundError is returned (use errors.As) if neither tier has
// the file.
func (r *Resolver) Resolve(name string) (path string, tier Tier, err error) {
	res := r.cache.Get(name, func() (resolved, time.Duration) {
		localPath := filepath.Join(r.localDir, name)
		if fileExists(localPath) {
			return resolved{path: localPath, tier: TierLocal}, neverExpire
		}

		var systemPath string
		if r.systemDir != "" {
			systemPath = filepath.Join(r.systemDir, name)
			if fileExists(systemPath) {
				return resolved{path: systemPath, tier: TierSystem}, neverExpire
			}
		}

		// Cache the miss too, with a zero TTL: Get re-calls compute on
		// the very next lookup for an expired entry, so a repeated
		// failed resolution still only stats the filesystem once per
		// call rather than being "permanently" cached as a miss.
		return resolved{err: &NotFoundError{Name: name, LocalPath: localPath, SystemPath: systemPath}}, 0
	})

	if res.err != nil {
		return "", "", res.err
	}
	return res.path, res.tier, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// EngineName returns the engine this resolver serves, inferred from the
// local override directory's base name (the "templates/<engine>"
// convention from spec.md 6).
func (r *Resolver) EngineName() string {
	return filepath.Base(r.localDir)
}

// IsNotFound reports whether err is a template resolution failure.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
