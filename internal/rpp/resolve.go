package rpp

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"reaper-cleaner/internal/filesystem"
	"reaper-cleaner/internal/logging"
	"reaper-cleaner/internal/metrics"
	"reaper-cleaner/internal/models"
)

// DefaultCacheSize bounds the number of existence checks remembered per session.
const DefaultCacheSize = 4096

// driveLetter matches Windows absolute references such as "C:/Samples".
var driveLetter = regexp.MustCompile(`^[A-Za-z]:/`)

// Resolver turns raw references into ResolvedUsage values. Existence checks
// are memoised because backups and sibling projects repeat the same paths.
// A Resolver is safe for concurrent use and must not outlive one session.
type Resolver struct {
	retry  filesystem.RetryConfig
	exists *lru.Cache[string, bool]
}

// NewResolver creates a Resolver with a bounded existence cache. A size of
// zero or less uses DefaultCacheSize.
func NewResolver(cacheSize int, retry filesystem.RetryConfig) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, bool](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{retry: retry, exists: cache}, nil
}

// NormalizeSeparators converts backslashes to forward slashes.
func NormalizeSeparators(ref string) string {
	return strings.ReplaceAll(ref, `\`, "/")
}

// IsAbsoluteReference reports whether a normalised reference is absolute on
// any platform: a POSIX root, a drive letter or a UNC share.
func IsAbsoluteReference(ref string) bool {
	if strings.HasPrefix(ref, "/") {
		return true
	}
	if driveLetter.MatchString(ref) {
		return true
	}
	return filepath.IsAbs(filepath.FromSlash(ref))
}

// BaseName returns the lower-cased final element of a normalised reference.
func BaseName(ref string) string {
	return strings.ToLower(path.Base(ref))
}

// Canonical returns the comparison key for a path: absolute, cleaned,
// symlinks resolved where possible, and case-folded. The scanner uses the
// same function so both sides of a comparison fold identically.
func Canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return strings.ToLower(abs)
}

// Resolve resolves one raw reference relative to the directory holding its
// project file. A reference whose target exists yields Specific; anything
// else yields Fallback with the bare filename.
func (r *Resolver) Resolve(raw, projectDir string) models.ResolvedUsage {
	ref := NormalizeSeparators(raw)

	var candidate string
	if IsAbsoluteReference(ref) {
		candidate = filepath.FromSlash(ref)
		if !filepath.IsAbs(candidate) {
			// absolute on another platform, e.g. "C:/..." read on Linux
			return r.fallback(raw, ref)
		}
	} else {
		candidate = filepath.Join(projectDir, filepath.FromSlash(ref))
	}

	if r.fileExists(candidate) {
		key := Canonical(candidate)
		logging.Debug("resolved %q -> %s", raw, key)
		return models.Specific(key)
	}

	return r.fallback(raw, ref)
}

func (r *Resolver) fallback(raw, ref string) models.ResolvedUsage {
	name := BaseName(ref)
	logging.Debug("unresolved %q, remembering filename %q", raw, name)
	return models.Fallback(name)
}

func (r *Resolver) fileExists(p string) bool {
	key := filepath.Clean(p)
	if ok, hit := r.exists.Get(key); hit {
		metrics.ResolverCacheHits.Inc()
		return ok
	}
	metrics.ResolverCacheMisses.Inc()

	ok := filesystem.Exists(key, r.retry)
	r.exists.Add(key, ok)
	return ok
}
