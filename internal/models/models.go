package models

import "time"

// ProjectRecord describes one project file found under the scanned root.
type ProjectRecord struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Dir      string    `json:"dir"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"modTime"`
	Backup   bool      `json:"backup,omitempty"`
	Included bool      `json:"included"`
}

// Reference is a raw path string taken from one project file.
type Reference struct {
	Raw     string `json:"raw"`
	Project string `json:"project"`
}

// UsageKind tags a ResolvedUsage.
type UsageKind int

const (
	// UsageSpecific means the referenced file was found on disk.
	UsageSpecific UsageKind = iota
	// UsageFallback means only the bare filename is known.
	UsageFallback
)

func (k UsageKind) String() string {
	switch k {
	case UsageSpecific:
		return "specific"
	case UsageFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// ResolvedUsage is the outcome of resolving one Reference. For
// UsageSpecific, Key is a case-folded canonical absolute path; for
// UsageFallback it is the lower-cased filename.
type ResolvedUsage struct {
	Kind UsageKind `json:"kind"`
	Key  string    `json:"key"`
}

// Specific builds a ResolvedUsage for a file confirmed to exist.
func Specific(canonicalKey string) ResolvedUsage {
	return ResolvedUsage{Kind: UsageSpecific, Key: canonicalKey}
}

// Fallback builds a ResolvedUsage for an unresolvable reference.
func Fallback(lowerName string) ResolvedUsage {
	return ResolvedUsage{Kind: UsageFallback, Key: lowerName}
}

// Classification is the verdict for one media file on disk.
type Classification int

const (
	// ClassUsed means the exact path is referenced.
	ClassUsed Classification = iota
	// ClassPossiblyUsed means an unresolved reference shares the filename.
	ClassPossiblyUsed
	// ClassUnused means nothing references the file.
	ClassUnused
)

func (c Classification) String() string {
	switch c {
	case ClassUsed:
		return "used"
	case ClassPossiblyUsed:
		return "possibly_used"
	case ClassUnused:
		return "unused"
	default:
		return "unknown"
	}
}

// AudioCandidate is an unreferenced media file eligible for archiving.
type AudioCandidate struct {
	Path         string         `json:"path"`
	CanonicalKey string         `json:"-"`
	Name         string         `json:"name"`
	Size         int64          `json:"size"`
	ModTime      time.Time      `json:"modTime"`
	Origin       string         `json:"origin"`
	OriginPath   string         `json:"originPath"`
	Included     bool           `json:"included"`
	State        CandidateState `json:"state"`
	ArchivedTo   string         `json:"archivedTo,omitempty"`
}

// ArchiveFailure records why one candidate could not be relocated.
type ArchiveFailure struct {
	Item   AudioCandidate `json:"item"`
	Reason string         `json:"reason"`
	Err    error          `json:"-"`
}

// ArchiveOutcome summarizes one archive batch.
type ArchiveOutcome struct {
	ArchiveRoot string           `json:"archiveRoot"`
	Succeeded   int              `json:"succeeded"`
	Failed      int              `json:"failed"`
	Failures    []ArchiveFailure `json:"failures,omitempty"`
	Items       []AudioCandidate `json:"items"`
}
