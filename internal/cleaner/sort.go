package cleaner

import (
	"sort"
	"strings"

	"reaper-cleaner/internal/mediatypes"
	"reaper-cleaner/internal/models"
)

// SortProjects reorders the session's projects for display. Ties keep
// path order.
func (s *Session) SortProjects(field mediatypes.SortField, order mediatypes.SortOrder) {
	sort.SliceStable(s.projects, func(i, j int) bool {
		a, b := s.projects[i], s.projects[j]
		return less(field, order, a.Name, b.Name, a.Size, b.Size, a.ModTime.UnixNano(), b.ModTime.UnixNano(), a.Path, b.Path)
	})
}

// SortCandidates reorders the session's candidates for display.
func (s *Session) SortCandidates(field mediatypes.SortField, order mediatypes.SortOrder) {
	sort.SliceStable(s.candidates, func(i, j int) bool {
		a, b := s.candidates[i], s.candidates[j]
		return less(field, order, a.Name, b.Name, a.Size, b.Size, a.ModTime.UnixNano(), b.ModTime.UnixNano(), a.Path, b.Path)
	})
}

func less(field mediatypes.SortField, order mediatypes.SortOrder, nameA, nameB string, sizeA, sizeB, timeA, timeB int64, pathA, pathB string) bool {
	var cmp int
	switch field {
	case mediatypes.SortBySize:
		cmp = compareInt(sizeA, sizeB)
	case mediatypes.SortByDate:
		cmp = compareInt(timeA, timeB)
	default:
		cmp = strings.Compare(strings.ToLower(nameA), strings.ToLower(nameB))
	}
	if cmp == 0 {
		// path order is the tie-break in both directions
		return pathA < pathB
	}
	if order == mediatypes.SortDesc {
		return cmp > 0
	}
	return cmp < 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseSort validates sort flags. Empty values default to name ascending.
func ParseSort(field, order string) (mediatypes.SortField, mediatypes.SortOrder, error) {
	f := mediatypes.SortField(strings.ToLower(field))
	switch f {
	case "":
		f = mediatypes.SortByName
	case mediatypes.SortByName, mediatypes.SortBySize, mediatypes.SortByDate:
	default:
		return "", "", &models.PreconditionError{Reason: "unknown sort field " + field}
	}
	o := mediatypes.SortOrder(strings.ToLower(order))
	switch o {
	case "":
		o = mediatypes.SortAsc
	case mediatypes.SortAsc, mediatypes.SortDesc:
	default:
		return "", "", &models.PreconditionError{Reason: "unknown sort order " + order}
	}
	return f, o, nil
}
