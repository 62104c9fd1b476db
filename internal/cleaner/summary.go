package cleaner

import "reaper-cleaner/internal/models"

// Summary counts the session's current records.
type Summary struct {
	SessionID          string `json:"sessionId"`
	Projects           int    `json:"projects"`
	IncludedProjects   int    `json:"includedProjects"`
	Candidates         int    `json:"candidates"`
	IncludedCandidates int    `json:"includedCandidates"`
	CandidateBytes     int64  `json:"candidateBytes"`
	IncludedBytes      int64  `json:"includedBytes"`
	Archived           int    `json:"archived"`
	ArchiveFailed      int    `json:"archiveFailed"`
}

// Summary returns counts and byte totals for the session.
func (s *Session) Summary() Summary {
	sum := Summary{SessionID: s.id}
	sum.Projects = len(s.projects)
	for _, p := range s.projects {
		if p.Included {
			sum.IncludedProjects++
		}
	}
	sum.Candidates = len(s.candidates)
	for _, c := range s.candidates {
		sum.CandidateBytes += c.Size
		if c.Included {
			sum.IncludedCandidates++
			sum.IncludedBytes += c.Size
		}
		switch c.State {
		case models.StateArchived:
			sum.Archived++
		case models.StateArchiveFailed:
			sum.ArchiveFailed++
		}
	}
	return sum
}
