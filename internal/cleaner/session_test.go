package cleaner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"reaper-cleaner/internal/archiver"
	"reaper-cleaner/internal/mediatypes"
	"reaper-cleaner/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// fixture lays out two projects: ProjA uses kick.wav and leaves snare.wav
// unused; ProjB references kick.wav in ProjA by absolute path and leaves
// pad.flac unused.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	kick := filepath.Join(root, "ProjA", "Audio", "kick.wav")
	writeFile(t, filepath.Join(root, "ProjA", "song.rpp"), `FILE "Audio/kick.wav"`)
	writeFile(t, kick, "kick")
	writeFile(t, filepath.Join(root, "ProjA", "Audio", "snare.wav"), "snare!")
	writeFile(t, filepath.Join(root, "ProjB", "Other.rpp"), `FILE "`+kick+`"`+"\n"+`FILE "Audio/pad.flac"`)
	writeFile(t, filepath.Join(root, "ProjB", "Audio", "pad.flac"), "pad")
	writeFile(t, filepath.Join(root, "ProjB", "Audio", "pad-old.flac"), "old pad")
	return root
}

func newSession(t *testing.T, root string, opts Options) *Session {
	t.Helper()
	s, err := NewSession(root, opts)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func candidateNames(s *Session) []string {
	var out []string
	for _, c := range s.Candidates() {
		out = append(out, c.Name)
	}
	return out
}

func TestSession_FullPipeline(t *testing.T) {
	root := fixture(t)
	ctx := context.Background()
	s := newSession(t, root, Options{})

	if err := s.Locate(ctx); err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if n := len(s.Projects()); n != 2 {
		t.Fatalf("located %d projects, want 2", n)
	}

	a, err := s.FindUnused(ctx)
	if err != nil {
		t.Fatalf("FindUnused() error = %v", err)
	}
	if a.Unused != 2 || a.Used != 2 {
		t.Errorf("analysis = %+v, want 2 used, 2 unused", a)
	}
	got := candidateNames(s)
	if len(got) != 2 || got[0] != "snare.wav" || got[1] != "pad-old.flac" {
		t.Fatalf("candidates = %v, want [snare.wav pad-old.flac]", got)
	}

	if err := s.SetCandidateIncluded(filepath.Join(root, "ProjB", "Audio", "pad-old.flac"), false); err != nil {
		t.Fatal(err)
	}

	out, err := s.Archive(ctx)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if out.Succeeded != 1 || out.Failed != 0 {
		t.Fatalf("outcome = %+v", out)
	}
	if _, err := os.Stat(filepath.Join(root, archiver.DefaultDirName, "song", "snare.wav")); err != nil {
		t.Errorf("snare.wav not archived under song/: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "ProjB", "Audio", "pad-old.flac")); err != nil {
		t.Error("deselected candidate must stay in place")
	}

	sum := s.Summary()
	if sum.Archived != 1 || sum.Candidates != 2 || sum.IncludedCandidates != 1 {
		t.Errorf("Summary() = %+v", sum)
	}
	if sum.SessionID == "" || sum.SessionID != s.ID() {
		t.Errorf("SessionID = %q, want %q", sum.SessionID, s.ID())
	}

	if _, err := s.Archive(ctx); !errors.Is(err, models.ErrNothingSelected) {
		t.Errorf("second Archive() error = %v, want ErrNothingSelected", err)
	}
}

func TestSession_ArchivedFilesNotRescanned(t *testing.T) {
	root := fixture(t)
	ctx := context.Background()
	s := newSession(t, root, Options{})

	if _, err := s.FindUnused(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Archive(ctx); err != nil {
		t.Fatal(err)
	}

	s2 := newSession(t, root, Options{})
	a, err := s2.FindUnused(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if a.Unused != 0 {
		t.Errorf("rescan found %d unused, want 0: %v", a.Unused, candidateNames(s2))
	}
}

func TestSession_IndexScope(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A", "a.rpp"), "")
	writeFile(t, filepath.Join(root, "A", "shared.wav"), "x")
	writeFile(t, filepath.Join(root, "B", "b.rpp"), `FILE "`+filepath.Join(root, "A", "shared.wav")+`"`)

	tests := []struct {
		scope IndexScope
		want  int
	}{
		{IndexScopeSelected, 1},
		{IndexScopeAll, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			s := newSession(t, root, Options{IndexScope: tt.scope})
			ctx := context.Background()
			if err := s.Locate(ctx); err != nil {
				t.Fatal(err)
			}
			if err := s.SetProjectIncluded(filepath.Join(root, "B", "b.rpp"), false); err != nil {
				t.Fatal(err)
			}
			a, err := s.FindUnused(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if a.Unused != tt.want {
				t.Errorf("unused = %d, want %d", a.Unused, tt.want)
			}
		})
	}
}

func TestSession_Preconditions(t *testing.T) {
	ctx := context.Background()

	if _, err := NewSession("", Options{}); !errors.Is(err, models.ErrNoRoot) {
		t.Errorf("NewSession(\"\") error = %v, want ErrNoRoot", err)
	}
	if _, err := NewSession(filepath.Join(t.TempDir(), "nope"), Options{}); !models.IsPrecondition(err) {
		t.Errorf("NewSession(missing) error = %v, want precondition", err)
	}

	root := fixture(t)
	s := newSession(t, root, Options{})
	if _, err := s.Archive(ctx); !errors.Is(err, models.ErrNotAnalyzed) {
		t.Errorf("Archive() before analysis error = %v, want ErrNotAnalyzed", err)
	}

	if err := s.Locate(ctx); err != nil {
		t.Fatal(err)
	}
	for _, p := range s.Projects() {
		if err := s.SetProjectIncluded(p.Path, false); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.FindUnused(ctx); !errors.Is(err, models.ErrNothingSelected) {
		t.Errorf("FindUnused() with nothing selected error = %v, want ErrNothingSelected", err)
	}

	if err := s.SetProjectIncluded(filepath.Join(root, "nope.rpp"), true); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("SetProjectIncluded(unknown) error = %v", err)
	}
	if err := s.SetCandidateIncluded(filepath.Join(root, "nope.wav"), true); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("SetCandidateIncluded(unknown) error = %v", err)
	}
}

func TestSession_SelectionChangeDiscardsAnalysis(t *testing.T) {
	root := fixture(t)
	ctx := context.Background()
	s := newSession(t, root, Options{})

	if _, err := s.FindUnused(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.SetProjectIncluded(filepath.Join(root, "ProjB", "Other.rpp"), false); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Archive(ctx); !errors.Is(err, models.ErrNotAnalyzed) {
		t.Errorf("Archive() after selection change error = %v, want ErrNotAnalyzed", err)
	}
}

func TestSession_RootRemoved(t *testing.T) {
	root := fixture(t)
	ctx := context.Background()
	s := newSession(t, root, Options{})
	if err := s.Locate(ctx); err != nil {
		t.Fatal(err)
	}

	if err := os.RemoveAll(root); err != nil {
		t.Fatal(err)
	}
	_, err := s.FindUnused(ctx)
	if err == nil {
		t.Fatal("expected hard failure when the root disappears")
	}
	if models.IsPrecondition(err) {
		t.Errorf("root removal should not be a precondition error: %v", err)
	}
}

func TestSession_Cancelled(t *testing.T) {
	root := fixture(t)
	s := newSession(t, root, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Locate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Locate() error = %v, want context.Canceled", err)
	}
}

func TestSession_Sort(t *testing.T) {
	root := fixture(t)
	ctx := context.Background()
	s := newSession(t, root, Options{})
	if _, err := s.FindUnused(ctx); err != nil {
		t.Fatal(err)
	}

	s.SortCandidates(mediatypes.SortBySize, mediatypes.SortDesc)
	got := candidateNames(s)
	if got[0] != "pad-old.flac" {
		t.Errorf("size desc = %v, want pad-old.flac first", got)
	}

	s.SortCandidates(mediatypes.SortByName, mediatypes.SortAsc)
	got = candidateNames(s)
	if got[0] != "pad-old.flac" || got[1] != "snare.wav" {
		t.Errorf("name asc = %v", got)
	}

	older := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(root, "ProjB", "Other.rpp"), older, older); err != nil {
		t.Fatal(err)
	}
	if err := s.Locate(ctx); err != nil {
		t.Fatal(err)
	}
	s.SortProjects(mediatypes.SortByDate, mediatypes.SortAsc)
	if p := s.Projects(); p[0].Name != "Other.rpp" {
		t.Errorf("date asc first = %s, want Other.rpp", p[0].Name)
	}
}

func TestParseSort(t *testing.T) {
	f, o, err := ParseSort("", "")
	if err != nil || f != mediatypes.SortByName || o != mediatypes.SortAsc {
		t.Errorf("ParseSort defaults = %s, %s, %v", f, o, err)
	}
	if _, _, err := ParseSort("SIZE", "Desc"); err != nil {
		t.Errorf("ParseSort(SIZE, Desc) error = %v", err)
	}
	if _, _, err := ParseSort("colour", ""); !models.IsPrecondition(err) {
		t.Errorf("ParseSort(colour) error = %v, want precondition", err)
	}
}
