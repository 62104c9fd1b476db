package archiver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

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

func candidate(path, origin string) models.AudioCandidate {
	return models.AudioCandidate{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     1,
		Origin:   origin,
		Included: true,
		State:    models.StateDiscovered,
	}
}

func TestArchive_ProjectSubdirectory(t *testing.T) {
	root := t.TempDir()
	snare := filepath.Join(root, "Song A", "Audio", "snare.wav")
	hat := filepath.Join(root, "Song A", "hat.wav")
	writeFile(t, snare, "snare")
	writeFile(t, hat, "hat")

	out := Archive(context.Background(), root, []models.AudioCandidate{
		candidate(snare, "Song A.rpp"),
		candidate(hat, "Song A.rpp-bak"),
	}, Options{})

	if out.Succeeded != 2 || out.Failed != 0 {
		t.Fatalf("Succeeded, Failed = %d, %d, want 2, 0: %+v", out.Succeeded, out.Failed, out.Failures)
	}
	wantDir := filepath.Join(root, DefaultDirName, "Song A")
	for _, name := range []string{"snare.wav", "hat.wav"} {
		if _, err := os.Stat(filepath.Join(wantDir, name)); err != nil {
			t.Errorf("%s not in %s: %v", name, wantDir, err)
		}
	}
	if _, err := os.Stat(snare); !os.IsNotExist(err) {
		t.Error("source should be moved, not copied")
	}
	for _, item := range out.Items {
		if item.State != models.StateArchived {
			t.Errorf("%s state = %s, want archived", item.Name, item.State)
		}
		if filepath.Dir(item.ArchivedTo) != wantDir {
			t.Errorf("%s ArchivedTo = %s", item.Name, item.ArchivedTo)
		}
	}
}

func TestArchive_ReusesExistingDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DefaultDirName, "Song A"), 0o755); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(root, "a.wav")
	writeFile(t, src, "a")

	out := Archive(context.Background(), root, []models.AudioCandidate{candidate(src, "Song A.rpp")}, Options{})
	if out.Succeeded != 1 {
		t.Fatalf("Succeeded = %d, want 1: %+v", out.Succeeded, out.Failures)
	}
}

func TestArchive_FailureDoesNotStopBatch(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.wav")
	c := filepath.Join(root, "c.wav")
	writeFile(t, a, "a")
	writeFile(t, c, "c")
	gone := filepath.Join(root, "b.wav")

	out := Archive(context.Background(), root, []models.AudioCandidate{
		candidate(a, "song.rpp"),
		candidate(gone, "song.rpp"),
		candidate(c, "other.rpp"),
	}, Options{Workers: 2})

	if out.Succeeded != 2 || out.Failed != 1 {
		t.Fatalf("Succeeded, Failed = %d, %d, want 2, 1", out.Succeeded, out.Failed)
	}
	f := out.Failures[0]
	if f.Item.Path != gone {
		t.Errorf("failed item = %s, want %s", f.Item.Path, gone)
	}
	if f.Reason == "" {
		t.Error("failure must carry a reason")
	}
	if !errors.Is(f.Err, models.ErrMove) {
		t.Errorf("failure error %v should match models.ErrMove", f.Err)
	}
	if out.Items[1].State != models.StateArchiveFailed {
		t.Errorf("failed item state = %s", out.Items[1].State)
	}
	if _, err := os.Stat(filepath.Join(root, DefaultDirName, "other", "c.wav")); err != nil {
		t.Errorf("c.wav not archived: %v", err)
	}
}

func TestArchive_Collision(t *testing.T) {
	tests := []struct {
		name       string
		policy     Collision
		wantOK     int
		wantFailed int
		wantFile   string
	}{
		{"rename", CollisionRename, 1, 0, "kick (2).wav"},
		{"fail", CollisionFail, 0, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dest := filepath.Join(root, DefaultDirName, "song")
			writeFile(t, filepath.Join(dest, "kick.wav"), "old")
			writeFile(t, filepath.Join(dest, "kick (1).wav"), "older")
			src := filepath.Join(root, "kick.wav")
			writeFile(t, src, "new")

			out := Archive(context.Background(), root, []models.AudioCandidate{candidate(src, "song.rpp")}, Options{Collision: tt.policy})

			if out.Succeeded != tt.wantOK || out.Failed != tt.wantFailed {
				t.Fatalf("Succeeded, Failed = %d, %d, want %d, %d", out.Succeeded, out.Failed, tt.wantOK, tt.wantFailed)
			}
			if b, _ := os.ReadFile(filepath.Join(dest, "kick.wav")); string(b) != "old" {
				t.Errorf("existing archived file overwritten: %q", b)
			}
			if tt.wantFile != "" {
				if b, _ := os.ReadFile(filepath.Join(dest, tt.wantFile)); string(b) != "new" {
					t.Errorf("%s content = %q, want new", tt.wantFile, b)
				}
			}
			if tt.policy == CollisionFail {
				if !errors.Is(out.Failures[0].Err, ErrDestinationExists) {
					t.Errorf("error = %v, want ErrDestinationExists", out.Failures[0].Err)
				}
				if _, err := os.Stat(src); err != nil {
					t.Error("source must stay in place when the move is refused")
				}
			}
		})
	}
}

func TestArchive_SameNameSameProject(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "take1", "vox.wav")
	b := filepath.Join(root, "take2", "vox.wav")
	writeFile(t, a, "1")
	writeFile(t, b, "2")

	out := Archive(context.Background(), root, []models.AudioCandidate{candidate(a, "song.rpp"), candidate(b, "song.rpp")}, Options{})
	if out.Succeeded != 2 {
		t.Fatalf("Succeeded = %d, want 2: %+v", out.Succeeded, out.Failures)
	}
	if out.Items[1].ArchivedTo != filepath.Join(root, DefaultDirName, "song", "vox (1).wav") {
		t.Errorf("second item ArchivedTo = %s", out.Items[1].ArchivedTo)
	}
}

func TestArchive_ReadOnlyDestination(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	archive := filepath.Join(root, DefaultDirName)
	if err := os.MkdirAll(filepath.Join(archive, "locked"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(filepath.Join(archive, "locked"), 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(filepath.Join(archive, "locked"), 0o755)

	x := filepath.Join(root, "x.wav")
	y := filepath.Join(root, "y.wav")
	writeFile(t, x, "x")
	writeFile(t, y, "y")

	out := Archive(context.Background(), root, []models.AudioCandidate{candidate(x, "locked.rpp"), candidate(y, "open.rpp")}, Options{})
	if out.Succeeded != 1 || out.Failed != 1 {
		t.Fatalf("Succeeded, Failed = %d, %d, want 1, 1", out.Succeeded, out.Failed)
	}
	if out.Failures[0].Item.Path != x {
		t.Errorf("failed item = %s, want %s", out.Failures[0].Item.Path, x)
	}
}

func TestArchive_AlreadyArchived(t *testing.T) {
	root := t.TempDir()
	c := candidate(filepath.Join(root, "a.wav"), "song.rpp")
	c.State = models.StateArchived

	out := Archive(context.Background(), root, []models.AudioCandidate{c}, Options{})
	if out.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", out.Failed)
	}
	if out.Items[0].State != models.StateArchived {
		t.Errorf("archived item must stay archived, got %s", out.Items[0].State)
	}
	if _, err := os.Stat(filepath.Join(root, DefaultDirName)); !os.IsNotExist(err) {
		t.Error("archive root should not be created when nothing is moved")
	}
}

func TestArchive_RetryAfterFailure(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "late.wav")

	first := Archive(context.Background(), root, []models.AudioCandidate{candidate(src, "song.rpp")}, Options{})
	if first.Failed != 1 {
		t.Fatalf("first run Failed = %d, want 1", first.Failed)
	}

	writeFile(t, src, "now here")
	second := Archive(context.Background(), root, first.Items, Options{})
	if second.Succeeded != 1 {
		t.Fatalf("retry Succeeded = %d, want 1: %+v", second.Succeeded, second.Failures)
	}
}

func TestArchive_Cancelled(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.wav")
	writeFile(t, src, "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Archive(ctx, root, []models.AudioCandidate{candidate(src, "song.rpp")}, Options{})
	if out.Failed != 1 || !errors.Is(out.Failures[0].Err, context.Canceled) {
		t.Fatalf("cancelled archive: %+v", out)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("file must not move after cancellation")
	}
}

func TestParseCollision(t *testing.T) {
	tests := []struct {
		in      string
		want    Collision
		wantErr bool
	}{
		{"", CollisionRename, false},
		{"rename", CollisionRename, false},
		{" FAIL ", CollisionFail, false},
		{"overwrite", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCollision(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseCollision(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestDestinationDir(t *testing.T) {
	base := filepath.Join("music", DefaultDirName)
	tests := []struct {
		origin string
		want   string
	}{
		{"Song A.rpp", "Song A"},
		{"Song A.rpp-bak", "Song A"},
		{"v1.2 mix.RPP", "v1.2 mix"},
		{"", unattributed},
	}
	for _, tt := range tests {
		got := DestinationDir(base, models.AudioCandidate{Origin: tt.origin})
		if got != filepath.Join(base, tt.want) {
			t.Errorf("DestinationDir(%q) = %q, want %q", tt.origin, got, filepath.Join(base, tt.want))
		}
	}
}
