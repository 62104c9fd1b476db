package filesystem

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

// recordingObserver captures observer calls for assertions.
type recordingObserver struct {
	operations []string
	stale      int
	attempts   int
	failures   int
	successes  int
}

func (r *recordingObserver) ObserveOperation(volume, operation string, _ float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.operations = append(r.operations, volume+"/"+operation+"/"+status)
}
func (r *recordingObserver) ObserveRetryAttempt(string, string)            { r.attempts++ }
func (r *recordingObserver) ObserveRetrySuccess(string, string)            { r.successes++ }
func (r *recordingObserver) ObserveRetryFailure(string, string)            { r.failures++ }
func (r *recordingObserver) ObserveRetryDuration(string, string, float64) {}
func (r *recordingObserver) ObserveStaleError(string, string)              { r.stale++ }

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
	if config.VolumeResolver != nil {
		t.Error("VolumeResolver should be nil by default")
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ESTALE error", syscall.ESTALE, true},
		{"wrapped ESTALE", &os.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, true},
		{"ENOENT error", syscall.ENOENT, false},
		{"generic error", os.ErrNotExist, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVolumeResolver_Resolve(t *testing.T) {
	vr := NewVolumeResolver(map[string]string{
		"root":    "/music/projects",
		"archive": "/music/projects/_Reaper_Cleanup_Archive",
	})

	tests := []struct {
		name string
		path string
		want string
	}{
		{"root dir", "/music/projects", "root"},
		{"project file", "/music/projects/Song/song.rpp", "root"},
		{"archive dir", "/music/projects/_Reaper_Cleanup_Archive", "archive"},
		{"archived file", "/music/projects/_Reaper_Cleanup_Archive/Song/kick.wav", "archive"},
		{"sibling with shared prefix", "/music/projects-old/a.wav", "external"},
		{"sample library", "/samples/drums/kick.wav", "external"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vr.Resolve(tt.path); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestVolumeResolver_Resolve_NilResolver(t *testing.T) {
	var vr *VolumeResolver
	if got := vr.Resolve("/music/a.wav"); got != "unknown" {
		t.Errorf("nil resolver Resolve() = %q, want %q", got, "unknown")
	}
}

func TestRetryConfig_ResolveVolume_UsesConfigResolver(t *testing.T) {
	original := defaultResolver
	defer func() { defaultResolver = original }()

	SetDefaultVolumeResolver(NewVolumeResolver(map[string]string{"default": "/music"}))

	config := fastRetryConfig()
	config.VolumeResolver = NewVolumeResolver(map[string]string{"override": "/music"})

	if got := config.resolveVolume("/music/a.wav"); got != "override" {
		t.Errorf("resolveVolume() = %q, want %q", got, "override")
	}

	config.VolumeResolver = nil
	if got := config.resolveVolume("/music/a.wav"); got != "default" {
		t.Errorf("resolveVolume() = %q, want %q", got, "default")
	}
}

func TestStatWithRetry(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "kick.wav")
	if err := os.WriteFile(file, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	info, err := StatWithRetry(file, fastRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry() error = %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("Size() = %d, want 4", info.Size())
	}

	_, err = StatWithRetry(filepath.Join(dir, "missing.wav"), fastRetryConfig())
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestReadFileWithRetry(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "song.rpp")
	content := []byte(`<REAPER_PROJECT 0.1 "7.0"` + "\n>")
	if err := os.WriteFile(file, content, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	got, err := ReadFileWithRetry(file, fastRetryConfig())
	if err != nil {
		t.Fatalf("ReadFileWithRetry() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("ReadFileWithRetry() = %q, want %q", got, content)
	}

	if _, err := ReadFileWithRetry(filepath.Join(dir, "nope.rpp"), fastRetryConfig()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadDirWithRetry(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.wav", "b.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := ReadDirWithRetry(dir, fastRetryConfig())
	if err != nil {
		t.Fatalf("ReadDirWithRetry() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("len(entries) = %d, want 2", len(entries))
	}
}

func TestWithRetry_RetriesOnlyStaleHandles(t *testing.T) {
	obs := &recordingObserver{}
	original := defaultObserver
	SetObserver(obs)
	defer SetObserver(original)

	calls := 0
	err := withRetry("stat", "/x", fastRetryConfig(), func() error {
		calls++
		if calls < 3 {
			return syscall.ESTALE
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if obs.stale != 2 || obs.attempts != 2 || obs.successes != 1 {
		t.Errorf("observer = %+v, want stale=2 attempts=2 successes=1", obs)
	}

	calls = 0
	permErr := errors.New("permission denied")
	err = withRetry("stat", "/x", fastRetryConfig(), func() error {
		calls++
		return permErr
	})
	if !errors.Is(err, permErr) {
		t.Errorf("withRetry() error = %v, want %v", err, permErr)
	}
	if calls != 1 {
		t.Errorf("non-stale error should not retry, calls = %d", calls)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	obs := &recordingObserver{}
	original := defaultObserver
	SetObserver(obs)
	defer SetObserver(original)

	calls := 0
	err := withRetry("read", "/x", fastRetryConfig(), func() error {
		calls++
		return syscall.ESTALE
	})
	if !errors.Is(err, syscall.ESTALE) {
		t.Errorf("withRetry() error = %v, want ESTALE", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want MaxRetries+1 = 3", calls)
	}
	if obs.failures != 1 {
		t.Errorf("failures = %d, want 1", obs.failures)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.wav")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if !Exists(file, fastRetryConfig()) {
		t.Error("Exists() = false for existing file")
	}
	if Exists(filepath.Join(dir, "b.wav"), fastRetryConfig()) {
		t.Error("Exists() = true for missing file")
	}
}
