package usage

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"reaper-cleaner/internal/models"
)

func TestIndex_Classify(t *testing.T) {
	b := NewBuilder()
	mustAdd(t, b, models.Specific("/music/proja/audio/kick.wav"))
	mustAdd(t, b, models.Fallback("missing.wav"))
	ix := b.Seal()

	tests := []struct {
		name string
		key  string
		file string
		want models.Classification
	}{
		{"exact path", "/music/proja/audio/kick.wav", "kick.wav", models.ClassUsed},
		{"exact path wins over fallback", "/music/proja/audio/kick.wav", "missing.wav", models.ClassUsed},
		{"filename match elsewhere", "/music/projb/missing.wav", "missing.wav", models.ClassPossiblyUsed},
		{"filename match ignores case", "/music/projb/MISSING.WAV", "MISSING.WAV", models.ClassPossiblyUsed},
		{"same name as specific, other path", "/music/projb/kick.wav", "kick.wav", models.ClassUnused},
		{"unreferenced", "/music/proja/audio/snare.wav", "snare.wav", models.ClassUnused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ix.Classify(tt.key, tt.file); got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.key, tt.file, got, tt.want)
			}
		})
	}
}

func TestBuilder_SealRejectsAdd(t *testing.T) {
	b := NewBuilder()
	mustAdd(t, b, models.Specific("/a.wav"))
	ix := b.Seal()

	if err := b.Add(models.Specific("/b.wav")); !errors.Is(err, ErrSealed) {
		t.Fatalf("Add after Seal error = %v, want ErrSealed", err)
	}
	if ix.HasSpecific("/b.wav") {
		t.Error("sealed index must not gain entries")
	}
	if s, f := ix.Counts(); s != 1 || f != 0 {
		t.Errorf("Counts() = %d, %d, want 1, 0", s, f)
	}
}

func TestBuilder_UnionOnly(t *testing.T) {
	b := NewBuilder()
	mustAdd(t, b, models.Fallback("a.wav"))
	mustAdd(t, b, models.Fallback("A.WAV"))
	mustAdd(t, b, models.Fallback(""))
	ix := b.Seal()

	if _, f := ix.Counts(); f != 1 {
		t.Errorf("fallback count = %d, want 1", f)
	}
}

func TestBuilder_ConcurrentAdd(t *testing.T) {
	b := NewBuilder()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = b.Add(models.Specific(fmt.Sprintf("/p%d/%d.wav", w, i)))
			}
		}(w)
	}
	wg.Wait()

	if s, _ := b.Seal().Counts(); s != 800 {
		t.Errorf("specific count = %d, want 800", s)
	}
}

func mustAdd(t *testing.T, b *Builder, u models.ResolvedUsage) {
	t.Helper()
	if err := b.Add(u); err != nil {
		t.Fatal(err)
	}
}
