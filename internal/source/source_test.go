package source

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFSSourceLookup(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "rock"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.mp3", "b.mp3"} {
		if err := os.WriteFile(filepath.Join(root, "rock", name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	src := NewFSSource(root)
	got, err := src.Lookup(t.Context(), []string{"rock"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Lookup() = %v, want 2 entries", got)
	}
}

func TestFSSourceLookupMissingDir(t *testing.T) {
	src := NewFSSource(t.TempDir())
	if _, err := src.Lookup(t.Context(), []string{"nope"}); err == nil {
		t.Fatal("Lookup() over a missing directory: want error, got nil")
	}
}

func TestShellSourceLookup(t *testing.T) {
	src := NewShellSource("printf", "one\ntwo\n\nthree")
	got, err := src.Lookup(t.Context(), nil)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup() = %v, want %v", got, want)
	}
}

func TestMultiSourceConcatenatesInOrder(t *testing.T) {
	a := NewShellSource("printf", "a1\na2")
	b := NewShellSource("printf", "b1")

	src := NewMultiSource(a, b)
	got, err := src.Lookup(t.Context(), nil)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	want := []string{"a1", "a2", "b1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup() = %v, want %v", got, want)
	}
}

func TestMultiSourceWrapsSourceError(t *testing.T) {
	bad := NewShellSource("/no/such/binary")
	src := NewMultiSource(bad)
	if _, err := src.Lookup(t.Context(), nil); err == nil {
		t.Fatal("Lookup() with a failing source: want error, got nil")
	}
}
