package file

import (
	"path/filepath"
	"testing"
)

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// Sin token: anónimo.
	if _, ok := s.Load(); ok {
		t.Fatalf("expected no token before save")
	}

	if err := s.Save("tok-abc"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	tok, ok := s.Load()
	if !ok || tok != "tok-abc" {
		t.Fatalf("expected tok-abc, got %q ok=%v", tok, ok)
	}

	// Sobrescribe el anterior.
	if err := s.Save("tok-def"); err != nil {
		t.Fatalf("Save #2 error: %v", err)
	}
	if tok, _ := s.Load(); tok != "tok-def" {
		t.Fatalf("expected tok-def, got %q", tok)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, ok := s.Load(); ok {
		t.Fatalf("expected no token after clear")
	}

	// Clear repetido es idempotente.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear error: %v", err)
	}
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := s.Save("   "); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	s1, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := s1.Save("tok-persist"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Nueva instancia sobre el mismo path: el token sobrevive al proceso.
	s2, err := New(path)
	if err != nil {
		t.Fatalf("New #2 error: %v", err)
	}
	tok, ok := s2.Load()
	if !ok || tok != "tok-persist" {
		t.Fatalf("expected persisted token, got %q ok=%v", tok, ok)
	}
}
