package uploads

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndServe(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	stored, err := store.Save("mug.png", strings.NewReader("fake png bytes"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if !strings.HasSuffix(stored, "-mug.png") {
		t.Errorf("stored name = %q, want uuid prefix before -mug.png", stored)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), stored))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("stored content = %q", data)
	}

	// Serve it back
	req := httptest.NewRequest(http.MethodGet, "/"+stored, nil)
	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("serving stored file: status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "fake png bytes" {
		t.Errorf("served content = %q", rec.Body.String())
	}
}

func TestSave_UniqueNames(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	first, err := store.Save("mug.png", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	second, err := store.Save("mug.png", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if first == second {
		t.Error("repeated uploads of the same filename should not collide")
	}
}

func TestSave_RejectsBadFilenames(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	tests := []struct {
		name     string
		filename string
	}{
		{"executable", "malware.exe"},
		{"no extension", "README"},
		{"empty", ""},
		{"double extension trick", "photo.png.sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Save(tt.filename, strings.NewReader("x")); err == nil {
				t.Errorf("Save(%q) should have failed", tt.filename)
			}
		})
	}
}

func TestSave_StripsPathComponents(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	stored, err := store.Save("../../etc/passwd.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if strings.Contains(stored, "/") || strings.Contains(stored, "..") {
		t.Errorf("stored name %q contains path components", stored)
	}
	if !strings.HasSuffix(stored, "-passwd.png") {
		t.Errorf("stored name = %q, want base name only", stored)
	}
}

func TestRemove(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	stored, err := store.Save("mug.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := store.Remove(stored); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), stored)); !os.IsNotExist(err) {
		t.Error("file should be gone after Remove()")
	}

	if err := store.Remove("../" + stored); err == nil {
		t.Error("Remove() should reject names with path components")
	}
}

func TestHandler_NoDirectoryListing(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("directory listing: status = %d, want 404", rec.Code)
	}
}
