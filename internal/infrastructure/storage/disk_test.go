package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskStore_SaveAndDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	locator, size, err := store.Save(context.Background(), "report.PDF", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if size != 5 {
		t.Fatalf("expected size 5, got %d", size)
	}
	if !strings.HasSuffix(locator, ".pdf") {
		t.Fatalf("extension not preserved lowercased: %s", locator)
	}
	if strings.Contains(locator, string(os.PathSeparator)) {
		t.Fatalf("locator must not contain path separators: %s", locator)
	}

	data, err := os.ReadFile(filepath.Join(store.root, locator))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content: %q", data)
	}

	if err := store.Delete(context.Background(), locator); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	// Deleting again is not an error.
	if err := store.Delete(context.Background(), locator); err != nil {
		t.Fatalf("repeat delete must be idempotent: %v", err)
	}
}

func TestDiskStore_UniqueLocators(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	a, _, err := store.Save(context.Background(), "same.txt", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	b, _, err := store.Save(context.Background(), "same.txt", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if a == b {
		t.Fatalf("locators must be unique for identical names")
	}
}

func TestDiskStore_Delete_RejectsEscapingLocators(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, bad := range []string{"", "../evil", "a/b", "/etc/passwd"} {
		if err := store.Delete(context.Background(), bad); err == nil {
			t.Errorf("expected rejection for locator %q", bad)
		}
	}
}

func TestSanitizeExt(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"report.PDF", ".pdf"},
		{"archive.tar", ".tar"},
		{"noext", ""},
		{"weird." + strings.Repeat("x", 20), ""},
	}
	for _, tc := range cases {
		if got := sanitizeExt(tc.name); got != tc.want {
			t.Errorf("sanitizeExt(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
