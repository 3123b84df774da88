package imagery

import (
	"path/filepath"
	"testing"
)

func TestWorkspace_RegisterGet(t *testing.T) {
	w := NewWorkspace()
	img := NewDiscImage()
	w.Register(img)

	got, err := w.Get(img.Name)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != img {
		t.Error("Get should return the registered instance")
	}

	if _, err := w.Get("missing"); err == nil {
		t.Error("Expected error for unknown name")
	}
}

func TestWorkspace_RegisterReplaces(t *testing.T) {
	w := NewWorkspace()
	first := NewDiscImage()
	second := NewDiscImage()
	second.Channels[0][0][0] = 42

	w.Register(first)
	w.Register(second)

	got, err := w.Get(first.Name)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != second {
		t.Error("Register should replace a previous entry with the same name")
	}
}

func TestWorkspace_Names(t *testing.T) {
	w := NewWorkspace()
	square := NewSquareImage()
	disc := NewDiscImage()
	w.Register(square)
	w.Register(disc)

	names := w.Names()
	if len(names) != 2 {
		t.Fatalf("Expected 2 names, got %v", names)
	}
	// Sorted order.
	if names[0] != DiscImageName || names[1] != SquareImageName {
		t.Errorf("Names: got %v", names)
	}
}

func TestWorkspace_EvictClear(t *testing.T) {
	w := NewWorkspace()
	w.Register(NewDiscImage())
	w.Register(NewSquareImage())

	w.Evict(DiscImageName)
	if _, err := w.Get(DiscImageName); err == nil {
		t.Error("Evicted image should be gone")
	}
	if _, err := w.Get(SquareImageName); err != nil {
		t.Errorf("Other image should survive: %v", err)
	}

	w.Clear()
	if len(w.Names()) != 0 {
		t.Errorf("Clear should empty the workspace, got %v", w.Names())
	}
}

func TestWorkspace_LoadCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cached.png")
	if err := Save(NewDiscImage(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	w := NewWorkspace()
	first, err := w.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := w.Load(path)
	if err != nil {
		t.Fatalf("Second load: %v", err)
	}
	if first != second {
		t.Error("Load should return the cached instance for a known name")
	}
}
