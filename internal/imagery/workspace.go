package imagery

import (
	"fmt"
	"sort"
	"sync"
)

// Workspace is a thread-safe registry of the images an interactive session is
// working with, keyed by image name. Transformations return new images rather
// than mutating old ones, so the workspace naturally accumulates every
// intermediate result; the caller evicts what it no longer needs.
type Workspace struct {
	mu     sync.RWMutex
	images map[string]*Image
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{images: make(map[string]*Image)}
}

// Load opens an image file, registers it under its base name and returns it.
// A previously registered image with the same name is returned without
// touching the disk again.
func (w *Workspace) Load(path string) (*Image, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if cached, ok := w.images[img.Name]; ok {
		return cached, nil
	}
	w.images[img.Name] = img
	return img, nil
}

// Register adds an image under its name, replacing any previous entry.
func (w *Workspace) Register(img *Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.images[img.Name] = img
}

// Get returns a registered image by name.
func (w *Workspace) Get(name string) (*Image, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	img, ok := w.images[name]
	if !ok {
		return nil, fmt.Errorf("no image named %q in workspace", name)
	}
	return img, nil
}

// Names lists the registered image names in sorted order.
func (w *Workspace) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.images))
	for name := range w.images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evict removes an image from the workspace.
func (w *Workspace) Evict(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.images, name)
}

// Clear removes every image.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.images = make(map[string]*Image)
}
