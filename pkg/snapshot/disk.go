package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DiskStore stores snapshots on the local filesystem. Each snapshot is an
// .html file with a .json metadata file next to it.
type DiskStore struct {
	dir string
}

type diskMeta struct {
	App       string    `json:"app"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDiskStore creates a new DiskStore, creating dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Publish implements Publisher.
func (s *DiskStore) Publish(_ context.Context, snap Snapshot) (string, error) {
	if !validName(snap.Name) {
		return "", ErrInvalidName
	}
	path := s.htmlPath(snap.Name)
	if err := os.WriteFile(path, snap.HTML, 0644); err != nil {
		return "", err
	}

	meta, err := json.Marshal(diskMeta{
		App:       snap.App,
		Size:      len(snap.HTML),
		CreatedAt: snap.CreatedAt,
	})
	if err != nil {
		os.Remove(path)
		return "", err
	}
	if err := os.WriteFile(s.metaPath(snap.Name), meta, 0644); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// Load reads a published snapshot back.
func (s *DiskStore) Load(name string) (Snapshot, error) {
	if !validName(name) {
		return Snapshot{}, ErrInvalidName
	}
	html, err := os.ReadFile(s.htmlPath(name))
	if os.IsNotExist(err) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Name: name, HTML: html}
	if data, err := os.ReadFile(s.metaPath(name)); err == nil {
		var meta diskMeta
		if json.Unmarshal(data, &meta) == nil {
			snap.App = meta.App
			snap.CreatedAt = meta.CreatedAt
		}
	}
	return snap, nil
}

func (s *DiskStore) htmlPath(name string) string {
	return filepath.Join(s.dir, name+".html")
}

func (s *DiskStore) metaPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}
