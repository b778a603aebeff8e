package snapshot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a snapshot doesn't exist.
var ErrNotFound = errors.New("snapshot: not found")

// ErrInvalidName is returned for names that would escape the store.
var ErrInvalidName = errors.New("snapshot: invalid name")

// Publisher stores server-rendered HTML snapshots.
// Implement this interface to use other storage backends.
type Publisher interface {
	// Publish stores html under name and returns where it was written.
	Publish(ctx context.Context, s Snapshot) (location string, err error)
}

// Snapshot is a rendered page.
type Snapshot struct {
	// Name identifies the snapshot. NewSnapshot generates one if empty.
	Name string

	// App is the name of the rendered app.
	App string

	// HTML is the rendered markup.
	HTML []byte

	// CreatedAt is when the snapshot was rendered.
	CreatedAt time.Time
}

// NewSnapshot creates a snapshot of html. An empty name gets a random one.
func NewSnapshot(name, app string, html []byte) Snapshot {
	if name == "" {
		name = app + "-" + uuid.NewString()
	}
	return Snapshot{
		Name:      name,
		App:       app,
		HTML:      html,
		CreatedAt: time.Now().UTC(),
	}
}

// ContentType is the MIME type snapshots are stored with.
const ContentType = "text/html; charset=utf-8"

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
