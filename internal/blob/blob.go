// Package blob abstracts the external object store that holds product
// images. The store hands back a public URL for serving plus an opaque key;
// the key is the only thing needed to delete the object later.
package blob

import (
	"context"
	"io"
)

// Asset identifies a stored object.
type Asset struct {
	// URL is where the object can be fetched from.
	URL string
	// Key is the opaque deletion handle.
	Key string
}

// PutInput describes an object to upload.
type PutInput struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	// Filename is the client-supplied name, used only for its extension.
	Filename string
}

// Storage is the external blob-storage collaborator. Delete semantics are
// at least once: removing an already-absent key is not an error.
type Storage interface {
	Put(ctx context.Context, in PutInput) (*Asset, error)
	Remove(ctx context.Context, key string) error
}
