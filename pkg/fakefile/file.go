// Package fakefile defines the handles returned by file providers.
package fakefile

import (
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

// Data is the metadata attached to every generated file.
type Data struct {
	// Content is the plain text transcript; empty for binary-only formats.
	Content string
	// Filename is the storage token the file was written to.
	Filename string
	// Storage is the adapter that wrote the file and can unlink it.
	Storage storage.Storage

	// ContentModifiers maps modifier kind to step index to the text fragments
	// that step produced.
	ContentModifiers map[string]map[int][]string

	// Files lists the arc-names packed into a container, in packing order.
	Files []string
	// Inner maps arc-name to the handle produced before embedding.
	Inner map[string]*File

	// Extra holds format-specific values (e.g. e-mail subject, recipients).
	Extra map[string]any
}

// File is a generated file persisted on a storage. Its identity is Path.
type File struct {
	Path string
	Data *Data
}

// String returns the path, so a File prints like the path it stands for.
func (f *File) String() string {
	if f == nil {
		return ""
	}
	return f.Path
}

// RawFile is a generated payload that was never written to a storage.
type RawFile struct {
	Content []byte
	Data    *Data
}

// SetExtra 设置扩展元数据
func (d *Data) SetExtra(key string, value any) {
	if d.Extra == nil {
		d.Extra = make(map[string]any)
	}
	d.Extra[key] = value
}
