// Package checksum computes a fixed-length hexadecimal digest of a
// file's bytes, used only to detect content drift during
// validate/execute/undo, never for security decisions.
package checksum

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"

	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// Digest is a computed checksum of a file's content at a point in time.
type Digest struct {
	Path string
	Hex  string
	Size int64
}

// Equal reports whether two digests carry the same hex value. A nil
// receiver or argument is never equal to anything, so comparing
// against a directory's absent digest always reports drift.
func (d *Digest) Equal(other *Digest) bool {
	if d == nil || other == nil {
		return false
	}
	return d.Hex == other.Hex
}

// Compute reads path through fsys and returns its digest. It returns
// (nil, nil) for a directory — there is nothing to checksum — and an
// error if the path cannot be read at all.
func Compute(fsys filesystem.FileSystem, path string) (*Digest, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s for checksum: %w", path, err)
	}

	h := md5.New()
	if _, err := io.Copy(h, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}

	return &Digest{
		Path: path,
		Hex:  fmt.Sprintf("%x", h.Sum(nil)),
		Size: info.Size(),
	}, nil
}
