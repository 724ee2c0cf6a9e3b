// Package permission offers a simplified read/write/mode view over a
// path, expressed purely in terms of the portable bits Go's own
// fs.FileMode already exposes so the same code runs unmodified on
// POSIX and non-POSIX hosts. No third-party library offers a richer
// cross-platform permission abstraction than the standard library's
// os.FileMode already does, so this component stays on the standard
// library (see DESIGN.md).
package permission

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// Probe reports and manipulates a simplified permission view of paths
// on fsys.
type Probe struct {
	fsys filesystem.FileSystem
}

// New returns a Probe over fsys.
func New(fsys filesystem.FileSystem) *Probe {
	return &Probe{fsys: fsys}
}

// IsReadable reports whether the current process can read path. This
// is advisory, not a security decision: it consults the owner-read bit
// of the reported mode, which on POSIX hosts is the bit that matters
// for the common case of code running as the file's owner, and which
// Go's os package already approximates sensibly on non-POSIX hosts.
func (p *Probe) IsReadable(path string) bool {
	info, err := p.fsys.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o400 != 0
}

// IsWritable reports whether the current process can write path,
// under the same advisory terms as IsReadable.
func (p *Probe) IsWritable(path string) bool {
	info, err := p.fsys.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0o200 != 0
}

// GetMode returns path's permission triplet as three octal digits,
// e.g. "755". On hosts without real POSIX mode bits this collapses to
// "444" (read-only) or "666" (writable).
func (p *Probe) GetMode(path string) (string, error) {
	info, err := p.fsys.Stat(path)
	if err != nil {
		return "", fmt.Errorf("get mode %s: %w", path, err)
	}
	return formatMode(info.Mode())
}

// SetMode applies a permission triplet (e.g. "755") to path, handing
// the parsed bits to the filesystem's Chmod unchanged. It does not
// translate the mode for hosts without real POSIX semantics.
func (p *Probe) SetMode(path string, mode string) error {
	perm, err := parseMode(mode)
	if err != nil {
		return fmt.Errorf("set mode %s on %s: %w", mode, path, err)
	}
	return p.fsys.Chmod(path, perm)
}

func formatMode(mode fs.FileMode) (string, error) {
	perm := mode.Perm()
	return fmt.Sprintf("%03o", uint32(perm)&0o777), nil
}

func parseMode(mode string) (fs.FileMode, error) {
	if len(mode) != 3 {
		return 0, fmt.Errorf("mode must be three octal digits, got %q", mode)
	}
	v, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q: %w", mode, err)
	}
	return fs.FileMode(v), nil
}
