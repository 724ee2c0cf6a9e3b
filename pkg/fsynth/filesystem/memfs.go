package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MemFS is an in-memory FileSystem. FileSystem accepts arbitrary
// absolute paths, which fstest.MapFS's fs.ValidPath restriction
// forbids, so MemFS is a small hand-rolled map-of-paths fake instead —
// exercised by every operation and processor test that doesn't need to
// touch the real disk.
type MemFS struct {
	entries map[string]*memEntry
}

type memEntry struct {
	mode    fs.FileMode
	data    []byte
	target  string // symlink text, when mode&fs.ModeSymlink != 0
	modTime time.Time
}

// NewMemFS returns an in-memory filesystem holding only the root
// directory.
func NewMemFS() *MemFS {
	return &MemFS{entries: map[string]*memEntry{
		string(filepath.Separator): {mode: fs.ModeDir | 0o755, modTime: time.Now()},
	}}
}

func clean(path string) string {
	return filepath.Clean(path)
}

func (m *MemFS) Exists(path string) (bool, error) {
	_, ok := m.entries[clean(path)]
	return ok, nil
}

func (m *MemFS) Lstat(path string) (fs.FileInfo, error) {
	p := clean(path)
	e, ok := m.entries[p]
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return memFileInfo{name: filepath.Base(p), entry: e}, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	p := clean(path)
	seen := map[string]bool{}
	for {
		e, ok := m.entries[p]
		if !ok {
			return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
		}
		if e.mode&fs.ModeSymlink == 0 {
			return memFileInfo{name: filepath.Base(p), entry: e}, nil
		}
		if seen[p] {
			return nil, &fs.PathError{Op: "stat", Path: path, Err: fmt.Errorf("symlink loop")}
		}
		seen[p] = true
		target := e.target
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(p), target)
		}
		p = clean(target)
	}
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	p := clean(path)
	e, ok := m.entries[p]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
	}
	if e.mode.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fmt.Errorf("is a directory")}
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

func (m *MemFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	p := clean(path)
	parent := filepath.Dir(p)
	if parent != "." && parent != "/" {
		if pe, ok := m.entries[parent]; !ok || !pe.mode.IsDir() {
			return &fs.PathError{Op: "write", Path: path, Err: fs.ErrNotExist}
		}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.entries[p] = &memEntry{mode: perm &^ fs.ModeType, data: buf, modTime: time.Now()}
	return nil
}

func (m *MemFS) Mkdir(path string, perm fs.FileMode) error {
	p := clean(path)
	if _, ok := m.entries[p]; ok {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	parent := filepath.Dir(p)
	if parent != p && parent != "." && parent != "/" {
		if pe, ok := m.entries[parent]; !ok || !pe.mode.IsDir() {
			return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrNotExist}
		}
	}
	m.entries[p] = &memEntry{mode: (perm &^ fs.ModeType) | fs.ModeDir, modTime: time.Now()}
	return nil
}

func (m *MemFS) MkdirAll(path string, perm fs.FileMode) error {
	p := clean(path)
	parts := strings.Split(p, string(filepath.Separator))
	cur := ""
	if filepath.IsAbs(p) {
		cur = string(filepath.Separator)
	}
	for _, part := range parts {
		if part == "" {
			continue
		}
		if cur == "" || cur == string(filepath.Separator) {
			cur = cur + part
		} else {
			cur = cur + string(filepath.Separator) + part
		}
		if e, ok := m.entries[cur]; ok {
			if !e.mode.IsDir() {
				return &fs.PathError{Op: "mkdirall", Path: path, Err: fmt.Errorf("not a directory: %s", cur)}
			}
			continue
		}
		m.entries[cur] = &memEntry{mode: (perm &^ fs.ModeType) | fs.ModeDir, modTime: time.Now()}
	}
	return nil
}

func (m *MemFS) Remove(path string) error {
	p := clean(path)
	e, ok := m.entries[p]
	if !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	if e.mode.IsDir() {
		for child := range m.entries {
			if filepath.Dir(child) == p {
				return &fs.PathError{Op: "remove", Path: path, Err: fmt.Errorf("directory not empty")}
			}
		}
	}
	delete(m.entries, p)
	return nil
}

func (m *MemFS) ReadDir(path string) ([]fs.DirEntry, error) {
	p := clean(path)
	e, ok := m.entries[p]
	if !ok || !e.mode.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}
	var out []fs.DirEntry
	for child, ce := range m.entries {
		if filepath.Dir(child) == p && child != p {
			out = append(out, fs.FileInfoToDirEntry(memFileInfo{name: filepath.Base(child), entry: ce}))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (m *MemFS) Rename(oldpath, newpath string) error {
	op, np := clean(oldpath), clean(newpath)
	e, ok := m.entries[op]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	delete(m.entries, op)
	m.entries[np] = e
	if e.mode.IsDir() {
		for child, ce := range m.entries {
			if strings.HasPrefix(child, op+string(filepath.Separator)) {
				rel := strings.TrimPrefix(child, op)
				delete(m.entries, child)
				m.entries[np+rel] = ce
			}
		}
	}
	return nil
}

func (m *MemFS) Symlink(target, linkPath string) error {
	p := clean(linkPath)
	if _, ok := m.entries[p]; ok {
		return &fs.PathError{Op: "symlink", Path: linkPath, Err: fs.ErrExist}
	}
	m.entries[p] = &memEntry{mode: fs.ModeSymlink | 0777, target: target, modTime: time.Now()}
	return nil
}

func (m *MemFS) Chmod(path string, perm fs.FileMode) error {
	p := clean(path)
	e, ok := m.entries[p]
	if !ok {
		return &fs.PathError{Op: "chmod", Path: path, Err: fs.ErrNotExist}
	}
	e.mode = (e.mode & fs.ModeType) | (perm &^ fs.ModeType)
	return nil
}

func (m *MemFS) Readlink(path string) (string, error) {
	p := clean(path)
	e, ok := m.entries[p]
	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: fs.ErrNotExist}
	}
	if e.mode&fs.ModeSymlink == 0 {
		return "", &fs.PathError{Op: "readlink", Path: path, Err: fmt.Errorf("not a symlink")}
	}
	return e.target, nil
}

// Seed inserts raw content directly, bypassing parent-directory checks.
// Convenient for test setup.
func (m *MemFS) Seed(path string, data []byte, perm fs.FileMode) {
	m.entries[clean(path)] = &memEntry{mode: perm &^ fs.ModeType, data: data, modTime: time.Now()}
}

// SeedDir inserts a directory entry directly. Convenient for test setup.
func (m *MemFS) SeedDir(path string, perm fs.FileMode) {
	m.entries[clean(path)] = &memEntry{mode: (perm &^ fs.ModeType) | fs.ModeDir, modTime: time.Now()}
}

type memFileInfo struct {
	name  string
	entry *memEntry
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return int64(len(i.entry.data)) }
func (i memFileInfo) Mode() fs.FileMode  { return i.entry.mode }
func (i memFileInfo) ModTime() time.Time { return i.entry.modTime }
func (i memFileInfo) IsDir() bool        { return i.entry.mode.IsDir() }
func (i memFileInfo) Sys() interface{}   { return nil }
