package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem implements FileSystem against the real host filesystem,
// accepting arbitrary (not necessarily slash-rooted) paths since
// operations routinely work with absolute paths.
type OSFileSystem struct{}

// NewOSFileSystem returns a FileSystem backed by the real OS.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (o *OSFileSystem) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (o *OSFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

func (o *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (o *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (o *OSFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (o *OSFileSystem) Mkdir(path string, perm fs.FileMode) error {
	return os.Mkdir(path, perm)
}

func (o *OSFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (o *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (o *OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

func (o *OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (o *OSFileSystem) Symlink(target, linkPath string) error {
	return os.Symlink(target, linkPath)
}

func (o *OSFileSystem) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (o *OSFileSystem) Chmod(path string, perm fs.FileMode) error {
	return os.Chmod(path, perm)
}

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}
