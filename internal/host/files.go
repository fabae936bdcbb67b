package host

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OSFileSystem applies file statements to the local disk. Relative paths resolve
// against Root when it is set. OS errors are returned unwrapped.
type OSFileSystem struct {
	Root string
}

func (f OSFileSystem) path(p string) string {
	if f.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.Root, p)
}

// Create truncates an existing file.
func (f OSFileSystem) Create(path string) error {
	file, err := os.Create(f.path(path))
	if err != nil {
		return err
	}
	return file.Close()
}

func (f OSFileSystem) Delete(path string) error {
	return os.Remove(f.path(path))
}

func (f OSFileSystem) WriteAppend(path, text string) error {
	file, err := os.OpenFile(f.path(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(text + "\n"); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WritePrepend puts text on a new first line. A missing file counts as empty.
func (f OSFileSystem) WritePrepend(path, text string) error {
	old, err := os.ReadFile(f.path(path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(f.path(path), append([]byte(text+"\n"), old...), 0644)
}

// FindReplace replaces every occurrence of find.
func (f OSFileSystem) FindReplace(path, find, replace string) error {
	data, err := os.ReadFile(f.path(path))
	if err != nil {
		return err
	}
	return os.WriteFile(f.path(path), []byte(strings.ReplaceAll(string(data), find, replace)), 0644)
}

func (f OSFileSystem) Rename(path, newPath string) error {
	return os.Rename(f.path(path), f.path(newPath))
}
