package journal

import "caml/internal/evaluator"

// Files decorates a file system so that every successful operation is journaled.
// Errors from the inner file system pass through untouched.
func (j *Journal) Files(inner evaluator.FileSystem) evaluator.FileSystem {
	return &journaledFiles{inner: inner, j: j}
}

type journaledFiles struct {
	inner evaluator.FileSystem
	j     *Journal
}

func (f *journaledFiles) Create(path string) error {
	if err := f.inner.Create(path); err != nil {
		return err
	}
	return f.j.fileEffect("create", path, "", "", "", "")
}

func (f *journaledFiles) Delete(path string) error {
	if err := f.inner.Delete(path); err != nil {
		return err
	}
	return f.j.fileEffect("delete", path, "", "", "", "")
}

func (f *journaledFiles) WriteAppend(path, text string) error {
	if err := f.inner.WriteAppend(path, text); err != nil {
		return err
	}
	return f.j.fileEffect("append", path, text, "", "", "")
}

func (f *journaledFiles) WritePrepend(path, text string) error {
	if err := f.inner.WritePrepend(path, text); err != nil {
		return err
	}
	return f.j.fileEffect("prepend", path, text, "", "", "")
}

func (f *journaledFiles) FindReplace(path, find, replace string) error {
	if err := f.inner.FindReplace(path, find, replace); err != nil {
		return err
	}
	return f.j.fileEffect("find_replace", path, "", find, replace, "")
}

func (f *journaledFiles) Rename(path, newPath string) error {
	if err := f.inner.Rename(path, newPath); err != nil {
		return err
	}
	return f.j.fileEffect("rename", path, "", "", "", newPath)
}
