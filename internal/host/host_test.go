package host

import (
	"bytes"
	"caml/internal/evaluator"
	"caml/internal/object"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdConsole(t *testing.T) {
	var out bytes.Buffer
	c := NewStdConsole(strings.NewReader("Ada\r\nlast"), &out)

	c.Print("hello")
	assert.Equal(t, "Ada", c.Prompt("Name"))
	assert.Equal(t, "last", c.Prompt("Again"))
	assert.Equal(t, "", c.Prompt("Empty"))
	assert.Equal(t, "hello\nName: Again: Empty: ", out.String())
}

func TestOSFileSystem(t *testing.T) {
	dir := t.TempDir()
	files := OSFileSystem{Root: dir}
	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(data)
	}

	require.NoError(t, files.Create("a.txt"))
	assert.Equal(t, "", read("a.txt"))

	require.NoError(t, files.WriteAppend("a.txt", "one"))
	require.NoError(t, files.WriteAppend("a.txt", "two"))
	require.NoError(t, files.WritePrepend("a.txt", "zero"))
	assert.Equal(t, "zero\none\ntwo\n", read("a.txt"))

	require.NoError(t, files.FindReplace("a.txt", "o", "0"))
	assert.Equal(t, "zer0\n0ne\ntw0\n", read("a.txt"))

	require.NoError(t, files.Rename("a.txt", "b.txt"))
	_, err := os.Stat(filepath.Join(dir, "a.txt"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	require.NoError(t, files.Delete("b.txt"))
	_, err = os.Stat(filepath.Join(dir, "b.txt"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestPrependToMissingFile(t *testing.T) {
	dir := t.TempDir()
	files := OSFileSystem{Root: dir}
	require.NoError(t, files.WritePrepend("new.txt", "first"))

	data, err := os.ReadFile(filepath.Join(dir, "new.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
}

func TestOSErrorsAreNotWrapped(t *testing.T) {
	files := OSFileSystem{Root: t.TempDir()}

	err := files.Delete("missing.txt")
	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "remove", pathErr.Op)

	err = files.Rename("missing.txt", "other.txt")
	var linkErr *os.LinkError
	require.ErrorAs(t, err, &linkErr)

	assert.ErrorIs(t, files.FindReplace("missing.txt", "a", "b"), fs.ErrNotExist)
}

func TestLogBindings(t *testing.T) {
	var buf bytes.Buffer
	b := LogBindings{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	props := object.NewDict()
	props.Set("title", &object.Text{Value: "App"})
	require.NoError(t, b.DeclareObject(evaluator.ObjectRecord{Name: "Main", IsWindow: true, Properties: props, Buttons: []string{"Ok"}}))
	require.NoError(t, b.PropertyChanged(evaluator.PropertyEvent{Object: "Main", Property: "title", Value: &object.Integer{Value: 3}}))

	logged := buf.String()
	assert.Contains(t, logged, "kind=window")
	assert.Contains(t, logged, `properties="{\"title\": \"App\"}"`)
	assert.Contains(t, logged, "property=title value=3")
}
