package journal

import (
	"caml/internal/evaluator"
	"caml/internal/host"
	"caml/internal/lexer"
	"caml/internal/object"
	"caml/internal/parser"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), "sqlite3://"+filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn    string
		driver string
		conn   string
	}{
		{"sqlite3:///tmp/run.db", "sqlite3", "/tmp/run.db"},
		{"sqlite://run.db", "sqlite3", "run.db"},
		{"mysql://user:pw@tcp(localhost:3306)/caml", "mysql", "user:pw@tcp(localhost:3306)/caml"},
		{"postgres://user@localhost/caml?sslmode=disable", "postgres", "postgres://user@localhost/caml?sslmode=disable"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, conn, err := ParseDSN(tt.dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.conn, conn)
		})
	}

	_, _, err := ParseDSN("run.db")
	assert.Error(t, err)
	_, _, err = ParseDSN("redis://localhost")
	assert.Error(t, err)
}

func TestPostgresPlaceholders(t *testing.T) {
	j := &Journal{driver: "postgres"}
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", j.bind("INSERT INTO t (a, b) VALUES (?, ?)"))

	j.driver = "sqlite3"
	assert.Equal(t, "SELECT ?", j.bind("SELECT ?"))
}

func TestJournalRecordsARun(t *testing.T) {
	j := openTemp(t)
	dir := t.TempDir()

	src := `Create window Main:
    Set title to "App"
    Create a new button called Ok:
        Set text to "Press"
Create list called tags containing contents 1, "two"
Set property tags of Main to tags
Create new file "notes.txt"
Access file "notes.txt" and write "hello"
Access file "notes.txt" and find "hello" and replace "bye"
Rename file "notes.txt" to "final.txt"`

	program, err := parser.Parse(lexer.Tokenize(src), parser.Options{Strict: true})
	require.NoError(t, err)

	console := host.NewStdConsole(strings.NewReader(""), io.Discard)
	eval := evaluator.New(console, j.Files(host.OSFileSystem{Root: dir}), j, evaluator.Options{})
	require.NoError(t, eval.Execute(program))

	run, err := j.Read(context.Background(), j.RunID())
	require.NoError(t, err)

	require.Len(t, run.Objects, 2)
	assert.Equal(t, "Ok", run.Objects[0].Name)
	assert.Equal(t, "Main", run.Objects[0].Parent)
	assert.Equal(t, `{"text":"Press"}`, run.Objects[0].Properties)
	assert.Equal(t, "Main", run.Objects[1].Name)
	assert.True(t, run.Objects[1].IsWindow)
	assert.Equal(t, `["Ok"]`, run.Objects[1].Buttons)

	require.Len(t, run.Properties, 3)
	assert.Equal(t, `"App"`, run.Properties[0].Value)
	assert.Equal(t, "tags", run.Properties[2].Property)
	assert.Equal(t, `[1,"two"]`, run.Properties[2].Value)

	require.Len(t, run.Files, 4)
	ops := []string{}
	for _, f := range run.Files {
		ops = append(ops, f.Op)
	}
	assert.Equal(t, []string{"create", "append", "find_replace", "rename"}, ops)
	assert.Equal(t, "bye", run.Files[2].Replace)
	assert.Equal(t, "final.txt", run.Files[3].NewPath)

	for i := 1; i < len(run.Files); i++ {
		assert.Greater(t, run.Files[i].Seq, run.Files[i-1].Seq)
	}

	data, err := os.ReadFile(filepath.Join(dir, "final.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bye\n", string(data))
}

func TestFailedFileOpsAreNotJournaled(t *testing.T) {
	j := openTemp(t)
	files := j.Files(host.OSFileSystem{Root: t.TempDir()})

	err := files.Delete("missing.txt")
	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)

	run, err := j.Read(context.Background(), j.RunID())
	require.NoError(t, err)
	assert.Empty(t, run.Files)
}

func TestDictValuesKeepOrder(t *testing.T) {
	d := object.NewDict()
	d.Set("z", &object.Integer{Value: 1})
	d.Set("a", &object.List{Elements: []object.Object{object.NULL, &object.Float{Value: 1.5}}})

	out, err := toJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[null,1.5]}`, out)
}

func TestNonFiniteFloatsAreStoredAsText(t *testing.T) {
	d := object.NewDict()
	d.Set("root", &object.Float{Value: math.NaN()})
	d.Set("big", &object.Float{Value: math.Inf(-1)})

	out, err := toJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"root":"nan","big":"-inf"}`, out)
}
