package admin

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	i := 0
	readPassword = func(int) ([]byte, error) {
		if i >= len(pws) {
			return nil, errors.New("no more input")
		}
		pw := pws[i]
		i++
		return []byte(pw), nil
	}
}

func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--dsn", dsn))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDSN(t *testing.T) string {
	return filepath.Join(t.TempDir(), "db", "forum.db")
}

func TestMigrate(t *testing.T) {
	out, err := run(t, tempDSN(t), "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations (sqlite)")
	assert.Contains(t, out, "applied")
	assert.NotContains(t, out, "pending")
}

func TestUserAddShowRole(t *testing.T) {
	dsn := tempDSN(t)

	stubPasswords(t, "secret", "secret")
	out, err := run(t, dsn, "user", "add", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user alice")
	assert.Contains(t, out, "member")

	out, err = run(t, dsn, "user", "role", "alice", "Admin")
	require.NoError(t, err)
	assert.Contains(t, out, "alice is now admin")

	out, err = run(t, dsn, "user", "show", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "role:     admin")
	assert.Contains(t, out, "threads:  0")
	assert.Contains(t, out, "messages: 0")
}

func TestUserAdd_AdminFlag(t *testing.T) {
	stubPasswords(t, "secret", "secret")
	out, err := run(t, tempDSN(t), "user", "add", "root", "--admin")
	require.NoError(t, err)
	assert.Contains(t, out, "admin")
}

func TestUserAdd_Errors(t *testing.T) {
	dsn := tempDSN(t)

	stubPasswords(t, "secret", "other")
	_, err := run(t, dsn, "user", "add", "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passwords do not match")

	stubPasswords(t, "abc", "abc")
	_, err = run(t, dsn, "user", "add", "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")

	stubPasswords(t, "secret", "secret", "secret", "secret")
	_, err = run(t, dsn, "user", "add", "bob")
	require.NoError(t, err)
	_, err = run(t, dsn, "user", "add", "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUserRole_Errors(t *testing.T) {
	dsn := tempDSN(t)

	_, err := run(t, dsn, "user", "role", "ghost", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = run(t, dsn, "user", "role", "ghost", "root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestThreadsAndSearch(t *testing.T) {
	dsn := tempDSN(t)
	ctx := context.Background()

	o := &options{driver: "sqlite", dsn: dsn}
	e, err := o.open(ctx, &bytes.Buffer{})
	require.NoError(t, err)
	u, err := e.users.Register(ctx, "carol", "secret")
	require.NoError(t, err)
	_, err = e.forum.CreateThread(ctx, "Gophers", "hello gophers", u.ID, "go")
	require.NoError(t, err)
	_, err = e.forum.CreateThread(ctx, "Rust", "borrow checker", u.ID, "")
	require.NoError(t, err)
	require.NoError(t, e.store.Close())

	out, err := run(t, dsn, "threads", "--size", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "page 1 of 2 (2 total)")

	out, err = run(t, dsn, "threads", "--page", "2", "--size", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "page 2 of 2")

	out, err = run(t, dsn, "search", "GOPHERS")
	require.NoError(t, err)
	assert.Contains(t, out, "1 result(s)")
	assert.Contains(t, out, "hello gophers")
}

func TestThreads_Empty(t *testing.T) {
	out, err := run(t, tempDSN(t), "threads")
	require.NoError(t, err)
	assert.Contains(t, out, "no threads")
}

func TestUnknownDriver(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "--driver", "oracle"})
	assert.Error(t, root.Execute())
}

func TestThreads_NewestFirst(t *testing.T) {
	dsn := tempDSN(t)
	ctx := context.Background()

	o := &options{driver: "sqlite", dsn: dsn}
	e, err := o.open(ctx, &bytes.Buffer{})
	require.NoError(t, err)
	u, err := e.users.Register(ctx, "dave", "secret")
	require.NoError(t, err)
	_, err = e.forum.CreateThread(ctx, "Older", "first", u.ID, "")
	require.NoError(t, err)
	_, err = e.forum.CreateThread(ctx, "Newer", "second", u.ID, "")
	require.NoError(t, err)
	require.NoError(t, e.store.Close())

	out, err := run(t, dsn, "threads")
	require.NoError(t, err)
	newer, older := strings.Index(out, "Newer"), strings.Index(out, "Older")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	assert.Less(t, newer, older)

	cmd, _, err := NewRootCommand().Find([]string{"threads"})
	require.NoError(t, err)
	assert.Equal(t, "List threads, newest first", cmd.Short)
}
