package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/fatih/color"
)

// fakeClient records calls and returns canned results.
type fakeClient struct {
	loggedIn bool
	err      error

	calls []string
	args  []any

	user    *models.User
	page    *models.ThreadPage
	thread  *models.Thread
	hits    []models.SearchHit
	profile *models.Profile
	newID   int64
	key     string
	url     string
}

func (f *fakeClient) record(name string, args ...any) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args...)
}

func (f *fakeClient) Close() error   { return nil }
func (f *fakeClient) LoggedIn() bool { return f.loggedIn }

func (f *fakeClient) Register(_ context.Context, username, password, confirm string) error {
	f.record("register", username, password, confirm)
	return f.err
}

func (f *fakeClient) Login(_ context.Context, username, password string) (*models.User, error) {
	f.record("login", username, password)
	if f.err != nil {
		return nil, f.err
	}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeClient) Logout(context.Context) error {
	f.record("logout")
	f.loggedIn = false
	return f.err
}

func (f *fakeClient) Threads(_ context.Context, page, size int) (*models.ThreadPage, error) {
	f.record("threads", page, size)
	return f.page, f.err
}

func (f *fakeClient) Thread(_ context.Context, id int64) (*models.Thread, error) {
	f.record("thread", id)
	return f.thread, f.err
}

func (f *fakeClient) Search(_ context.Context, query string) ([]models.SearchHit, error) {
	f.record("search", query)
	return f.hits, f.err
}

func (f *fakeClient) CreateThread(_ context.Context, title, content, tag string) (int64, error) {
	f.record("create", title, content, tag)
	return f.newID, f.err
}

func (f *fakeClient) PostMessage(_ context.Context, threadID int64, content string) (int64, error) {
	f.record("post", threadID, content)
	return f.newID, f.err
}

func (f *fakeClient) EditMessage(_ context.Context, id int64, content string) error {
	f.record("edit", id, content)
	return f.err
}

func (f *fakeClient) RemoveMessage(_ context.Context, id int64) error {
	f.record("remove", id)
	return f.err
}

func (f *fakeClient) Profile(_ context.Context, username string) (*models.Profile, error) {
	f.record("profile", username)
	return f.profile, f.err
}

func (f *fakeClient) UpdateProfile(_ context.Context, bio string, image *string) error {
	f.record("update", bio, image)
	return f.err
}

func (f *fakeClient) RequestAvatarUpload(_ context.Context, filename string) (string, string, error) {
	f.record("avatar", filename)
	return f.key, f.url, f.err
}

func (f *fakeClient) SetRole(_ context.Context, username, role string) error {
	f.record("role", username, role)
	return f.err
}

// newTestApp builds an App over fc whose prompts read input.
func newTestApp(t *testing.T, fc *fakeClient, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &App{client: fc, reader: bufio.NewReader(strings.NewReader(input)), out: &out}, &out
}

// stubPasswords makes getPassword return the given passwords in order.
func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	old := getPassword
	t.Cleanup(func() { getPassword = old })
	i := 0
	getPassword = func(string, io.Writer) ([]byte, error) {
		pw := []byte(passwords[i%len(passwords)])
		i++
		return pw, nil
	}
}

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}
