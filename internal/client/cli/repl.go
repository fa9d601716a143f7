package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophforum/internal/client/client"
)

// printFn and printlnFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Threads(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	NewThread(ctx context.Context) error
	Reply(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Bio(ctx context.Context) error
	Avatar(ctx context.Context, args []string) error
	Role(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: register, login, threads [page], show <thread>, search <query>, exit"
	helpMember = "Available commands: threads [page], show <thread>, search <query>, new, reply <thread>, " +
		"edit <message>, rm <message>, profile [user], bio, avatar <file>, role <user> <role>, logout, exit"
)

// needsLogin lists the commands that act on behalf of the user.
var needsLogin = map[string]bool{
	"new": true, "reply": true, "edit": true, "rm": true,
	"profile": true, "bio": true, "avatar": true, "role": true, "logout": true,
}

// describe turns client errors into short user-facing text.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return "not logged in or session expired, please login"
	case errors.Is(err, client.ErrForbidden):
		return "you are not allowed to do that"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		return err.Error()
	}
}

// runREPL starts a simple read–eval–print loop for the forum client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Errors returned by handlers are printed and the loop continues. The loop
// exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("forum%s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsLogin[cmd] && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "threads", "l":
			err = a.Threads(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "search":
			err = a.Search(ctx, args)
		case "new":
			err = a.NewThread(ctx)
		case "reply":
			err = a.Reply(ctx, args)
		case "edit":
			err = a.Edit(ctx, args)
		case "rm":
			err = a.Remove(ctx, args)
		case "profile":
			err = a.Profile(ctx, args)
		case "bio":
			err = a.Bio(ctx)
		case "avatar":
			err = a.Avatar(ctx, args)
		case "role":
			err = a.Role(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", describe(err))
		}
		if readErr != nil {
			return
		}
	}
}
