package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophforum/internal/common"
)

// Register prompts for a username and the password twice and creates the
// account. The password bytes are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.client.Register(ctx, userName, string(password), string(confirm)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered! You can now login.")
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.client.Login(ctx, userName, string(password))
	if err != nil {
		return err
	}

	a.userName = user.UserName
	fmt.Fprintf(a.out, "Welcome, %s (%s)\n", userColor.Sprint(user.UserName), user.Role)
	return nil
}

// Logout ends the session on the server and locally.
func (a *App) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)
	a.userName = ""
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
