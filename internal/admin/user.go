package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dmitrijs2005/gophforum/internal/common"
	"github.com/dmitrijs2005/gophforum/internal/server/models"
)

// readPassword is replaced in tests.
var readPassword = term.ReadPassword

const minPasswordLength = 4

func promptPassword(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt+": ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func newUserCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserAddCommand(o), newUserRoleCommand(o), newUserShowCommand(o))
	return cmd
}

func newUserAddCommand(o *options) *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account, prompting for the password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "" || strings.ContainsAny(name, " \t\r\n") {
				return fmt.Errorf("%w: username must be non-empty and contain no whitespace", common.ErrorValidation)
			}

			out := cmd.OutOrStdout()
			pw, err := promptPassword(out, "Password")
			if err != nil {
				return err
			}
			again, err := promptPassword(out, "Repeat password")
			if err != nil {
				return err
			}
			if pw != again {
				return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
			}
			if len(pw) < minPasswordLength {
				return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
			}

			return o.withEnv(cmd, func(ctx context.Context, e *env) error {
				u, err := e.users.Register(ctx, name, pw)
				if err != nil {
					if errors.Is(err, common.ErrorAlreadyExists) {
						return fmt.Errorf("user %q already exists", name)
					}
					return err
				}
				if admin {
					if err := e.users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
						return err
					}
					u.Role = models.RoleAdmin
				}
				okColor.Fprintf(out, "Created user %s (id %d, %s)\n", u.UserName, u.ID, u.Role)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	return cmd
}

func newUserRoleCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "role <name> <member|admin>",
		Short: "Assign a role to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := models.ParseRole(args[1])
			if err != nil {
				return err
			}
			return o.withEnv(cmd, func(ctx context.Context, e *env) error {
				u, err := lookupUser(ctx, e, args[0])
				if err != nil {
					return err
				}
				if err := e.users.SetRole(ctx, u.ID, role); err != nil {
					return err
				}
				okColor.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.UserName, role)
				return nil
			})
		},
	}
}

func newUserShowCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print an account with its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withEnv(cmd, func(ctx context.Context, e *env) error {
				u, err := lookupUser(ctx, e, args[0])
				if err != nil {
					return err
				}
				stats, err := e.users.UserStats(ctx, u.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				headerColor.Fprintln(out, u.UserName)
				fmt.Fprintf(out, "  id:       %d\n", u.ID)
				fmt.Fprintf(out, "  role:     %s\n", u.Role)
				fmt.Fprintf(out, "  joined:   %s\n", u.CreatedAt.Format("2006-01-02 15:04"))
				fmt.Fprintf(out, "  threads:  %d\n", stats.ThreadCount)
				fmt.Fprintf(out, "  messages: %d\n", stats.MessageCount)
				if u.ProfileImage != nil {
					fmt.Fprintf(out, "  image:    %s\n", *u.ProfileImage)
				}
				if u.Bio != nil && *u.Bio != "" {
					fmt.Fprintf(out, "  bio:      %s\n", *u.Bio)
				}
				return nil
			})
		},
	}
}

func lookupUser(ctx context.Context, e *env, name string) (*models.User, error) {
	u, err := e.users.GetUser(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("user %q not found", name)
		}
		return nil, err
	}
	return u, nil
}
