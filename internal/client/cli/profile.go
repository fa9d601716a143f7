package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophforum/internal/netx"
)

// uploadFn is a test seam for the presigned upload.
var uploadFn = netx.UploadToPresignedURL

// Profile shows a user's profile; the caller's own without arguments.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: profile [user]")
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	p, err := a.client.Profile(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s), member since %s\n", userColor.Sprint(p.User.UserName), p.User.Role, formatTime(p.User.CreatedAt))
	if p.User.AvatarURL != "" {
		fmt.Fprintf(a.out, "Avatar: %s\n", p.User.AvatarURL)
	}
	if p.User.Bio != "" {
		fmt.Fprintf(a.out, "%s\n", p.User.Bio)
	}
	fmt.Fprintf(a.out, "%d threads, %d messages\n", p.ThreadCount, p.MessageCount)

	renderSummaries(a.out, p.Threads)

	const recent = 5
	for i, m := range p.Messages {
		if i == recent {
			break
		}
		renderMessage(a.out, m)
	}
	return nil
}

// Bio replaces the caller's bio. The profile image is left as is.
func (a *App) Bio(ctx context.Context) error {
	bio, err := getMultiline(a.reader, "Bio", a.out)
	if err != nil {
		return err
	}

	if err := a.client.UpdateProfile(ctx, bio, nil); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// Avatar uploads an image file and makes it the caller's profile image.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: avatar <file>")
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	key, url, err := a.client.RequestAvatarUpload(ctx, filepath.Base(path))
	if err != nil {
		return err
	}

	if err := uploadFn(ctx, url, mime.TypeByExtension(filepath.Ext(path)), data); err != nil {
		return err
	}

	// keep the bio, only the image changes
	p, err := a.client.Profile(ctx, "")
	if err != nil {
		return err
	}
	if err := a.client.UpdateProfile(ctx, p.User.Bio, &key); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Avatar updated")
	return nil
}

// Role assigns a role to a user. The server only allows this to admins.
func (a *App) Role(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: role <user> <member|admin>")
	}

	if err := a.client.SetRole(ctx, args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s is now %s\n", args[0], args[1])
	return nil
}
