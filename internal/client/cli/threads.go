package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Threads lists one page of threads, newest first.
func (a *App) Threads(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			return fmt.Errorf("usage: threads [page]")
		}
		page = p
	}

	res, err := a.client.Threads(ctx, page, 0)
	if err != nil {
		return err
	}

	if len(res.Threads) == 0 {
		fmt.Fprintln(a.out, "No threads on this page")
	}
	renderSummaries(a.out, res.Threads)
	fmt.Fprintf(a.out, "Page %d of %d (%d threads)\n", res.Page, res.TotalPages, res.Total)
	return nil
}

// Show prints a thread with all of its messages.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <thread>")
	if err != nil {
		return err
	}

	thread, err := a.client.Thread(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n", titleColor.Sprint(thread.Title))
	for _, m := range thread.Messages {
		renderMessage(a.out, m)
	}
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	if query == "" {
		return fmt.Errorf("usage: search <query>")
	}

	hits, err := a.client.Search(ctx, query)
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Fprintln(a.out, "Nothing found")
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(a.out, "in #%d %s\n", h.ThreadID, titleColor.Sprint(h.ThreadTitle))
		renderMessage(a.out, h.Message)
	}
	return nil
}

// NewThread prompts for a title, an optional tag and the opening message.
func (a *App) NewThread(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	tag, err := getSimpleText(a.reader, "Tag (optional)", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}

	id, err := a.client.CreateThread(ctx, title, content, tag)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Thread #%d created\n", id)
	return nil
}

func (a *App) Reply(ctx context.Context, args []string) error {
	threadID, err := parseID(args, "reply <thread>")
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Message", a.out)
	if err != nil {
		return err
	}

	id, err := a.client.PostMessage(ctx, threadID, content)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Message #%d posted\n", id)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <message>")
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "New text", a.out)
	if err != nil {
		return err
	}

	if err := a.client.EditMessage(ctx, id, content); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Message #%d updated\n", id)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := parseID(args, "rm <message>")
	if err != nil {
		return err
	}

	if err := a.client.RemoveMessage(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Message #%d removed\n", id)
	return nil
}
