package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
	"github.com/fatih/color"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	userColor  = color.New(color.FgGreen)
	tagColor   = color.New(color.FgYellow)
	faintColor = color.New(color.Faint)
)

const timeLayout = "2006-01-02 15:04"

// parseID reads the single numeric argument of a command.
func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return id, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func renderSummaries(w io.Writer, threads []models.ThreadSummary) {
	for _, t := range threads {
		tag := ""
		if t.Tag != "" {
			tag = " " + tagColor.Sprintf("[%s]", t.Tag)
		}
		last := "no messages"
		if t.LastMessageAt != nil {
			last = "last " + formatTime(*t.LastMessageAt)
		}
		fmt.Fprintf(w, "#%-5d %s%s by %s, %d messages, %s\n",
			t.ID, titleColor.Sprint(t.Title), tag, userColor.Sprint(t.UserName), t.MessageCount, faintColor.Sprint(last))
	}
}

func renderMessage(w io.Writer, m models.Message) {
	fmt.Fprintf(w, "%s %s %s\n", faintColor.Sprintf("[%d]", m.ID), userColor.Sprint(m.UserName), faintColor.Sprint(formatTime(m.SentAt)))
	for _, line := range strings.Split(m.Content, "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
}
