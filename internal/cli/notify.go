package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kbtools/url2kb/internal/api"
	"github.com/kbtools/url2kb/internal/importer"
)

// termNotifier renders pipeline notifications as styled terminal lines
// and re-reads the collection listing when told to refresh.
type termNotifier struct {
	client *api.Client
	out    io.Writer
	theme  Theme
}

func newTermNotifier(client *api.Client) *termNotifier {
	return &termNotifier{
		client: client,
		out:    os.Stdout,
		theme:  defaultTheme,
	}
}

func (n *termNotifier) Notify(severity importer.Severity, text string) {
	var line string
	switch severity {
	case importer.SeveritySuccess:
		line = n.theme.completedStyle().Render("✓ " + text)
	case importer.SeverityWarning:
		line = n.theme.statusStyle().Render("! " + text)
	case importer.SeverityError:
		line = n.theme.errorStyle().Render("✗ " + text)
	default:
		line = text
	}
	fmt.Fprintln(n.out, line)
}

func (n *termNotifier) RefreshCollections() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	names, err := n.client.ListCollections(ctx)
	if err != nil {
		slog.Warn("failed to refresh collections", "error", err)
		return
	}
	if len(names) > 0 {
		fmt.Fprintln(n.out, n.theme.hintStyle().Render("Collections: "+strings.Join(names, ", ")))
	}
}
