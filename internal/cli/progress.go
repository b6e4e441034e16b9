package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/kbtools/url2kb/internal/api"
	"github.com/kbtools/url2kb/internal/importer"
	"github.com/spf13/cobra"
)

// Theme holds the color scheme for the import display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// notifyMsg carries a pipeline notification into the UI.
type notifyMsg struct {
	severity importer.Severity
	text     string
}

// statusMsg carries the latest polled task status.
type statusMsg string

// refreshMsg asks the UI to re-read the collection listing.
type refreshMsg struct{}

// collectionsMsg carries a fetched collection listing.
type collectionsMsg []string

// doneMsg signals that the pipeline finished.
type doneMsg struct {
	err error
}

// uiNotifier bridges pipeline notifications into the message loop. The
// channel is unbuffered so notifications reach the UI in pipeline order.
type uiNotifier struct {
	events chan tea.Msg
}

func (n uiNotifier) Notify(severity importer.Severity, text string) {
	n.events <- notifyMsg{severity: severity, text: text}
}

func (n uiNotifier) RefreshCollections() {
	n.events <- refreshMsg{}
}

// importModel is the bubbletea model for a running import.
type importModel struct {
	client  *api.Client
	events  chan tea.Msg
	run     func() tea.Msg
	spinner spinner.Model
	theme   Theme

	status      string
	messages    []notifyMsg
	collections []string
	err         error
	done        bool
	refreshing  bool
	quitting    bool
}

func newImportModel(client *api.Client, events chan tea.Msg, run func() tea.Msg) importModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return importModel{
		client:  client,
		events:  events,
		run:     run,
		spinner: sp,
		theme:   defaultTheme,
		status:  "submitting",
	}
}

// Init starts the pipeline, the spinner, and the event bridge.
func (m importModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run, m.waitForEvent())
}

// waitForEvent returns a command that delivers the next pipeline event.
func (m importModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Update handles messages and returns the updated model.
func (m importModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case notifyMsg:
		m.messages = append(m.messages, msg)
		return m, m.waitForEvent()

	case statusMsg:
		m.status = string(msg)
		return m, m.waitForEvent()

	case refreshMsg:
		m.refreshing = true
		return m, tea.Batch(m.fetchCollections(), m.waitForEvent())

	case collectionsMsg:
		m.collections = msg
		m.refreshing = false
		if m.done {
			return m, tea.Quit
		}
		return m, nil

	case doneMsg:
		m.done = true
		m.err = msg.err
		// Let an in-flight collection refresh land before quitting.
		if m.refreshing {
			return m, nil
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// fetchCollections re-reads the collection listing in the background.
func (m importModel) fetchCollections() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		names, err := m.client.ListCollections(ctx)
		if err != nil {
			return collectionsMsg(nil)
		}
		return collectionsMsg(names)
	}
}

// View renders the import display.
func (m importModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m importModel) renderContent() string {
	var b strings.Builder

	for _, msg := range m.messages {
		switch msg.severity {
		case importer.SeveritySuccess:
			b.WriteString(m.theme.completedStyle().Render("✓ " + msg.text))
		case importer.SeverityWarning:
			b.WriteString(m.theme.statusStyle().Render("! " + msg.text))
		case importer.SeverityError:
			b.WriteString(m.theme.errorStyle().Render("✗ " + msg.text))
		default:
			b.WriteString(msg.text)
		}
		b.WriteString("\n")
	}

	if m.quitting {
		b.WriteString(m.theme.hintStyle().Render("\nDetached. The server task keeps running; check it with 'url2kb status <task-id>'.\n"))
		return b.String()
	}

	if !m.done {
		// The spinner frame is styled here because the bubbles model
		// styles itself with lipgloss v2, while the theme is v1.
		frame := m.theme.statusStyle().Render(m.spinner.View())
		status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", m.status))
		hint := m.theme.hintStyle().Render("Press Ctrl+C to detach")
		fmt.Fprintf(&b, "%s %s %s\n", frame, status, hint)
		return b.String()
	}

	if len(m.collections) > 0 {
		b.WriteString(m.theme.hintStyle().Render("Collections: " + strings.Join(m.collections, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

// runImportProgress runs the import pipeline behind the interactive
// progress UI. The pipeline runs as a background command; its
// notifications and poll statuses stream into the model through the
// event channel.
func runImportProgress(cmd *cobra.Command, runner *importer.Runner, url, collection string, opts importer.Options) error {
	events := make(chan tea.Msg)
	runner.Notifier = uiNotifier{events: events}
	runner.OnStatus = func(status string) {
		events <- statusMsg(status)
	}

	run := func() tea.Msg {
		_, err := runner.Run(cmd.Context(), url, collection, opts)
		return doneMsg{err: err}
	}

	p := tea.NewProgram(newImportModel(runner.Client, events, run))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(importModel); ok {
		if m.quitting {
			return nil
		}
		if m.err != nil {
			// Already rendered by the UI.
			cmd.SilenceErrors = true
			return m.err
		}
	}
	return nil
}
