// Package tui implements an interactive question-and-answer session
// against one document, following the Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Styles for the session view.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	questionStyle = lipgloss.NewStyle().Bold(true)
	answerStyle   = lipgloss.NewStyle().PaddingLeft(2)
	contextStyle  = lipgloss.NewStyle().PaddingLeft(2).Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// exchange is one answered question in the session history.
type exchange struct {
	question string
	answer   *domain.Answer
	err      error
}

// answerMsg carries the outcome of an asynchronous ask.
type answerMsg struct {
	question string
	answer   *domain.Answer
	err      error
}

// App is the interactive ask session. It implements tea.Model.
type App struct {
	ctx        context.Context
	query      driving.QueryService
	documentID string

	input   textinput.Model
	spinner spinner.Model
	history []exchange
	asking  bool
}

// NewApp creates a session bound to one document.
func NewApp(ctx context.Context, query driving.QueryService, documentID string) *App {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 70

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ctx:        ctx,
		query:      query,
		documentID: documentID,
		input:      ti,
		spinner:    sp,
	}
}

// Init starts the cursor blink.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			if a.asking {
				return a, nil
			}
			question := strings.TrimSpace(a.input.Value())
			if question == "" {
				return a, nil
			}
			a.input.Reset()
			a.asking = true
			return a, tea.Batch(a.spinner.Tick, a.ask(question))
		}

	case answerMsg:
		a.asking = false
		a.history = append(a.history, exchange{
			question: msg.question,
			answer:   msg.answer,
			err:      msg.err,
		})
		return a, nil

	case spinner.TickMsg:
		if !a.asking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View renders the session.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("docqa / document %s", a.documentID)))
	b.WriteString("\n\n")

	for _, ex := range a.history {
		b.WriteString(questionStyle.Render("> " + ex.question))
		b.WriteString("\n")
		switch {
		case ex.err != nil:
			b.WriteString(errorStyle.Render("  " + ex.err.Error()))
		case ex.answer != nil:
			b.WriteString(answerStyle.Render(ex.answer.Text))
			if n := len(ex.answer.ContextUsed); n > 0 {
				b.WriteString("\n")
				b.WriteString(contextStyle.Render(fmt.Sprintf("(%d context chunks)", n)))
			}
		}
		b.WriteString("\n\n")
	}

	if a.asking {
		b.WriteString(a.spinner.View())
		b.WriteString(" thinking...\n\n")
	} else {
		b.WriteString(a.input.View())
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("enter: ask • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

// ask resolves the question off the Update loop.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.query.Answer(a.ctx, a.documentID, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}
