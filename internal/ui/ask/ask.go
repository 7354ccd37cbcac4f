// Package ask is the interactive question-and-answer screen.
package ask

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/edumate/internal/recommender"
	"github.com/abhisek/edumate/internal/ui/components"
	"github.com/abhisek/edumate/internal/ui/layout"
	"github.com/abhisek/edumate/internal/ui/theme"
)

// Answerer answers questions from the knowledge base.
type Answerer interface {
	Answer(ctx context.Context, req recommender.AnswerRequest) (*recommender.AnswerResult, error)
}

type exchange struct {
	question string
	result   *recommender.AnswerResult
	err      error
}

// answerMsg carries a finished answer back to the model.
type answerMsg struct {
	result *recommender.AnswerResult
	err    error
}

// spinnerTickMsg animates the thinking indicator.
type spinnerTickMsg time.Time

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the root Bubble Tea model of the ask screen.
type Model struct {
	ctx       context.Context
	answerer  Answerer
	topic     string
	user      string
	input     components.TextInput
	exchanges []exchange
	pending   bool
	frame     int
	width     int
	height    int
}

// New creates the screen. topic, when set, scopes every question.
func New(ctx context.Context, answerer Answerer, topic, user string) Model {
	return Model{
		ctx:      ctx,
		answerer: answerer,
		topic:    topic,
		user:     user,
		input:    components.NewTextInput("Ask a question...", 500),
	}
}

func (m Model) Init() tea.Cmd {
	return m.input.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case answerMsg:
		m.pending = false
		if n := len(m.exchanges); n > 0 {
			m.exchanges[n-1].result = msg.result
			m.exchanges[n-1].err = msg.err
		}
		return m, nil

	case spinnerTickMsg:
		if !m.pending {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, spinnerTick()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	q := m.input.Value()
	if q == "" || m.pending {
		return m, nil
	}
	m.input.Reset()
	m.exchanges = append(m.exchanges, exchange{question: q})
	m.pending = true
	return m, tea.Batch(m.ask(q), spinnerTick())
}

func (m Model) ask(question string) tea.Cmd {
	ctx, answerer, topic := m.ctx, m.answerer, m.topic
	return func() tea.Msg {
		res, err := answerer.Answer(ctx, recommender.AnswerRequest{Question: question, ContextTopic: topic})
		return answerMsg{result: res, err: err}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := "Ask"
	if m.topic != "" {
		title = "Ask: " + m.topic
	}
	header := layout.RenderHeader(title, m.user, m.width)
	footer := layout.RenderFooter([]layout.KeyHint{
		{Key: "Enter", Description: "Ask"},
		{Key: "Esc", Description: "Quit"},
	}, m.width)

	height := layout.ContentHeight(header, footer, m.height)
	v.SetContent(layout.RenderFrame(header, m.body(m.width, height), footer, m.width, m.height))
	return v
}

// body renders the transcript above the input, keeping the newest lines
// when it overflows.
func (m Model) body(width, height int) string {
	wrap := lipgloss.NewStyle().Width(max(width-4, 10))

	var lines []string
	if len(m.exchanges) == 0 {
		lines = append(lines, theme.Hint.Render("Questions are answered from the knowledge base."))
	}
	for i, ex := range m.exchanges {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, wrap.Render(theme.Question.Render("Q: "+ex.question)))
		switch {
		case ex.err != nil:
			lines = append(lines, wrap.Render(theme.Bad.Render(fmt.Sprintf("Error: %v", ex.err))))
		case ex.result != nil:
			lines = append(lines, wrap.Render(theme.Body.Render(strings.TrimSpace(ex.result.Answer))))
			lines = append(lines, theme.Label.Render(fmt.Sprintf("confidence %s · sources: %s",
				ex.result.Confidence, strings.Join(ex.result.Sources, ", "))))
		default:
			lines = append(lines, theme.Hint.Render(spinnerFrames[m.frame]+" thinking..."))
		}
	}

	transcript := strings.Split(strings.Join(lines, "\n"), "\n")
	room := max(height-3, 1)
	if len(transcript) > room {
		transcript = transcript[len(transcript)-room:]
	}
	return "  " + strings.Join(transcript, "\n  ") + "\n\n  " + m.input.View()
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, answerer Answerer, topic, user string) error {
	p := tea.NewProgram(New(ctx, answerer, topic, user))
	_, err := p.Run()
	return err
}
