package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
	"github.com/kirillkom/docqa/internal/observability/metrics"
	"github.com/kirillkom/docqa/internal/render"
)

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle   = lipgloss.NewStyle().Bold(true)
	sourceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type answerMsg struct {
	question string
	answer   *domain.Answer
	err      error
}

// Model is the interactive chat session. History accumulates plain
// question/answer turns; retrieval context is never stored in history.
type Model struct {
	answerer ports.QuestionAnswerer
	metrics  *metrics.PipelineMetrics

	input      textinput.Model
	viewport   viewport.Model
	history    []domain.ChatTurn
	transcript []string
	status     string
	waiting    bool
	ready      bool
}

func New(answerer ports.QuestionAnswerer, m *metrics.PipelineMetrics) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		answerer: answerer,
		metrics:  m,
		input:    ti,
		viewport: vp,
		status:   "Ready. Ctrl+C to quit.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.waiting {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, questionStyle.Render("You: ")+question)
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.askCmd(question)
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			if domain.IsKind(msg.err, domain.ErrIndexNotFound) {
				m.status = errorStyle.Render("No index found. Run 'docqa build <folder>' first.")
			} else {
				m.status = errorStyle.Render("Error: " + msg.err.Error())
			}
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, nil
		}

		m.history = append(m.history,
			domain.ChatTurn{Role: domain.RoleUser, Content: msg.question},
			domain.ChatTurn{Role: domain.RoleAssistant, Content: msg.answer.Text},
		)
		m.transcript = append(m.transcript,
			"Assistant: "+msg.answer.Text,
			sourceStyle.Render(renderSources(msg.answer.Sources)),
		)
		m.status = fmt.Sprintf("Answered with %d retrieved units.", len(msg.answer.Sources))
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docqa chat")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// askCmd answers the question against a snapshot of the current history, so
// the blocking remote call runs outside the update loop.
func (m Model) askCmd(question string) tea.Cmd {
	answerer := m.answerer
	pipelineMetrics := m.metrics
	history := make([]domain.ChatTurn, len(m.history))
	copy(history, m.history)

	return func() tea.Msg {
		start := time.Now()
		answer, err := answerer.Answer(context.Background(), question, history)
		if pipelineMetrics != nil {
			hits := 0
			if answer != nil {
				hits = len(answer.Sources)
			}
			pipelineMetrics.RecordQuery("docqa", hits, time.Since(start), err)
		}
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No questions yet."
	}
	return strings.Join(m.transcript, "\n\n")
}

func renderSources(sources []domain.SourceAttribution) string {
	if len(sources) == 0 {
		return "No metadata available for retrieved context."
	}

	var b strings.Builder
	b.WriteString("Retrieved context:")
	for _, src := range sources {
		b.WriteString(fmt.Sprintf("\n- %s (folder %s, page %s)",
			src.FileName, src.FolderName, render.PageLabel(src.PageNumber)))
		b.WriteString("\n  Summary: " + render.PreviewText(src.Summary, render.SummaryPreviewChars))
		b.WriteString("\n  Entities: " + src.Entities)
	}
	return b.String()
}
