package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"dungeonmaster/pkg/game"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	storyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	choiceNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// turn is one rendered exchange in the transcript.
type turn struct {
	playerAction string
	story        string
}

// consoleUI is the BubbleTea model for the terminal client.
type consoleUI struct {
	config *consoleConfig
	client *http.Client

	sessionID string
	turns     []turn
	choices   []string
	stats     game.PlayerStats

	storyViewport viewport.Model
	spin          spinner.Model
	ready         bool
	width         int
	height        int
	loading       bool
	status        string
	err           error

	showQuitModal bool
}

type choiceMadeMsg struct {
	resp *makeChoiceResponse
	err  error
}

type gameSavedMsg struct {
	filename string
	err      error
}

type sessionEndedMsg struct{}

func newConsoleUI(cfg *consoleConfig, client *http.Client, start *startGameResponse) consoleUI {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	return consoleUI{
		config:        cfg,
		client:        client,
		sessionID:     start.SessionID,
		turns:         []turn{{story: start.Story}},
		choices:       start.Choices,
		stats:         start.PlayerStats,
		storyViewport: vp,
		spin:          sp,
	}
}

func (m consoleUI) Init() tea.Cmd {
	return m.spin.Tick
}

func (m consoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		storyWidth := int(float64(m.width)*0.7) - 4
		m.storyViewport.Width = storyWidth
		m.storyViewport.Height = m.height - 4
		m.ready = true
		m.writeStoryContent()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.showQuitModal = true
			return m, nil

		case "1", "2", "3":
			if m.loading {
				return m, nil
			}
			idx := int(msg.String()[0] - '1')
			if idx >= len(m.choices) {
				return m, nil
			}
			m.loading = true
			m.err = nil
			m.status = ""
			m.writeStoryContent()
			return m, tea.Batch(m.spin.Tick, m.makeChoiceCmd(idx))

		case "ctrl+s":
			if m.loading {
				return m, nil
			}
			return m, m.saveGameCmd()

		case "ctrl+y":
			if err := clipboard.WriteAll(m.sessionID); err == nil {
				m.status = "Session ID copied to clipboard"
			}
			return m, nil
		}

	case choiceMadeMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.turns = append(m.turns, turn{
				playerAction: msg.resp.PlayerAction,
				story:        msg.resp.Story,
			})
			m.choices = msg.resp.Choices
			m.stats = msg.resp.PlayerStats
		}
		m.writeStoryContent()
		return m, nil

	case gameSavedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Saved to " + msg.filename
		}
		return m, nil

	case sessionEndedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.loading {
			m.writeStoryContent()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.storyViewport, cmd = m.storyViewport.Update(msg)
	return m, cmd
}

func (m consoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			return m, m.endSessionCmd()
		case "n", "N", "esc":
			m.showQuitModal = false
			return m, nil
		}
	}
	return m, nil
}

func (m *consoleUI) writeStoryContent() {
	width := m.storyViewport.Width - 2
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("AI DUNGEON MASTER") + "\n\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, t := range m.turns {
		if t.playerAction != "" {
			b.WriteString(actionStyle.Render(wordwrap.String(t.playerAction, width)) + "\n\n")
		}
		b.WriteString(storyStyle.Render(wordwrap.String(t.story, width)) + "\n\n")
	}

	if m.loading {
		b.WriteString(loadingStyle.Render(m.spin.View()+" The Dungeon Master is thinking...") + "\n")
	}

	m.storyViewport.SetContent(b.String())
	m.storyViewport.GotoBottom()
}

func (m consoleUI) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showQuitModal {
		modal := modalStyle.Render("End your adventure?\n\nThe game will auto-save.\n\n[y] yes   [n] no")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	sidebar := m.renderSidebar()
	story := m.storyViewport.View()

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.storyViewport.Width+2).Render(story),
		sidebar)

	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, main, footer)
}

func (m consoleUI) renderSidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("PLAYER") + "\n\n")
	b.WriteString(statsStyle.Render(fmt.Sprintf("Name: %s\n", m.stats.Name)))
	b.WriteString(statsStyle.Render(fmt.Sprintf("HP: %d/%d\n", m.stats.HP, m.stats.MaxHP)))
	b.WriteString(statsStyle.Render(fmt.Sprintf("Level: %d (XP: %d)\n", m.stats.Level, m.stats.Experience)))
	b.WriteString(statsStyle.Render(fmt.Sprintf("Location: %s\n\n", m.stats.Location)))

	b.WriteString(titleStyle.Render("INVENTORY") + "\n\n")
	if len(m.stats.Inventory) == 0 {
		b.WriteString(statsStyle.Render("(empty)\n"))
	}
	for _, item := range m.stats.Inventory {
		b.WriteString(statsStyle.Render("• "+item) + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("CHOICES") + "\n\n")
	for i, choice := range m.choices {
		b.WriteString(choiceNumStyle.Render(fmt.Sprintf("%d. ", i+1)))
		b.WriteString(choiceStyle.Render(wordwrap.String(choice, 30)) + "\n")
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(b.String())
}

func (m consoleUI) renderFooter() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return statusStyle.Render("1-3: choose  •  ctrl+s: save  •  ctrl+y: copy session id  •  q: quit")
}

func (m consoleUI) makeChoiceCmd(idx int) tea.Cmd {
	return func() tea.Msg {
		resp, err := makeChoice(m.client, m.config.APIBaseURL, m.sessionID, idx)
		return choiceMadeMsg{resp: resp, err: err}
	}
}

func (m consoleUI) saveGameCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := saveGame(m.client, m.config.APIBaseURL, m.sessionID, "console_save")
		if err != nil {
			return gameSavedMsg{err: err}
		}
		return gameSavedMsg{filename: resp.Filename}
	}
}

func (m consoleUI) endSessionCmd() tea.Cmd {
	return func() tea.Msg {
		// Best effort; quit regardless.
		_ = endSession(m.client, m.config.APIBaseURL, m.sessionID)
		return sessionEndedMsg{}
	}
}
