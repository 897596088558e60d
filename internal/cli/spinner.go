package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guiyumin/vdl/internal/core/download"
	"github.com/guiyumin/vdl/internal/core/engine"
)

var (
	fetchURLStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	fetchSpinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// fetchState holds the metadata request shared with the spinner.
type fetchState struct {
	mu   sync.RWMutex
	done bool
	info *engine.Info
	err  error
}

func (s *fetchState) set(info *engine.Info, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.info = info
	s.err = err
}

func (s *fetchState) isDone() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

type fetchTickMsg time.Time

type fetchModel struct {
	spinner   spinner.Model
	url       string
	state     *fetchState
	cancelled bool
}

func newFetchModel(url string, state *fetchState) fetchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = fetchSpinStyle

	return fetchModel{
		spinner: s,
		url:     url,
		state:   state,
	}
}

func fetchTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return fetchTickMsg(t)
	})
}

func (m fetchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchTickCmd())
}

func (m fetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchTickMsg:
		if m.state.isDone() {
			return m, tea.Quit
		}
		return m, fetchTickCmd()
	}

	return m, nil
}

func (m fetchModel) View() string {
	if m.cancelled || m.state.isDone() {
		return ""
	}
	return fmt.Sprintf("  %s Fetching info: %s\n", m.spinner.View(), fetchURLStyle.Render(m.url))
}

// spinnerFetch shows a spinner on w while the metadata request runs.
// Ctrl+C cancels the request through cancel.
func spinnerFetch(w io.Writer, cancel context.CancelFunc) download.FetchFunc {
	return func(ctx context.Context, url string, fetch func() (*engine.Info, error)) (*engine.Info, error) {
		state := &fetchState{}
		done := make(chan struct{})

		go func() {
			defer close(done)
			state.set(fetch())
		}()

		p := tea.NewProgram(newFetchModel(url, state), tea.WithOutput(w))
		final, err := p.Run()
		if err == nil {
			if m, ok := final.(fetchModel); ok && m.cancelled {
				cancel()
			}
		}

		<-done
		return state.info, state.err
	}
}
