package console

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rickgao/mocap-bridge/internal/session"
)

// DefaultRefresh is how often the console re-reads session status.
const DefaultRefresh = 250 * time.Millisecond

// Controller is the session surface the console drives.
type Controller interface {
	Status() session.Status
	ResetSource()
}

type panel int

const (
	panelNone panel = iota
	panelFrame
	panelPeer
)

type tickMsg time.Time

// Model is the bubbletea model for the console.
type Model struct {
	ctrl     Controller
	refresh  time.Duration
	status   session.Status
	panel    panel
	notice   string
	quitting bool
}

// New creates a console model. A non-positive refresh uses DefaultRefresh.
func New(ctrl Controller, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return Model{
		ctrl:    ctrl,
		refresh: refresh,
		status:  ctrl.Status(),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		m.status = m.ctrl.Status()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "f":
		m.panel = panelFrame
		m.notice = ""
	case "p":
		m.panel = panelPeer
		m.notice = ""
	case "r":
		m.ctrl.ResetSource()
		m.notice = "capture source reset"
	}
	m.status = m.ctrl.Status()
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "shutting down\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  session %s\n", m.status.Name, m.status.ID)
	b.WriteString("q quit  f frame  p peer  r reset\n\n")

	switch m.panel {
	case panelFrame:
		b.WriteString(frameView(m.status))
	case panelPeer:
		b.WriteString(peerView(m.status))
	}

	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}
	return b.String()
}

func frameView(st session.Status) string {
	if !st.HasFrame {
		return "no frame received yet\n"
	}
	f := st.LastFrame
	sent := "dropped"
	if f.Sent {
		sent = "sent"
	}
	return fmt.Sprintf("frame %d  t=%.3fs  bodies %d (%d tracked)  %s\n",
		f.Index, f.Timestamp, f.Bodies, f.Valid, sent)
}

func peerView(st session.Status) string {
	c, d := st.Connection, st.Dispatch
	var b strings.Builder
	fmt.Fprintf(&b, "peer %s  %s  persistent=%v\n", st.Endpoint, c.State, st.Persistent)
	fmt.Fprintf(&b, "writes ok=%d failed=%d  reconnects=%d skipped=%d retries=%d\n",
		c.Sent, c.Failed, c.Reconnects, c.Skipped, c.Retries)
	fmt.Fprintf(&b, "frames %d  empty=%d ok=%d failed=%d  bodies encoded=%d skipped=%d\n",
		d.FramesReceived, d.EmptyFrames, d.SendsOK, d.SendsFailed, d.BodiesEncoded, d.BodiesSkipped)
	return b.String()
}

// Run drives the console until the operator quits or ctx is cancelled.
func Run(ctx context.Context, ctrl Controller, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(New(ctrl, DefaultRefresh), opts...)

	done := make(chan struct{})
	defer close(done)
	go quitOnCancel(ctx, done, p.Quit)

	_, err := p.Run()
	return err
}

// quitOnCancel calls quit if ctx ends before done is closed.
func quitOnCancel(ctx context.Context, done <-chan struct{}, quit func()) {
	select {
	case <-ctx.Done():
		quit()
	case <-done:
	}
}
