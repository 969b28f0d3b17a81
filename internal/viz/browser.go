package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/emfield/internal/scene"
)

// Entry is one scene/preset pair offered by the browser.
type Entry struct {
	Scene, Preset string
	Info          string
}

// Loader evaluates the frames of an entry.
type Loader func(e Entry) ([]*scene.Frame, map[string]float64, error)

type loadedMsg struct {
	entry  Entry
	frames []*scene.Frame
	params map[string]float64
	err    error
}

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Browser lists presets and animates the chosen one.
type Browser struct {
	entries []Entry
	cursor  int
	load    Loader
	cfg     AnimationConfig
	loading bool
	err     error
	anim    *Animation
}

func NewBrowser(entries []Entry, load Loader, cfg AnimationConfig) Browser {
	return Browser{entries: entries, load: load, cfg: cfg}
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		b.loading = false
		if msg.err != nil {
			b.err = msg.err
			return b, nil
		}
		cfg := b.cfg
		cfg.Title = msg.entry.Scene + "/" + msg.entry.Preset
		cfg.Params = msg.params
		anim := NewAnimation(msg.frames, cfg)
		b.anim = &anim
		return b, anim.Init()
	case tea.KeyMsg:
		if b.anim != nil {
			if msg.String() == "b" {
				b.anim = nil
				return b, nil
			}
			next, cmd := b.anim.Update(msg)
			anim := next.(Animation)
			b.anim = &anim
			return b, cmd
		}
		return b.menuKey(msg)
	default:
		if b.anim != nil {
			next, cmd := b.anim.Update(msg)
			anim := next.(Animation)
			b.anim = &anim
			return b, cmd
		}
	}
	return b, nil
}

func (b Browser) menuKey(msg tea.KeyMsg) (Browser, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return b, tea.Quit
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.entries)-1 {
			b.cursor++
		}
	case "enter", " ":
		if b.loading || len(b.entries) == 0 {
			return b, nil
		}
		b.loading, b.err = true, nil
		e, load := b.entries[b.cursor], b.load
		return b, func() tea.Msg {
			frames, params, err := load(e)
			return loadedMsg{entry: e, frames: frames, params: params, err: err}
		}
	}
	return b, nil
}

func (b Browser) View() string {
	if b.anim != nil {
		return b.anim.View() + "\n" + infoStyle.Render("B: back to presets")
	}
	var s strings.Builder
	s.WriteString(cursorStyle.Render("EMFIELD PRESETS") + "\n\n")
	for i, e := range b.entries {
		name := fmt.Sprintf("%-14s %-10s", e.Scene, e.Preset)
		if i == b.cursor {
			s.WriteString(cursorStyle.Render("> "+name) + " " + infoStyle.Render(e.Info) + "\n")
		} else {
			s.WriteString("  " + itemStyle.Render(name) + " " + infoStyle.Render(e.Info) + "\n")
		}
	}
	if b.loading {
		s.WriteString("\n" + infoStyle.Render("evaluating frames..."))
	}
	if b.err != nil {
		s.WriteString("\n" + errStyle.Render(b.err.Error()))
	}
	s.WriteString("\n" + infoStyle.Render("↑↓:Select Enter:Animate Q:Quit"))
	return s.String()
}
