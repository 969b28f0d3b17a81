package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/emfield/internal/limit"
	"github.com/san-kum/emfield/internal/scene"
)

type TickMsg time.Time

// AnimationConfig configures NewAnimation. Zero values pick defaults.
type AnimationConfig struct {
	Title   string
	Quiver  QuiverOptions
	FPS     int
	Theme   string
	GIFPath string
	Params  map[string]float64
}

// Animation is a bubbletea model that loops the frames of one period.
type Animation struct {
	cfg       AnimationConfig
	frames    []*scene.Frame
	canvases  []*Canvas
	mags      []float64
	paramKeys []string
	index     int
	running   bool
	showHelp  bool
	theme     Theme
	styles    Styles
	status    string
}

func NewAnimation(frames []*scene.Frame, cfg AnimationConfig) Animation {
	if cfg.FPS <= 0 {
		cfg.FPS = 12
	}
	if cfg.Quiver.Width == 0 {
		cfg.Quiver = DefaultQuiverOptions()
	}
	if cfg.GIFPath == "" {
		cfg.GIFPath = "field.gif"
	}
	m := Animation{
		cfg:      cfg,
		frames:   frames,
		canvases: RenderFrames(frames, cfg.Quiver),
		mags:     make([]float64, len(frames)),
		running:  len(frames) > 1,
		theme:    GetTheme(cfg.Theme),
	}
	m.styles = NewStyles(m.theme)
	for i, f := range frames {
		m.mags[i] = limit.MeanMagnitude(f.Slice.FU, f.Slice.FV, f.Slice.Singular)
	}
	for k := range cfg.Params {
		m.paramKeys = append(m.paramKeys, k)
	}
	sort.Strings(m.paramKeys)
	return m
}

// RenderFrames rasterizes the display slice of every frame.
func RenderFrames(frames []*scene.Frame, opt QuiverOptions) []*Canvas {
	out := make([]*Canvas, len(frames))
	for i, f := range frames {
		out[i] = Quiver(f.Slice, opt)
	}
	return out
}

func (m Animation) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Animation) Init() tea.Cmd { return m.tick() }

// Index is the frame on screen.
func (m Animation) Index() int { return m.index }

func (m Animation) Running() bool { return m.running }

func (m Animation) Theme() Theme { return m.theme }

func (m Animation) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running && len(m.frames) > 1
		case "r":
			m.index = 0
		case "[", "left", "h":
			m.running = false
			m.step(-1)
		case "]", "right", "l":
			m.running = false
			m.step(1)
		case "t":
			m.theme = m.theme.Next()
			m.styles = NewStyles(m.theme)
		case "g":
			if err := SaveGIF(m.cfg.GIFPath, m.canvases, m.theme, 100/m.cfg.FPS); err != nil {
				m.status = "gif: " + err.Error()
			} else {
				m.status = "saved " + m.cfg.GIFPath
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step(1)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Animation) step(dir int) {
	n := len(m.frames)
	if n == 0 {
		return
	}
	m.index = ((m.index+dir)%n + n) % n
}

func (m Animation) View() string {
	if len(m.frames) == 0 {
		return "no frames\n"
	}
	f := m.frames[m.index]
	st := m.styles

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.cfg.Title)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.4g s", f.T))
	row("Frame", fmt.Sprintf("%d/%d", m.index+1, len(m.frames)))
	row("Period", ProgressBar(float64(m.index)/math.Max(1, float64(len(m.frames)-1)), 16))
	row("Plane", fmt.Sprintf("%s%s @ %.3g", f.Slice.U, f.Slice.V, f.Slice.At))
	row("|F| mean", fmt.Sprintf("%.4g", m.mags[m.index]))
	if f.Clipped > 0 {
		s.WriteString(st.Label.Render("Clipped") + st.Warning.Render(fmt.Sprintf("%d", f.Clipped)) + "\n")
	}
	if f.Field != nil {
		if n := f.Field.SingularCount(); n > 0 {
			s.WriteString(st.Label.Render("Singular") + st.Warning.Render(fmt.Sprintf("%d", n)) + "\n")
		}
	}
	if len(m.mags) > 1 {
		s.WriteString("\n" + st.Spark.Render(Sparkline(m.mags, 30)) + "\n")
	}

	if len(m.paramKeys) > 0 {
		s.WriteString("\nPARAMETERS\n")
		for _, k := range m.paramKeys {
			s.WriteString("  " + st.Label.Render(fmt.Sprintf("%-18s %.4g", k, m.cfg.Params[k])) + "\n")
		}
	}
	if m.status != "" {
		s.WriteString("\n" + st.Value.Render(m.status) + "\n")
	}
	s.WriteString(st.Help.Render("SP:Pause R:Reset Q:Quit\n[ ]:Step T:Theme G:GIF ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		st.Canvas.Render(m.canvases[m.index].Render(st.Positive, st.Negative)),
		st.Panel.Render(s.String()),
	)
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space   pause / resume
  R       back to t0
  [ ]     step one frame (pauses)
  T       cycle theme
  G       save the period as a GIF
  Q       quit
`
