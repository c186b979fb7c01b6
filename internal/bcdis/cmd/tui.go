package cmd

import (
	"fmt"
	"io"
	"os"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"bcdis/internal/bcdis/styles"
	"bcdis/internal/disasm"
	"bcdis/internal/ui/colorize"
)

type viewMode int

const (
	viewSummary viewMode = iota
	viewTrace
	viewRegisters
)

// registerItem is one tracked register file slot for the registers list
type registerItem struct {
	reg   int
	value string
}

func (i registerItem) Title() string {
	return fmt.Sprintf("reg%d  %s", i.reg, i.value)
}

func (i registerItem) Description() string { return "" }

func (i registerItem) FilterValue() string {
	return fmt.Sprintf("reg%d %s", i.reg, i.value)
}

// Custom item delegate for the registers list
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(registerItem)
	if !ok {
		return
	}

	var regStyle lipgloss.Style
	var indicator string

	if index == m.Index() {
		// Selected item
		indicator = ">"
		regStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")) // Purple for selected register
	} else {
		// Normal item
		indicator = " "
		regStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Gray for normal register
	}

	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // Orange for tracked values

	str := fmt.Sprintf(" %s  %s  %s",
		indicator,
		regStyle.Render(fmt.Sprintf("reg%d", i.reg)),
		valueStyle.Render(i.value))

	fmt.Fprint(w, str)
}

type model struct {
	viewport      viewport.Model
	registersList list.Model
	spinner       spinner.Model
	mode          viewMode
	filepath      string
	digest        string
	size          int
	traceLen      int
	traceLines    string
	registerCount int
	decodeErr     string
	loadingTrace  bool
	width         int
	height        int
}

// Message types
type captureLoadedMsg struct {
	cap *capture
	err error
}

type traceMsg struct {
	lines     []string
	registers []registerItem
	err       error
}

// Commands
func loadCaptureCmd(filepath string) tea.Cmd {
	return func() tea.Msg {
		cap, err := loadCapture(filepath)
		return captureLoadedMsg{cap: cap, err: err}
	}
}

func disassembleCmd(data []byte) tea.Cmd {
	return func() tea.Msg {
		d := disasm.New(data)
		err := d.Run()

		trace := d.Trace()
		lines := make([]string, 0, len(trace))
		for _, in := range trace {
			lines = append(lines, colorize.TraceLine(in.String()))
		}

		var registers []registerItem
		regs := d.Registers()
		for reg := 0; reg < 256; reg++ {
			if regs.Known(byte(reg)) {
				registers = append(registers, registerItem{
					reg:   reg,
					value: regs.Resolve(byte(reg)),
				})
			}
		}

		return traceMsg{lines: lines, registers: registers, err: err}
	}
}

func NewModel(filepath string) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	// Create custom item delegate
	delegate := itemDelegate{}

	registersList := list.New([]list.Item{}, delegate, 80, 24)
	registersList.SetShowStatusBar(false)
	registersList.SetFilteringEnabled(true)
	registersList.Title = "Registers"
	registersList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	registersList.SetShowHelp(true)

	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	m := model{
		viewport:      vp,
		registersList: registersList,
		spinner:       s,
		mode:          viewSummary,
		filepath:      filepath,
		loadingTrace:  true,
		width:         80,
		height:        24,
	}

	// Set initial content
	m.updateContent()

	return m
}

func (m model) Init() tea.Cmd {
	// Start loading the capture and the spinner
	return tea.Batch(
		loadCaptureCmd(m.filepath),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case captureLoadedMsg:
		if msg.err != nil {
			m.decodeErr = msg.err.Error()
			m.loadingTrace = false
			m.updateContent()
			return m, nil
		}
		m.digest = msg.cap.digest
		m.size = len(msg.cap.data)
		m.updateContent()
		// The capture decoded; disassemble it in the background
		return m, disassembleCmd(msg.cap.data)

	case traceMsg:
		m.traceLen = len(msg.lines)
		m.traceLines = strings.Join(msg.lines, "\n")
		m.registerCount = len(msg.registers)
		if msg.err != nil {
			m.decodeErr = msg.err.Error()
		}
		m.loadingTrace = false
		m.updateRegistersList(msg.registers)
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// Only continue spinner while loading
		if m.loadingTrace {
			m.updateContent()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(msg.Height - 2)
			m.registersList.SetWidth(msg.Width)
			m.registersList.SetHeight(msg.Height - 2)

			m.updateContent()
		}

	case tea.KeyMsg:
		// If we're in registers view and the list is filtering, let it
		// handle the keys first
		if m.mode == viewRegisters && m.registersList.FilterState() == list.Filtering {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc":
				// Let the list handle ESC to exit filtering
				break
			default:
				// Pass all other keys to the list when filtering
				break
			}
		} else {
			// Normal key handling when not filtering
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "s":
				m.mode = viewSummary
				m.updateContent()
				return m, nil
			case "t":
				if m.traceLen > 0 {
					m.mode = viewTrace
					m.updateContent()
				}
				return m, nil
			case "r":
				if m.registerCount > 0 {
					m.mode = viewRegisters
				}
				return m, nil
			case "tab":
				// Cycle forward through views
				switch m.mode {
				case viewSummary:
					if m.traceLen > 0 {
						m.mode = viewTrace
						m.updateContent()
					}
				case viewTrace:
					if m.registerCount > 0 {
						m.mode = viewRegisters
					} else {
						m.mode = viewSummary
						m.updateContent()
					}
				case viewRegisters:
					m.mode = viewSummary
					m.updateContent()
				}
				return m, nil
			case "shift+tab":
				// Cycle backward through views
				switch m.mode {
				case viewSummary:
					if m.registerCount > 0 {
						m.mode = viewRegisters
					} else if m.traceLen > 0 {
						m.mode = viewTrace
						m.updateContent()
					}
				case viewTrace:
					m.mode = viewSummary
					m.updateContent()
				case viewRegisters:
					if m.traceLen > 0 {
						m.mode = viewTrace
						m.updateContent()
					} else {
						m.mode = viewSummary
						m.updateContent()
					}
				}
				return m, nil
			}
		}
	}

	// Update the active view
	switch m.mode {
	case viewRegisters:
		m.registersList, cmd = m.registersList.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewRegisters:
		content = m.registersList.View()
	default:
		content = m.viewport.View()
	}

	// Add menu bar at the bottom
	var menu string
	switch m.mode {
	case viewTrace:
		menu = " S: summary • R: registers • Tab: cycle • Q: quit "
	case viewRegisters:
		menu = " S: summary • T: trace • Tab: cycle • Q: quit "
	default: // viewSummary
		if m.traceLen > 0 {
			menu = " T: trace • R: registers • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}

	// Style the menu bar
	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m *model) updateContent() {
	if m.mode == viewTrace {
		m.viewport.SetContent(m.traceLines)
		return
	}

	// Get relative path from current directory
	relPath := m.filepath
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, m.filepath); err == nil {
			relPath = rel
		}
	}

	// Create markdown content
	var lines []string

	dir := pathpkg.Dir(relPath)
	base := pathpkg.Base(relPath)

	if dir != "." {
		lines = append(lines, fmt.Sprintf("; %s/", dir))
	}
	lines = append(lines, fmt.Sprintf("; %s (capture)", base))

	if m.digest != "" {
		lines = append(lines, fmt.Sprintf("; %s", m.digest))
	}
	if m.size > 0 {
		lines = append(lines, fmt.Sprintf("; %d bytecode bytes", m.size))
	}
	if m.traceLen > 0 {
		lines = append(lines, fmt.Sprintf("; %d instructions", m.traceLen))
	}
	if m.registerCount > 0 {
		lines = append(lines, fmt.Sprintf("; %d tracked registers", m.registerCount))
	}

	markdown := fmt.Sprintf("# Bcdis\n\n```\n%s\n```", strings.Join(lines, "\n"))

	if m.decodeErr != "" {
		markdown += "\n\n## Decode Error\n\n"
		markdown += m.decodeErr
	}

	// Add loading spinner after the code block if needed
	if m.loadingTrace {
		markdown += fmt.Sprintf("\n\n%s Disassembling...", m.spinner.View())
	}

	// Render markdown using glamour
	width := m.width
	if width == 0 {
		width = 80
	}
	renderer := styles.GetMarkdownRenderer(width - 2)
	rendered, _ := renderer.Render(markdown)
	m.viewport.SetContent(strings.TrimSuffix(rendered, "\n"))
}

func (m *model) updateRegistersList(registers []registerItem) {
	items := make([]list.Item, 0, len(registers))
	for _, r := range registers {
		items = append(items, r)
	}
	m.registersList.SetItems(items)
	m.registersList.Title = fmt.Sprintf("Registers (%d tracked)", len(registers))
}
