package ui

import tea "github.com/charmbracelet/bubbletea"

// TUI wraps our Bubble Tea program.
type TUI struct {
	program *tea.Program
}

// New builds the program for model. Extra options are appended after the alt screen.
func New(model Model, opts ...tea.ProgramOption) *TUI {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &TUI{program: tea.NewProgram(model, opts...)}
}

// Send delivers msg to the running program. Safe from any goroutine.
func (t *TUI) Send(msg tea.Msg) {
	t.program.Send(msg)
}

// Start runs the TUI main loop until the user quits.
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Quit asks the program to exit.
func (t *TUI) Quit() {
	t.program.Quit()
}
