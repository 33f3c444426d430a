package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Spinner animates a single provisioning step whose duration is unknown.
// Plain output prints "label..." when the step starts and the outcome when
// it ends.
type Spinner struct {
	ui    *UI
	label string
	kind  spinner.Spinner
	start time.Time

	once sync.Once
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a spinner for label. Call Start, then Success or Error.
func (u *UI) NewSpinner(label string) *Spinner {
	return &Spinner{
		ui:    u,
		label: label,
		kind:  spinner.Dot,
		stop:  make(chan struct{}),
	}
}

// Start prints the label and begins animating it on a terminal
func (s *Spinner) Start() {
	s.start = time.Now()
	if !s.ui.shouldStyle() {
		fmt.Fprintf(s.ui.Out, "%s...", s.label)
		return
	}

	s.wg.Add(1)
	go s.animate()
}

func (s *Spinner) animate() {
	defer s.wg.Done()

	frameStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	ticker := time.NewTicker(s.kind.FPS)
	defer ticker.Stop()

	for frame := 0; ; frame = (frame + 1) % len(s.kind.Frames) {
		fmt.Fprintf(s.ui.Out, "\r%s %s... %s",
			frameStyle.Render(s.kind.Frames[frame]),
			s.label,
			StyleMuted.Render(FormatDuration(time.Since(s.start))),
		)
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

// halt ends the animation; safe to call more than once
func (s *Spinner) halt() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// Success ends the step with msg
func (s *Spinner) Success(msg string) {
	s.finish(SymbolSuccess, StyleSuccess, lipgloss.NewStyle(), msg)
}

// Error ends the step with msg highlighted as a failure
func (s *Spinner) Error(msg string) {
	s.finish(SymbolError, StyleError, StyleError, msg)
}

func (s *Spinner) finish(symbol string, symbolStyle, msgStyle lipgloss.Style, msg string) {
	s.halt()

	if !s.ui.shouldStyle() {
		fmt.Fprintf(s.ui.Out, " %s\n", msg)
		return
	}
	fmt.Fprintf(s.ui.Out, "\r\033[K%s %s... %s %s\n",
		symbolStyle.Render(symbol),
		s.label,
		msgStyle.Render(msg),
		StyleMuted.Render("("+FormatDuration(time.Since(s.start))+")"),
	)
}

// Step runs fn under a spinner. fn returns the success message; on error
// the spinner shows "failed" and the error is returned unchanged.
func (u *UI) Step(label string, fn func() (string, error)) error {
	s := u.NewSpinner(label)
	s.Start()

	msg, err := fn()
	if err != nil {
		s.Error("failed")
		return err
	}
	s.Success(msg)
	return nil
}
