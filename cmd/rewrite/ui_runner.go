package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"rewrite/internal/driver"
	"rewrite/internal/ui"
)

// runWithProgress runs work with a progress view on out. work gets the sink
// to pass in driver.Options; the events channel closes when it returns.
func runWithProgress(ctx context.Context, title string, files []string, out io.Writer, work func(driver.ProgressSink) error) error {
	events := make(chan driver.Event, 256)
	outcome := make(chan error, 1)

	go func() {
		err := work(driver.ChannelSink{Ch: events})
		close(events)
		outcome <- err
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// вид мог закрыться раньше времени; не даём воркерам заблокироваться
	go func() {
		for range events {
		}
	}()
	err := <-outcome
	if err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return uiErr
}
