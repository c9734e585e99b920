package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"hirlower/internal/buildpipeline"
	"hirlower/internal/ui"
)

// runWithUI drives the pipeline in the background and renders its events
// until the run finishes or the user interrupts the view.
func runWithUI(ctx context.Context, title string, req *buildpipeline.Request) (buildpipeline.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	piped := *req
	piped.Progress = buildpipeline.ChannelSink{Ch: events}

	var (
		res buildpipeline.Result
		g   errgroup.Group
	)
	g.Go(func() error {
		defer close(events)
		var err error
		res, err = buildpipeline.Run(ctx, &piped)
		return err
	})

	_, uiErr := tea.NewProgram(ui.NewProgressModel(title, req.Paths, events), tea.WithOutput(os.Stderr)).Run()
	// после ctrl+c модель больше не читает канал
	go func() {
		for range events {
		}
	}()
	runErr := g.Wait()
	if uiErr != nil {
		return res, uiErr
	}
	return res, runErr
}
