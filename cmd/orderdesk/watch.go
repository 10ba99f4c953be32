package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/polkiloo/orderdesk/internal/adapter/dashboard"
	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/feed"
	"github.com/polkiloo/orderdesk/internal/logger"
	"github.com/polkiloo/orderdesk/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:                "watch [flags]",
	Short:              "Follow active orders in the terminal",
	Long:               "watch polls the dashboard API for active orders, raises an alert on new arrivals and lets staff commit status changes.",
	DisableFlagParsing: true,
	RunE:               runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadClient(args)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.NewQuiet(cfg)

	client, err := dashboard.NewClient(cfg.Feed.DashboardURL, cfg.Feed.Token, cfg.ExternalTimeout, log)
	if err != nil {
		return fmt.Errorf("dashboard client: %w", err)
	}

	f := feed.New(client, cfg.Feed.AlertDuration, log)
	model := tui.NewModel(f, cfg.Feed.PollInterval, cfg.Feed.AlertDuration)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run feed: %w", err)
	}
	return nil
}
