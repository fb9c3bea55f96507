package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/menusync/internal/config"
)

const allLocations = "all"

func newRefreshCmd() *cobra.Command {
	var (
		location string
		force    bool
		wait     bool
	)
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh one location, or every location with --location all",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := bootstrap(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			grace := time.Duration(0)
			defer func() { d.Close(grace) }()

			targets, err := selectLocations(cfg, location)
			if err != nil {
				return err
			}
			for _, loc := range targets {
				started, err := d.menus.TriggerUpdate(cmd.Context(), loc.Name, force)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: started=%t\n", loc.Name, started)
			}
			if !wait {
				return nil
			}

			d.menus.Wait()
			grace = time.Second
			for _, loc := range targets {
				st, err := d.state.Get(context.Background(), loc.Name)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%s: %s, %d items", loc.Name, st.Status, st.ItemCount())
				if st.Error != "" {
					line += ", error: " + st.Error
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "Location to refresh (default DEFAULT_LOCATION, 'all' for every location)")
	cmd.Flags().BoolVar(&force, "force", false, "Refresh even when the menu is current")
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for the run and its images to finish")
	return cmd
}

func newResetCmd() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset a location to the idle, empty state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := bootstrap(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close(0)

			targets, err := selectLocations(cfg, location)
			if err != nil {
				return err
			}
			for _, loc := range targets {
				st, err := d.menus.ResetLocation(cmd.Context(), loc.Name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", loc.Name, st.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "Location to reset ('all' for every location)")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}

func newClearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop every cached dish description and image reference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d, err := bootstrap(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close(0)

			if err := d.menus.ClearCache(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "enrichment cache cleared")
			return nil
		},
	}
}

func selectLocations(cfg *config.Config, name string) ([]config.Location, error) {
	switch name {
	case allLocations:
		return cfg.Locations, nil
	case "":
		name = cfg.DefaultLocation
	}
	loc, ok := cfg.Location(name)
	if !ok {
		return nil, fmt.Errorf("unknown location %q", name)
	}
	return []config.Location{loc}, nil
}
