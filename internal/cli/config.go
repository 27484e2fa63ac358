package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/config"
	"github.com/Makepad-fr/shoplist/internal/ui"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the backend settings",
	}
	cmd.AddCommand(a.configSetCmd(), a.configShowCmd(), a.configClearCmd())
	return cmd
}

func (a *app) configSetCmd() *cobra.Command {
	var cfg config.Config
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the table URL and API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := config.Save(s.store, cfg); err != nil {
				return err
			}
			s.log.Info("config saved", zap.String("table_url", cfg.Normalized().TableURL))
			ui.OK(cmd.OutOrStdout(), "saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.TableURL, "url", "", "table records endpoint, e.g. https://app.nocodb.com/api/v2/tables/<id>/records")
	cmd.Flags().StringVar(&cfg.Token, "token", "", "API token (sent as xc-token)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func (a *app) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings (token masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			w := cmd.OutOrStdout()
			if s.cfg == nil {
				fmt.Fprintln(w, "not configured")
				return nil
			}
			fmt.Fprintf(w, "table url: %s\n", s.cfg.TableURL)
			fmt.Fprintf(w, "token:     %s\n", s.cfg.MaskedToken())
			fmt.Fprintf(w, "source:    %s\n", s.cfg.Source)
			return nil
		},
	}
}

func (a *app) configClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := config.Clear(s.store); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "cleared")
			return nil
		},
	}
}
