package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/nocodb"
	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/ui"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add an item (the title may span several words and carry #tags)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("add: empty title")
			}
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			c, err := s.client()
			if err != nil {
				return err
			}
			if err := c.Create(cmd.Context(), nocodb.Fields{
				model.FieldTitle:  title,
				model.FieldIsDone: false,
			}); err != nil {
				s.log.Error("create failed", zap.String("title", title), zap.Error(err))
				return err
			}
			ui.OK(cmd.OutOrStdout(), "added "+shoplist.StripTags(title))
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle an item between done and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			c, err := s.client()
			if err != nil {
				return err
			}
			items, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			ctrl := shoplist.NewController()
			ctrl.ApplySnapshot(items)
			id := model.ParseID(args[0])
			it, ok := ctrl.Find(id)
			if !ok {
				return fmt.Errorf("no item with id %s (run `shoplist ls` to see ids)", args[0])
			}
			if err := c.Update(cmd.Context(), id, nocodb.Fields{model.FieldIsDone: !it.IsDone}); err != nil {
				s.log.Error("update failed", zap.Stringer("id", id), zap.Error(err))
				return err
			}
			state := "done"
			if it.IsDone {
				state = "pending"
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s: %s", shoplist.StripTags(it.Title), state))
			return nil
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.Close()
			c, err := s.client()
			if err != nil {
				return err
			}
			id := model.ParseID(args[0])
			if err := c.Delete(cmd.Context(), id); err != nil {
				s.log.Error("delete failed", zap.Stringer("id", id), zap.Error(err))
				return err
			}
			ui.OK(cmd.OutOrStdout(), "removed "+id.String())
			return nil
		},
	}
}
