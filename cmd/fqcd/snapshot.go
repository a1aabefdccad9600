package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/fi-verse/internal/export"
	"github.com/talgya/fi-verse/internal/persistence"
)

func snapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, list, show and delete evaluated snapshots",
	}
	cmd.AddCommand(snapshotSaveCmd(a))
	cmd.AddCommand(snapshotListCmd(a))
	cmd.AddCommand(snapshotShowCmd(a))
	cmd.AddCommand(snapshotDeleteCmd(a))
	return cmd
}

// withDB opens the configured store for the duration of fn.
func (a *app) withDB(fn func(*persistence.DB) error) error {
	db, err := openDB(a.cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func snapshotSaveCmd(a *app) *cobra.Command {
	var (
		label string
		zMax  float64
		step  float64
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Evaluate the calculator and store the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := persistence.Capture(a.calc, label, zMax, step)
			if err != nil {
				return err
			}
			return a.withDB(func(db *persistence.DB) error {
				if err := db.SaveSnapshot(cmd.Context(), snap); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "snapshot label")
	cmd.Flags().Float64Var(&zMax, "zmax", 3, "largest redshift of the stored Hubble series")
	cmd.Flags().Float64Var(&step, "step", 0.1, "redshift step of the stored Hubble series")
	return cmd
}

func snapshotListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}
			return a.withDB(func(db *persistence.DB) error {
				list, err := db.ListSnapshots(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return a.emit(cmd.OutOrStdout(), list, func(w io.Writer) {
					if len(list) == 0 {
						fmt.Fprintln(w, "no snapshots")
						return
					}
					for _, s := range list {
						fmt.Fprintf(w, "%s  %-16s  %-20s  Ω_m %.5f  %d curve / %d hubble points\n",
							s.ID, humanize.Time(s.CreatedAt), s.Label, s.OmegaM, s.CurvePoints, s.HubblePoints)
					}
				})
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of snapshots")
	return cmd
}

func snapshotShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse snapshot id: %w", err)
			}
			return a.withDB(func(db *persistence.DB) error {
				snap, err := db.LoadSnapshot(cmd.Context(), id)
				if err != nil {
					return err
				}
				if a.format == "text" {
					// A snapshot nests series; YAML is its readable form.
					return export.Write(cmd.OutOrStdout(), export.YAML, snap)
				}
				return a.emit(cmd.OutOrStdout(), snap, nil)
			})
		},
	}
}

func snapshotDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse snapshot id: %w", err)
			}
			return a.withDB(func(db *persistence.DB) error {
				err := db.DeleteSnapshot(cmd.Context(), id)
				if errors.Is(err, persistence.ErrNotFound) {
					return fmt.Errorf("no snapshot %s", id)
				}
				return err
			})
		},
	}
}
