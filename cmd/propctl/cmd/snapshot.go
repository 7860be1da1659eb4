package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	mdwlog "github.com/msto63/propkit/foundation/core/log"
	"github.com/msto63/propkit/pkg/properties"
	"github.com/msto63/propkit/pkg/store"
)

var (
	snapshotName string
	snapshotTo   string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Stände von Properties-Dateien sichern",
	Long: `Sichert Properties-Dateien in der Snapshot-Datenbank (store.type,
store.path) und stellt sie wieder her.

Beispiele:
  propctl snapshot save app.properties db.properties
  propctl snapshot list app
  propctl snapshot restore 3f2a... --to app.properties`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <datei>...",
	Short: "Dateien sichern",
	Long: `Sichert jede Datei unter ihrem Namen ohne Endung, oder unter --name
wenn genau eine Datei angegeben ist.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "Gesicherte Stände anzeigen",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshotList,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Gesicherten Stand zurückschreiben",
	Long: `Schreibt einen gesicherten Stand in die ursprüngliche Datei, oder in
die mit --to angegebene.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshotRestore,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Gesicherten Stand löschen",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)

	snapshotSaveCmd.Flags().StringVar(&snapshotName, "name", "", "Name des Snapshots (nur bei einer Datei)")
	snapshotRestoreCmd.Flags().StringVar(&snapshotTo, "to", "", "Zieldatei (default: ursprüngliche Datei)")
}

func openStore() (store.Store, error) {
	return store.Open(cfg.Store.Type, cfg.Store.Path)
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	if snapshotName != "" && len(args) > 1 {
		return mdwerror.New("--name requires exactly one file").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("propctl.snapshot.save")
	}

	r := newRegistry()
	for _, path := range args {
		doc, err := openDocument(path, false)
		if err != nil {
			return err
		}
		name := snapshotName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		if _, err := r.Add(doc, name); err != nil {
			return err
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	saved, err := store.SnapshotAll(context.Background(), s, r)
	for _, snap := range saved {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%d Einträge)\n", snap.ID, snap.Name, len(snap.Entries))
	}
	return err
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	snaps, err := s.List(context.Background(), name)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(snaps) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("Keine Snapshots."))
		return nil
	}

	rows := make([][]string, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, []string{
			snap.ID.String(),
			snap.Name,
			snap.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprint(len(snap.Entries)),
			snap.Path,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Erstellt", "Einträge", "Datei"}, rows))
	return nil
}

func runSnapshotRestore(cmd *cobra.Command, args []string) error {
	id, err := parseSnapshotID(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Get(context.Background(), id)
	if err != nil {
		return err
	}

	target := snapshotTo
	if target == "" {
		target = snap.Path
	}
	if target == "" {
		return mdwerror.New("snapshot has no source file, use --to").
			WithCode(mdwerror.CodeNoSourceBound).
			WithOperation("propctl.snapshot.restore").
			WithDetail("id", id.String())
	}

	opts, err := writeOptions([]string{fmt.Sprintf("restored from snapshot %s", snap.ID)})
	if err != nil {
		return err
	}
	doc := snap.Document(properties.WithLogger(logger))
	if err := doc.Write(target, opts...); err != nil {
		return err
	}
	logger.Audit("snapshot restored", mdwlog.Fields{
		"id":      snap.ID.String(),
		"name":    snap.Name,
		"target":  target,
		"entries": doc.Len(),
	})
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", snap.ID, target)
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	id, err := parseSnapshotID(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Delete(context.Background(), id)
}

func parseSnapshotID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, mdwerror.Wrap(err, "invalid snapshot id").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("propctl.snapshot").
			WithDetail("id", s)
	}
	return id, nil
}
