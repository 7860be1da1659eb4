package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/registry"
)

var dirSelect string

var dirCmd = &cobra.Command{
	Use:   "dir [verzeichnis]...",
	Short: "Verzeichnisse in eine Registry laden",
	Long: `Lädt alle Properties-Dateien der Verzeichnisse in eine Registry und
zeigt die vergebenen Namen. Ohne Argumente werden die Verzeichnisse aus
der Konfiguration (directories.paths) geladen.

Beispiele:
  propctl dir ./i18n
  propctl dir ./i18n ./overrides --select prop2`,
	RunE: runDir,
}

func init() {
	rootCmd.AddCommand(dirCmd)

	dirCmd.Flags().StringVar(&dirSelect, "select", "", "Dokument nach dem Laden auswählen")
}

// newRegistry builds a registry with the configured document options
func newRegistry() *registry.Registry {
	return registry.New(
		registry.WithLogger(logger),
		registry.WithExtension(cfg.Directories.Extension),
		registry.WithDocumentOptions(documentOptions()...),
	)
}

// loadDirectories tracks dirs in r. The first directory replaces the
// registry contents; load failures of single files are reported but do not
// abort.
func loadDirectories(r *registry.Registry, dirs []string) error {
	if len(dirs) == 0 {
		dirs = cfg.Directories.Paths
	}
	if len(dirs) == 0 {
		return mdwerror.New("no directory given and directories.paths is empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("propctl.dir")
	}

	var fileErrs []error
	for i, dir := range dirs {
		var err error
		if i == 0 {
			err = r.SetDirectory(dir)
		} else {
			err = r.AddDirectory(dir, "")
		}
		if mdwerror.HasCode(err, mdwerror.CodeMalformedLine) {
			fileErrs = append(fileErrs, err)
			continue
		}
		if err != nil {
			return err
		}
	}
	for _, err := range fileErrs {
		logger.Warn("file skipped", "error", err.Error())
	}
	return nil
}

func runDir(cmd *cobra.Command, args []string) error {
	r := newRegistry()
	if err := loadDirectories(r, args); err != nil {
		return err
	}
	if dirSelect != "" {
		if err := r.Select(registry.ByName(dirSelect)); err != nil {
			return err
		}
	}
	printRegistry(cmd, r)
	return nil
}

func printRegistry(cmd *cobra.Command, r *registry.Registry) {
	out := cmd.OutOrStdout()

	for _, info := range r.Directories() {
		fmt.Fprintln(out, titleStyle.Render(info.Name), mutedStyle.Render(info.Path))
	}

	docs := r.Documents()
	rows := make([][]string, 0, len(docs))
	for i, name := range r.Names() {
		marker := " "
		if name == r.CurrentName() {
			marker = currentStyle.Render("*")
		}
		rows = append(rows, []string{marker, name, filepath.Base(docs[i].Path()), fmt.Sprint(docs[i].Len())})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("Keine Dokumente."))
		return
	}
	fmt.Fprintln(out, renderTable([]string{"", "Name", "Datei", "Einträge"}, rows))
}
