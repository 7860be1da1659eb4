package cmd

import (
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <datei> <schlüssel>...",
	Short: "Schlüssel entfernen",
	Long: `Entfernt einen oder mehrere Schlüssel. Fehlt ein Schlüssel, bleibt
die Datei unverändert.

Beispiele:
  propctl rm app.properties debug
  propctl rm app.properties old.host old.port`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0], false)
	if err != nil {
		return err
	}

	for _, key := range args[1:] {
		if _, err := doc.Remove(key); err != nil {
			return err
		}
	}

	opts, err := writeOptions(nil)
	if err != nil {
		return err
	}
	return doc.Write(args[0], opts...)
}
