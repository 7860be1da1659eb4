package cmd

import (
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/properties"
)

var (
	setExisting bool
	setComments []string
)

var setCmd = &cobra.Command{
	Use:   "set <datei> <schlüssel> <wert>",
	Short: "Schlüssel setzen",
	Long: `Setzt einen Schlüssel und schreibt die Datei zurück. Fehlt die Datei,
wird sie angelegt.

Beispiele:
  propctl set app.properties server.port 9090
  propctl set app.properties timeout 60 --existing
  propctl set app.properties debug true -m "Geändert per propctl"`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().BoolVar(&setExisting, "existing", false, "Nur vorhandene Schlüssel ändern")
	setCmd.Flags().StringArrayVarP(&setComments, "message", "m", nil, "Kommentarzeile beim Schreiben")
}

func runSet(cmd *cobra.Command, args []string) error {
	path, key, value := args[0], args[1], args[2]

	if err := properties.CheckEntry(key, value, cfg.SeparatorRune(), cfg.CommentRune()); err != nil {
		return mdwerror.Wrap(err, "invalid entry").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("propctl.set")
	}

	doc, err := openDocument(path, !setExisting)
	if err != nil {
		return err
	}

	if !doc.Replace(key, value, !setExisting) {
		return mdwerror.New("key not found").
			WithCode(mdwerror.CodeKeyNotFound).
			WithOperation("propctl.set").
			WithDetail("key", key)
	}

	opts, err := writeOptions(setComments)
	if err != nil {
		return err
	}
	return doc.Write(path, opts...)
}
