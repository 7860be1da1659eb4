package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
)

var getDefault string

var getCmd = &cobra.Command{
	Use:   "get <datei> <schlüssel>",
	Short: "Wert eines Schlüssels ausgeben",
	Long: `Gibt den Wert eines Schlüssels aus.

Beispiele:
  propctl get app.properties server.port
  propctl get app.properties timeout --default 30`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVar(&getDefault, "default", "", "Ausgabe, falls der Schlüssel fehlt")
}

func runGet(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0], false)
	if err != nil {
		return err
	}

	value, ok := doc.Lookup(args[1])
	if !ok {
		if cmd.Flags().Changed("default") {
			value = getDefault
		} else {
			return mdwerror.New("key not found").
				WithCode(mdwerror.CodeKeyNotFound).
				WithOperation("propctl.get").
				WithDetail("key", args[1])
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}
