package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var listPlain bool

var listCmd = &cobra.Command{
	Use:   "list <datei>",
	Short: "Alle Einträge einer Datei anzeigen",
	Long: `Zeigt alle Einträge einer Datei in Einfügereihenfolge.

Beispiele:
  propctl list app.properties
  propctl list app.properties --plain`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listPlain, "plain", false, "Ausgabe als schlüssel=wert ohne Formatierung")
}

func runList(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0], false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if listPlain {
		sep := string(doc.Separator())
		for _, e := range doc.Entries() {
			fmt.Fprintln(out, e.Key+sep+e.Value)
		}
		return nil
	}

	fmt.Fprintln(out, titleStyle.Render(doc.Path()))
	if doc.Len() == 0 {
		fmt.Fprintln(out, mutedStyle.Render("Keine Einträge."))
		return nil
	}

	rows := make([][]string, 0, doc.Len())
	for i, e := range doc.Entries() {
		rows = append(rows, []string{strconv.Itoa(i + 1), e.Key, e.Value})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Schlüssel", "Wert"}, rows))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d Einträge", doc.Len())))
	return nil
}
