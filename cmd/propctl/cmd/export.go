package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/convert"
	"github.com/msto63/propkit/pkg/properties"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <datei>",
	Short: "Datei als TOML oder YAML ausgeben",
	Long: `Konvertiert eine Properties-Datei nach TOML oder YAML. YAML behält
die Reihenfolge der Einträge, TOML sortiert die Schlüssel.

Beispiele:
  propctl export app.properties --format yaml
  propctl export app.properties --format toml -o app.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", convert.FormatYAML, "Zielformat (toml, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Zieldatei (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := openDocument(args[0], false)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		return encode(cmd.OutOrStdout(), doc, exportFormat)
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return mdwerror.Wrap(err, "failed to create output").
			WithCode(mdwerror.CodeIOError).
			WithOperation("propctl.export").
			WithDetail("path", exportOutput)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := encode(w, doc, exportFormat); err != nil {
		return err
	}
	return w.Flush()
}

func encode(w io.Writer, doc *properties.Document, format string) error {
	switch strings.ToLower(format) {
	case convert.FormatTOML:
		return convert.EncodeTOML(w, doc)
	case convert.FormatYAML, "yml":
		return convert.EncodeYAML(w, doc)
	default:
		return unknownFormat(format)
	}
}

func unknownFormat(format string) error {
	return mdwerror.New("unknown format").
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("propctl").
		WithDetail("format", format)
}
