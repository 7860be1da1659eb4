package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/convert"
	"github.com/msto63/propkit/pkg/properties"
)

var (
	importFormat   string
	importComments []string
)

var importCmd = &cobra.Command{
	Use:   "import <quelle> <ziel>",
	Short: "TOML oder YAML in eine Properties-Datei übernehmen",
	Long: `Liest eine TOML- oder YAML-Datei und schreibt sie als Properties-Datei.
Verschachtelte Tabellen werden zu Schlüsseln mit Punkten. Das Format wird
aus der Dateiendung bestimmt, sofern --format fehlt.

Beispiele:
  propctl import config.toml app.properties
  propctl import values.yml app.properties -m "Importiert aus values.yml"`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Quellformat (toml, yaml)")
	importCmd.Flags().StringArrayVarP(&importComments, "message", "m", nil, "Kommentarzeile beim Schreiben")
}

func runImport(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]

	format := importFormat
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(src)), ".")
	}

	f, err := os.Open(src)
	if err != nil {
		code := mdwerror.CodeIOError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return mdwerror.Wrap(err, "failed to open source").
			WithCode(code).
			WithOperation("propctl.import").
			WithDetail("path", src)
	}
	defer f.Close()

	var doc *properties.Document
	switch format {
	case convert.FormatTOML:
		doc, err = convert.DecodeTOML(f, documentOptions()...)
	case convert.FormatYAML, "yml":
		doc, err = convert.DecodeYAML(f, documentOptions()...)
	default:
		return unknownFormat(format)
	}
	if err != nil {
		return err
	}

	opts, err := writeOptions(importComments)
	if err != nil {
		return err
	}
	if err := doc.Write(dst, opts...); err != nil {
		return err
	}
	logger.Info("imported", "source", src, "target", dst, "entries", doc.Len())
	return nil
}
