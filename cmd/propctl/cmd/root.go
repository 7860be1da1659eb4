package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/config"
	"github.com/msto63/propkit/pkg/logging"
	"github.com/msto63/propkit/pkg/properties"
)

var (
	cfgFile     string
	verbose     bool
	separator   string
	commentMark string

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "propctl",
	Short: "propkit - Properties-Dateien lesen und verwalten",
	Long: `propctl liest, bearbeitet und verwaltet .properties-Dateien.

Befehle:
  get, set, rm   - Einzelne Schlüssel lesen und ändern
  list           - Alle Einträge einer Datei anzeigen
  dir            - Verzeichnisse in eine Registry laden
  export/import  - Konvertierung von und nach TOML/YAML
  snapshot       - Stände sichern und wiederherstellen
  watch          - Verzeichnisse überwachen und neu laden`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("propctl", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $PROPKIT_CONFIG oder ./configs/propkit.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
	rootCmd.PersistentFlags().StringVar(&separator, "sep", "", "Trennzeichen zwischen Schlüssel und Wert (default: =)")
	rootCmd.PersistentFlags().StringVar(&commentMark, "comment", "", "Kommentarzeichen (default: #)")
}

// setup loads the configuration and applies flag overrides
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("sep") {
		loaded.Format.Separator = separator
	}
	if cmd.Flags().Changed("comment") {
		loaded.Format.Comment = commentMark
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	level := cfg.General.LogLevel
	if verbose {
		level = "debug"
	}
	logger = logging.Wrap(logging.NewLogger(logging.LoggerConfig{
		ServiceName: cfg.General.Name,
		Level:       level,
		Format:      cfg.General.LogFormat,
		Output:      os.Stderr,
	}), "propctl")
	return nil
}

// loadConfig falls back to defaults when no config file exists
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	loaded, err := config.LoadFromEnv()
	if mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		return config.Default(), nil
	}
	return loaded, err
}

func documentOptions() []properties.Option {
	return []properties.Option{
		properties.WithSeparator(cfg.SeparatorRune()),
		properties.WithComment(cfg.CommentRune()),
		properties.WithLogger(logger),
	}
}

func writeOptions(comments []string) ([]properties.WriteOption, error) {
	pos, err := properties.ParsePosition(cfg.Format.CommentsPosition)
	if err != nil {
		return nil, err
	}
	return []properties.WriteOption{
		properties.WithComments(comments...),
		properties.AtPosition(pos),
	}, nil
}

// openDocument loads path, or returns an empty document bound to nothing
// when create is set and the file does not exist
func openDocument(path string, create bool) (*properties.Document, error) {
	doc, err := properties.Open(path, documentOptions()...)
	if err != nil {
		if create && mdwerror.HasCode(err, mdwerror.CodeNotFound) {
			return properties.New(documentOptions()...), nil
		}
		return nil, err
	}
	return doc, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s %s: %v\n", errorStyle.Render("Fehler:"), msg, err)
}
