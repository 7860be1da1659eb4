package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/msto63/propkit/pkg/registry"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [verzeichnis]...",
	Short: "Verzeichnisse überwachen und neu laden",
	Long: `Lädt die Verzeichnisse in eine Registry und hält sie bei Änderungen
aktuell. Beenden mit Ctrl+C.

Beispiele:
  propctl watch ./i18n
  propctl watch ./i18n --debounce 1s`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Ruhezeit vor dem Neuladen (default: watch.debounce)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	r := newRegistry()
	if err := loadDirectories(r, args); err != nil {
		return err
	}
	printRegistry(cmd, r)

	debounce := cfg.Watch.Debounce.Duration
	if watchDebounce > 0 {
		debounce = watchDebounce
	}

	out := cmd.OutOrStdout()
	w := registry.NewWatcher(r,
		registry.WithDebounce(debounce),
		registry.WithWatchLogger(logger),
		registry.OnChange(func(path string, op fsnotify.Op) {
			fmt.Fprintf(out, "%s %s %s\n",
				mutedStyle.Render(time.Now().Format("15:04:05")),
				currentStyle.Render(op.String()),
				path)
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	<-sigCh
	fmt.Fprintln(out, mutedStyle.Render("Beendet."))
	return nil
}
