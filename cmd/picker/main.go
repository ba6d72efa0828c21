// Picker collects movie preferences in the terminal.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Conceptual-Machines/moviepicks/internal/catalog"
	"github.com/Conceptual-Machines/moviepicks/internal/logger"
	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
	"github.com/Conceptual-Machines/moviepicks/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		catalogPath string
		asJSON      bool
		logFile     string
	)

	cmd := &cobra.Command{
		Use:   "picker",
		Short: "Pick genres, a mood and keywords for movie recommendations",
		Long: `Picker asks for up to five genres, a mood and some keywords, then prints
the submitted preferences.

Navigation:
  j/k       Move between genres
  space     Toggle genre
  tab       Next field
  ctrl+s    Submit
  esc       Quit`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			genres, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}

			// Log lines would corrupt the terminal UI
			if logFile != "" {
				f, err := tea.LogToFile(logFile, "picker")
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
			} else {
				log.SetOutput(io.Discard)
			}

			var result *preferences.SessionPreferences
			start := time.Now()
			model := tui.New(genres.Names(), func(p preferences.SessionPreferences) {
				result = &p
				logger.LogSubmission(cmd.Context(), "terminal", len(p.Genres), time.Since(start), logger.Fields{
					"genres": p.Genres,
				})
			}, tui.WithQuitOnSubmit())

			if _, err := tea.NewProgram(model).Run(); err != nil {
				return fmt.Errorf("terminal UI failed: %w", err)
			}

			if result == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "No preferences submitted")
				return nil
			}
			return printPreferences(cmd.OutOrStdout(), *result, asJSON)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a JSON genre catalog (defaults to the built-in list)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the submitted preferences as JSON")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the UI runs")

	return cmd
}

func printPreferences(w io.Writer, p preferences.SessionPreferences, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	genres := "(any)"
	if len(p.Genres) > 0 {
		genres = strings.Join(p.Genres, ", ")
	}
	_, err := fmt.Fprintf(w, "Genres:   %s\nMood:     %s\nKeywords: %s\n", genres, p.Mood, p.Keywords)
	return err
}
