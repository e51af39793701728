package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sac/internal/config"
	"sac/internal/tui"
)

// RootOptions holds global flags shared by every command.
type RootOptions struct {
	ProjectDir string
}

// NewRootCommand creates the root command for the sac CLI. Running it
// without a subcommand opens the transcription TUI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sac",
		Short: "S.A.C. - Sistema de Avaliação Curricular",
		Long: `Mesa de transcrição dos questionários de autoavaliação do PET-DEQ.

O sac transcreve questionários respondidos em papel para uma base CSV
compatível com planilhas, com tela de correção e painel de estatísticas.
Sem subcomando, abre a interface de transcrição no terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ProjectDir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("cli: resolving working directory: %w", err)
				}
				opts.ProjectDir = cwd
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ProjectDir, "project", "C", "", "project directory (default: current directory)")

	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func runTUI(opts *RootOptions) error {
	if err := config.InitSacDir(opts.ProjectDir); err != nil {
		return fmt.Errorf("cli: initializing .sac directory: %w", err)
	}
	app, err := tui.NewApp(opts.ProjectDir)
	if err != nil {
		return fmt.Errorf("cli: starting application: %w", err)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("cli: running TUI: %w", err)
	}
	return nil
}
