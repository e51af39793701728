package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sac/internal/config"
	"sac/internal/schema"
	"sac/internal/stats"
	"sac/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Semester string
	Query    string
	Output   string
}

// NewExportCommand creates the export command: a filtered copy of the
// base, written with the same BOM and quoting as the main file so it
// opens cleanly in spreadsheets.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta um recorte da base para CSV",
		Long: `Grava um CSV com os registros que casam com os filtros.
Sem filtros, exporta a base inteira. O destino padrão fica em
.sac/exports/ com o carimbo da data.

Exemplo:
  sac export --semester "3º Semestre"
  sac export --query maria -o ./recorte.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Semester, "semester", "", "filtra por semestre (valor exato da coluna)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "filtra por trecho do nome do discente")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "arquivo de destino (default: .sac/exports/)")

	return cmd
}

func runExport(opts *ExportOptions, out io.Writer) error {
	cfg, err := config.NewConfig(opts.ProjectDir)
	if err != nil {
		return err
	}
	if err := config.InitSacDir(opts.ProjectDir); err != nil {
		return err
	}
	source := store.New(cfg.DatabasePath(), nil)
	table, err := source.ReadAll()
	if err != nil {
		return err
	}
	if opts.Semester != "" {
		table = stats.FilterEqual(table, schema.ColSemester, opts.Semester)
	}
	if opts.Query != "" {
		table = stats.FilterContains(table, schema.ColName, opts.Query)
	}
	if table.Empty() {
		return fmt.Errorf("export: nenhum registro casa com os filtros")
	}

	target := strings.TrimSpace(opts.Output)
	if target == "" {
		stamp := time.Now().In(schema.Location()).Format("2006-01-02_150405")
		target = filepath.Join(cfg.ExportsDir(), fmt.Sprintf("sac_export_%s.csv", stamp))
	}
	dest := store.New(target, nil)
	if err := dest.WriteTable(table); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d registro(s) exportado(s) para %s\n", len(table.Rows), target)
	return nil
}
