package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"sac/internal/config"
	"sac/internal/schema"
	"sac/internal/stats"
	"sac/internal/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Semester string
}

// NewStatsCommand creates the stats command: the dashboard numbers as
// plain text, for terminals and shell pipelines.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Resumo estatístico da base de respostas",
		Long: `Imprime os números do painel gerencial: total de formulários,
média geral, desvio padrão e a média por questão e por categoria.

Exemplo:
  sac stats
  sac stats --semester "3º Semestre"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Semester, "semester", "", "filtra por semestre (valor exato da coluna)")

	return cmd
}

func runStats(opts *StatsOptions, out io.Writer) error {
	cfg, err := config.NewConfig(opts.ProjectDir)
	if err != nil {
		return err
	}
	st := store.New(cfg.DatabasePath(), nil)
	table, err := st.ReadAll()
	if err != nil {
		return err
	}
	if opts.Semester != "" {
		table = stats.FilterEqual(table, schema.ColSemester, opts.Semester)
	}

	summary := stats.Summarize(table)
	if !summary.HasData {
		fmt.Fprintln(out, "Nenhuma resposta na base.")
		return nil
	}

	fmt.Fprintf(out, "Formulários:    %d\n", summary.Forms)
	fmt.Fprintf(out, "Média geral:    %.2f\n", summary.Mean)
	fmt.Fprintf(out, "Desvio padrão:  %s\n", formatStdDev(summary.StdDev))
	if summary.HasLast {
		fmt.Fprintf(out, "Último registro: %s\n", schema.FormatTime(summary.LastEntry))
	}

	view := stats.BuildNumericView(table)

	fmt.Fprintln(out, "\nMédia por categoria:")
	for _, cm := range stats.CategoryMeans(view) {
		if cm.Count == 0 {
			fmt.Fprintf(out, "  %-28s sem dados\n", cm.Category)
			continue
		}
		fmt.Fprintf(out, "  %-28s %.2f (%d)\n", cm.Category, cm.Mean, cm.Count)
	}

	fmt.Fprintln(out, "\nMédia por questão:")
	for _, qm := range stats.QuestionMeans(view) {
		if qm.Count == 0 {
			fmt.Fprintf(out, "  %-12s sem dados\n", schema.DisplayLabel(qm.Key))
			continue
		}
		fmt.Fprintf(out, "  %-12s %.2f (%d)  %s\n", schema.DisplayLabel(qm.Key), qm.Mean, qm.Count, qm.Label)
	}
	return nil
}

func formatStdDev(v float64) string {
	if math.IsNaN(v) {
		return "— (amostra insuficiente)"
	}
	return fmt.Sprintf("%.2f", v)
}
