package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeovahfialho/portfolio/internal/config"
	"github.com/jeovahfialho/portfolio/internal/domain"
	"github.com/jeovahfialho/portfolio/internal/quotes"
	"github.com/jeovahfialho/portfolio/internal/service"
	"github.com/jeovahfialho/portfolio/internal/storage/cache"
	"github.com/jeovahfialho/portfolio/internal/storage/postgres"
	"github.com/jeovahfialho/portfolio/internal/watch"
	"github.com/jeovahfialho/portfolio/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var output string

	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Consulta cotações diárias de ações",
		Long: `CLI para consulta de cotações diárias ajustadas via Alpha Vantage.
Mostra o último fechamento e o resumo de preços de um período.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(output)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", formatText, "Formato de saída (text, json, yaml)")

	// Comando latest-price
	latestCmd := &cobra.Command{
		Use:   "latest-price [symbol]",
		Short: "Mostra o último preço de fechamento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLatestPrice(cmd.Context(), cmd.OutOrStdout(), output, args[0])
		},
	}

	// Comando summary
	summaryCmd := &cobra.Command{
		Use:   "summary [symbol]",
		Short: "Mostra o resumo de preços de um período",
		Long: `Mostra o último e o primeiro fechamento, a máxima e a mínima do período.
Períodos: month (30 dias), year (365 dias) ou all (histórico completo).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, _ := cmd.Flags().GetString("period")
			return runSummary(cmd.Context(), cmd.OutOrStdout(), output, args[0], period)
		},
	}
	summaryCmd.Flags().StringP("period", "p", domain.Year.String(), "Período (month, year, all)")

	// Comando watch
	watchCmd := &cobra.Command{
		Use:   "watch [symbol]",
		Short: "Mostra o resumo periodicamente seguindo uma expressão cron",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, _ := cmd.Flags().GetString("cron")
			period, _ := cmd.Flags().GetString("period")
			runNow, _ := cmd.Flags().GetBool("run-now")
			return runWatch(cmd.Context(), cmd.OutOrStdout(), output, args[0], spec, period, runNow)
		},
	}
	watchCmd.Flags().StringP("cron", "c", "", "Expressão cron com segundos (padrão: WATCH_CRON)")
	watchCmd.Flags().StringP("period", "p", domain.Year.String(), "Período (month, year, all)")
	watchCmd.Flags().Bool("run-now", false, "Executa uma consulta imediatamente antes do agendamento")

	// Comando health
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Verifica saúde das dependências",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkHealth(cmd.Context(), cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(latestCmd, summaryCmd, watchCmd, healthCmd)
	return rootCmd
}

// app reúne as dependências de uma execução do CLI
type app struct {
	cfg     *config.Config
	service *service.EquityService
	close   func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.LogLevel, cfg.Development(), "stderr"); err != nil {
		return nil, fmt.Errorf("erro ao inicializar logger: %w", err)
	}

	client, err := quotes.NewClient(quotes.Options{
		APIKey:     cfg.VantageAPIKey,
		BaseURL:    cfg.VantageBaseURL,
		HTTPClient: quotes.NewHTTPClient(cfg.UpstreamTimeout),
	})
	if err != nil {
		logger.Close()
		return nil, err
	}

	var recorder service.LookupRecorder = service.NoopRecorder{}
	closeDB := func() {}
	if db := connectDB(ctx, cfg); db != nil {
		recorder = db.Lookups()
		closeDB = db.Close
	}

	return &app{
		cfg:     cfg,
		service: service.NewEquityService(client, recorder),
		close: func() {
			closeDB()
			logger.Close()
		},
	}, nil
}

// connectDB abre o registro de consultas quando DATABASE_URL está configurado
func connectDB(ctx context.Context, cfg *config.Config) *postgres.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}

	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		logger.Warn("PostgreSQL não disponível, continuando sem registro de consultas", zap.Error(err))
		return nil
	}

	return db
}

func runLatestPrice(ctx context.Context, w io.Writer, format, rawSymbol string) error {
	symbol, err := domain.NewSymbol(rawSymbol)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	price, err := a.service.LatestPrice(ctx, symbol)
	if err != nil {
		return err
	}

	return renderLatestPrice(w, format, symbol, price)
}

func runSummary(ctx context.Context, w io.Writer, format, rawSymbol, rawPeriod string) error {
	symbol, err := domain.NewSymbol(rawSymbol)
	if err != nil {
		return err
	}

	period, err := domain.ParseTimePeriod(rawPeriod)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.service.Summary(ctx, symbol, period)
	if err != nil {
		return err
	}

	return renderSummary(w, format, symbol, period, summary)
}

func runWatch(ctx context.Context, w io.Writer, format, rawSymbol, spec, rawPeriod string, runNow bool) error {
	symbol, err := domain.NewSymbol(rawSymbol)
	if err != nil {
		return err
	}

	period, err := domain.ParseTimePeriod(rawPeriod)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if spec == "" {
		spec = a.cfg.WatchCron
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	task := func() {
		summary, err := a.service.Summary(ctx, symbol, period)
		if err != nil {
			logger.Error("erro ao consultar resumo",
				zap.String("symbol", symbol.String()),
				zap.Error(err),
			)
			return
		}
		if err := renderSummary(w, format, symbol, period, summary); err != nil {
			logger.Error("erro ao escrever resumo", zap.Error(err))
		}
	}

	watcher := watch.New()
	if err := watcher.Schedule(spec, task); err != nil {
		return err
	}

	logger.Info("acompanhando ativo",
		zap.String("symbol", symbol.String()),
		zap.String("period", period.String()),
		zap.String("cron", spec),
	)

	if runNow {
		task()
	}

	watcher.Run(ctx)
	return nil
}

// checkHealth verifica configuração, PostgreSQL e Redis
func checkHealth(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "🏥 Verificando saúde do sistema...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(w, "Configuração: ❌ %v\n", err)
		return err
	}
	fmt.Fprintln(w, "Configuração: ✅ OK")

	failed := false

	fmt.Fprint(w, "PostgreSQL: ")
	switch {
	case cfg.DatabaseURL == "":
		fmt.Fprintln(w, "⚪ Não configurado")
	default:
		db, err := postgres.Open(ctx, cfg)
		if err != nil {
			failed = true
			fmt.Fprintf(w, "❌ Erro: %v\n", err)
			break
		}
		defer db.Close()

		if err := db.HealthCheck(ctx); err != nil {
			failed = true
			fmt.Fprintf(w, "❌ Erro: %v\n", err)
		} else {
			fmt.Fprintln(w, "✅ OK")
		}
	}

	fmt.Fprint(w, "Redis: ")
	switch {
	case cfg.RedisURL == "":
		fmt.Fprintln(w, "⚪ Não configurado")
	default:
		storage, err := cache.NewRedisStorage(cfg)
		if err != nil {
			failed = true
			fmt.Fprintf(w, "❌ Erro: %v\n", err)
			break
		}
		defer storage.Close()

		if err := storage.HealthCheck(ctx); err != nil {
			failed = true
			fmt.Fprintf(w, "❌ Erro: %v\n", err)
		} else {
			fmt.Fprintln(w, "✅ OK")
		}
	}

	if failed {
		return fmt.Errorf("uma ou mais dependências indisponíveis")
	}

	fmt.Fprintln(w, "✅ Verificação concluída!")
	return nil
}
