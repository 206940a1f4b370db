package watch

import (
	"context"
	"fmt"

	"github.com/jeovahfialho/portfolio/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Watcher runs tasks on six-field cron schedules (seconds first). A run that
// is still going when the next tick fires is skipped, never overlapped.
type Watcher struct {
	cron *cron.Cron
}

func New() *Watcher {
	log := zapCronLogger{}
	return &Watcher{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
	}
}

func (w *Watcher) Schedule(spec string, task func()) error {
	if _, err := w.cron.AddFunc(spec, task); err != nil {
		return fmt.Errorf("expressão cron inválida %q: %w", spec, err)
	}
	return nil
}

// Run blocks until ctx is done, then waits for any running task to finish.
func (w *Watcher) Run(ctx context.Context) {
	w.cron.Start()
	logger.Info("agendador iniciado")

	<-ctx.Done()

	<-w.cron.Stop().Done()
	logger.Info("agendador parado")
}

type zapCronLogger struct{}

func (zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Sugar.Debugw(msg, keysAndValues...)
}

func (zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
