package processor

import (
	"context"

	"web3dir/background-worker-service/internal/app/background-worker/service"
	"web3dir/pkg/logger"

	"github.com/robfig/cron/v3"
)

// cronLogger передает логи cron в zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

type CronScheduler struct {
	cron   *cron.Cron
	warmer service.CacheWarmerInterface
}

func NewCronScheduler(warmer service.CacheWarmerInterface) *CronScheduler {
	c := cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))

	return &CronScheduler{
		cron:   c,
		warmer: warmer,
	}
}

// Start регистрирует прогрев кеша и сразу выполняет его один раз
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.warm(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Cron scheduler started")

	s.warm(ctx)
	return nil
}

func (s *CronScheduler) warm(ctx context.Context) {
	if err := s.warmer.WarmCatalogCache(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to warm catalog cache")
	}
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
