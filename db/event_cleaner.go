package db

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/signet-protocol/signet-node/store"
)

// EventCleaner prunes event rows older than the retention period. Replay of
// historical records is bounded by retention; live subscription is the
// primary consumption channel.
type EventCleaner struct {
	database        *DB
	ticker          *time.Ticker
	logger          zerolog.Logger
	stopCh          chan struct{}
	cleanupInterval time.Duration
	retentionPeriod time.Duration
}

// NewEventCleaner creates an event cleaner with the given interval and retention.
func NewEventCleaner(
	database *DB,
	cleanupInterval time.Duration,
	retentionPeriod time.Duration,
	logger zerolog.Logger,
) *EventCleaner {
	return &EventCleaner{
		database:        database,
		cleanupInterval: cleanupInterval,
		retentionPeriod: retentionPeriod,
		logger:          logger.With().Str("component", "event_cleaner").Logger(),
		stopCh:          make(chan struct{}),
	}
}

// Start begins the periodic cleanup process.
func (ec *EventCleaner) Start(ctx context.Context) error {
	ec.logger.Info().
		Dur("cleanup_interval", ec.cleanupInterval).
		Dur("retention_period", ec.retentionPeriod).
		Msg("starting event cleaner")

	// Perform initial cleanup. Don't fail startup on cleanup error, just log it.
	if err := ec.performCleanup(); err != nil {
		ec.logger.Error().Err(err).Msg("failed to perform initial cleanup")
	}

	ec.ticker = time.NewTicker(ec.cleanupInterval)

	go func() {
		defer ec.ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				ec.logger.Info().Msg("context cancelled, stopping event cleaner")
				return
			case <-ec.stopCh:
				ec.logger.Info().Msg("stop signal received, stopping event cleaner")
				return
			case <-ec.ticker.C:
				if err := ec.performCleanup(); err != nil {
					ec.logger.Error().Err(err).Msg("failed to perform scheduled cleanup")
				}
			}
		}
	}()

	return nil
}

// Stop gracefully stops the event cleaner.
func (ec *EventCleaner) Stop() {
	ec.logger.Info().Msg("stopping event cleaner")
	close(ec.stopCh)
}

// performCleanup deletes event rows that fell out of the retention window.
func (ec *EventCleaner) performCleanup() error {
	cutoff := time.Now().Add(-ec.retentionPeriod)

	result := ec.database.Client().
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&store.EventRecord{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		ec.logger.Info().
			Int64("deleted", result.RowsAffected).
			Time("cutoff", cutoff).
			Msg("pruned old event records")
	}
	return nil
}
