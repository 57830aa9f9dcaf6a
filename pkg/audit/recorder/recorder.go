// Package recorder captures transform application records
// asynchronously and writes them to an audit storage backend.
package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"starloader-hq/ras/pkg/audit"
	"starloader-hq/ras/pkg/rules/engine"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1024
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		AsyncBuffer:  1024,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder buffers application records on a channel and writes them to
// storage from a background goroutine, so slow storage never stalls
// transform application. It implements engine.Auditor.
type Recorder struct {
	storage    audit.Storage
	config     *Config
	recordChan chan *audit.Record
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
}

// NewRecorder creates a recorder over the given storage backend and
// starts its background writer.
func NewRecorder(storage audit.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *audit.Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues one application record for async writing. It never
// blocks the caller: a full buffer or a closing recorder drops the
// record and reports it as a *audit.RecorderError.
func (r *Recorder) Record(rec engine.ApplicationRecord) error {
	record := &audit.Record{
		ID:         uuid.New().String(),
		RecordedAt: time.Now(),
		Class:      rec.Class,
		Member:     rec.Member,
		Descriptor: rec.Descriptor,
		Transform:  rec.Transform,
		Sources:    rec.Sources,
		Outcome:    rec.Outcome,
		Before:     rec.Before,
		After:      rec.After,
	}

	select {
	case r.recordChan <- record:
		return nil
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
			"class", record.Class,
		)
		return audit.NewRecorderError(record.ID, context.Canceled)
	default:
		r.logger.Error("audit record channel full, dropping record",
			"record_id", record.ID,
			"class", record.Class,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return audit.NewRecorderError(record.ID, context.DeadlineExceeded)
	}
}

// RecordApplication implements engine.Auditor. Auditing is best effort
// from the engine's point of view; drops are already logged by Record.
func (r *Recorder) RecordApplication(rec engine.ApplicationRecord) {
	_ = r.Record(rec)
}

// Close shuts the recorder down, draining the channel and waiting for
// pending writes to complete. The storage backend is not closed.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down audit recorder")
		close(r.done)
		r.wg.Wait()
		r.logger.Info("audit recorder shut down complete")
	})
	return nil
}

// worker drains the record channel and writes to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records before exit.
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *audit.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Write(ctx, record); err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"class", record.Class,
			"error", err,
		)
		return
	}

	r.logger.Debug("audit record stored",
		"record_id", record.ID,
		"class", record.Class,
		"outcome", record.Outcome,
	)
}
