package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
)

// ArchiveWorker consumes OrderPlaced events and archives them to the
// database.
type ArchiveWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	archiver     *Archiver
}

// NewArchiveWorker creates a new archive worker
func NewArchiveWorker(consumer *broker.Consumer, archiver *Archiver) *ArchiveWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(archiver.HandleOrderPlaced)

	return &ArchiveWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		archiver:     archiver,
	}
}

// Start starts the worker
func (w *ArchiveWorker) Start(ctx context.Context) error {
	log.Println("Starting archive worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ArchiveWorker) Stop() error {
	log.Println("Stopping archive worker...")
	return w.consumer.Close()
}
