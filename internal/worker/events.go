package worker

import (
	"context"
	"sync"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/push-reminder/internal/rabbitmq/queue"
)

//go:generate mockgen -source=events.go -destination=../mocks/worker/events.go -package=mocks

type eventConsumer interface {
	Consume(ctx context.Context, out chan<- queue.EventMessage, strategy retry.Strategy) error
}

type eventHandler interface {
	HandleMessage(ctx context.Context, msg queue.EventMessage, strategy retry.Strategy)
}

// EventWorker materializes reminders for calendar events read from the queue.
type EventWorker struct {
	consumer eventConsumer
	handler  eventHandler
}

func NewEventWorker(c eventConsumer, h eventHandler) *EventWorker {
	return &EventWorker{
		consumer: c,
		handler:  h,
	}
}

// Run consumes events with workerCount goroutines until ctx is cancelled.
func (w *EventWorker) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	msgChan := make(chan queue.EventMessage, workerCount*10)

	go func() {
		if err := w.consumer.Consume(ctx, msgChan, strategy); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to consume events")
		}
	}()

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Printf("event-worker-%d started", id)

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Printf("event-worker-%d shutting down", id)
					return
				case msg, ok := <-msgChan:
					if !ok {
						zlog.Logger.Printf("event-worker-%d channel closed, shutting down", id)
						return
					}

					w.handler.HandleMessage(ctx, msg, strategy)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Print("event worker stopped")
}
