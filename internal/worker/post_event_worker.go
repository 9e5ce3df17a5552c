package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"nobzo-blog/internal/model"
	"nobzo-blog/internal/platform/rabbitmq"
)

// PostEventStore persists consumed events.
type PostEventStore interface {
	Create(ctx context.Context, event *model.PostEvent) error
}

var errMalformedEvent = errors.New("malformed post event")

// PostEventWorker drains the post event queue into the post_events table.
type PostEventWorker struct {
	conn      *amqp.Connection
	store     PostEventStore
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPostEventWorker(conn *amqp.Connection, store PostEventStore, queueName string) *PostEventWorker {
	return &PostEventWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
	}
}

func (w *PostEventWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					log.Printf("worker handle post event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// handle decodes one delivery body and stores it.
func (w *PostEventWorker) handle(ctx context.Context, body []byte) error {
	var event model.PostEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if event.PostID == 0 || event.Action == "" {
		return fmt.Errorf("%w: missing post id or action", errMalformedEvent)
	}
	event.ID = 0
	return w.store.Create(ctx, &event)
}

func (w *PostEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
