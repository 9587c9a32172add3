package notifications

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Mailer sends a plain-text email. Implementations report success so the
// dispatcher can log failures without interrupting delivery of other channels.
type Mailer interface {
	Send(to, subject, body string) bool
}

// Pusher publishes a data payload to a topic.
type Pusher interface {
	Publish(ctx context.Context, topic string, data map[string]string) error
}

// Publisher is the producer side of the dispatcher.
type Publisher interface {
	Publish(event StatusChangeEvent)
}

// Dispatcher fans status change events out to email and push. Events are
// consumed by a single worker goroutine so request handlers never wait on
// SMTP or FCM.
type Dispatcher struct {
	events chan StatusChangeEvent
	done   chan struct{}

	mailer Mailer
	pusher Pusher
	topic  string
}

// NewDispatcher starts the worker. Either collaborator may be nil, in which
// case its channel is skipped.
func NewDispatcher(mailer Mailer, pusher Pusher, topic string) *Dispatcher {
	d := &Dispatcher{
		events: make(chan StatusChangeEvent, 64),
		done:   make(chan struct{}),
		mailer: mailer,
		pusher: pusher,
		topic:  topic,
	}
	go d.run()
	return d
}

// Publish enqueues an event. When the buffer is full the event is dropped
// and logged; notifications are best effort and must not block the caller.
func (d *Dispatcher) Publish(event StatusChangeEvent) {
	select {
	case d.events <- event:
	default:
		log.Printf("notifications: queue full, dropping event for report %s", event.ReportID)
	}
}

// Close stops accepting events, drains the queue and waits for the worker.
func (d *Dispatcher) Close() {
	close(d.events)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		d.handle(event)
	}
}

func (d *Dispatcher) handle(event StatusChangeEvent) {
	if d.mailer != nil && event.UserEmail != "" {
		subject := "Report Status Update - " + event.ReportTitle
		body := fmt.Sprintf(
			"Dear User,\n\n"+
				"The status of your report '%s' has been updated to: %s\n\n"+
				"Thank you for using FlashReport.\n\n"+
				"Best regards,\nFlashReport Team",
			event.ReportTitle, event.NewStatus,
		)
		if !d.mailer.Send(event.UserEmail, subject, body) {
			log.Printf("notifications: email to %s failed for report %s", event.UserEmail, event.ReportID)
		}
	}

	if d.pusher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		payload := map[string]string{
			"reportId":    event.ReportID,
			"reportTitle": event.ReportTitle,
			"newStatus":   event.NewStatus,
		}
		if err := d.pusher.Publish(ctx, d.topic, payload); err != nil {
			log.Printf("notifications: push for report %s failed: %v", event.ReportID, err)
		}
	}
}
