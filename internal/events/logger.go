package events

import (
	"sync"

	"github.com/machinepulse/machinepulse/internal/logger"
	"github.com/machinepulse/machinepulse/pkg/models"
)

// EventLogger drains an event channel and mirrors every event into the
// structured log, so the event stream shows up in log aggregation even
// when nothing is attached to the websocket feed.
type EventLogger struct {
	events <-chan *models.Event
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewEventLogger(events <-chan *models.Event) *EventLogger {
	return &EventLogger{
		events: events,
		done:   make(chan struct{}),
	}
}

func (l *EventLogger) Start() {
	l.wg.Add(1)
	go l.run()
}

func (l *EventLogger) Stop() {
	close(l.done)
	l.wg.Wait()
}

func (l *EventLogger) run() {
	defer l.wg.Done()

	for {
		select {
		case <-l.done:
			return
		case event, ok := <-l.events:
			if !ok {
				return
			}
			l.logEvent(event)
		}
	}
}

func (l *EventLogger) logEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"machine_id": event.MachineID,
		"severity":   string(event.Severity),
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}
}
