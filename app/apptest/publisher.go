package apptest

import (
	"catalog/pkg/events"
	"context"
	"sync"
)

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

type Published struct {
	Exchange string
	Event    *events.Event
}

func (p *Publisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, Published{Exchange: exchange, Event: event})
	return nil
}

func (p *Publisher) Close() error {
	return nil
}

// Names returns the published event names in order.
func (p *Publisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Event.Event)
	}
	return names
}

func (p *Publisher) Last() Published {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.events) == 0 {
		return Published{}
	}
	return p.events[len(p.events)-1]
}

var _ events.Publisher = (*Publisher)(nil)
