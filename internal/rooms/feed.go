package rooms

import (
	"strconv"
	"sync"
	"time"
)

// FeedEvent is one published engine update: a room snapshot or a progress
// tick. EventIDs are monotonic so SSE consumers can resume with
// Last-Event-ID.
type FeedEvent struct {
	EventID  string `json:"event_id"`
	Kind     string `json:"kind"`
	RoomID   string `json:"room_id"`
	ServerTS int64  `json:"server_ts"`
	Data     any    `json:"data"`
}

const (
	FeedKindSnapshot = "snapshot"
	FeedKindProgress = "progress"
	FeedKindReplay   = "replay"
)

// Feed is a bounded buffer of engine updates with watcher fan-out. Slow
// watchers lose events rather than block publishers.
type Feed struct {
	mu       sync.Mutex
	nextID   int64
	max      int
	events   []FeedEvent
	watchers map[chan FeedEvent]struct{}
	closed   bool
}

func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 500
	}
	return &Feed{
		max:      max,
		watchers: map[chan FeedEvent]struct{}{},
	}
}

func (f *Feed) Publish(kind, roomID string, ts time.Time, data any) FeedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return FeedEvent{}
	}
	f.nextID++
	ev := FeedEvent{
		EventID:  strconv.FormatInt(f.nextID, 10),
		Kind:     kind,
		RoomID:   roomID,
		ServerTS: ts.UnixMilli(),
		Data:     data,
	}
	f.events = append(f.events, ev)
	if len(f.events) > f.max {
		f.events = f.events[len(f.events)-f.max:]
	}
	for ch := range f.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// ReplayAfter returns buffered events newer than lastEventID, oldest first.
// An empty or unparseable id replays the whole buffer.
func (f *Feed) ReplayAfter(lastEventID string) []FeedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return nil
	}
	last, err := strconv.ParseInt(lastEventID, 10, 64)
	if lastEventID == "" || err != nil {
		out := make([]FeedEvent, len(f.events))
		copy(out, f.events)
		return out
	}
	out := make([]FeedEvent, 0, len(f.events))
	for _, ev := range f.events {
		id, _ := strconv.ParseInt(ev.EventID, 10, 64)
		if id > last {
			out = append(out, ev)
		}
	}
	return out
}

func (f *Feed) Subscribe() chan FeedEvent {
	ch := make(chan FeedEvent, 32)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch
	}
	f.watchers[ch] = struct{}{}
	return ch
}

func (f *Feed) Unsubscribe(ch chan FeedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.watchers[ch]; ok {
		delete(f.watchers, ch)
		close(ch)
	}
}

func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for ch := range f.watchers {
		close(ch)
		delete(f.watchers, ch)
	}
}
