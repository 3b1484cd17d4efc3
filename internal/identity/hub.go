package identity

import (
	"sync"
)

type Event string

const (
	EventSignedIn           Event = "signedIn"
	EventSignedOut          Event = "signedOut"
	EventSignedUp           Event = "signedUp"
	EventAutoSignIn         Event = "autoSignIn"
	EventAutoSignInFailure  Event = "autoSignIn_failure"
	EventTokenRefresh       Event = "tokenRefresh"
	EventTokenRefreshFailed Event = "tokenRefresh_failure"
)

// Hub fans auth events out to listeners. Listeners are called
// synchronously, in subscription order, outside the hub lock.
type Hub struct {
	mutex     sync.Mutex
	nextID    int
	listeners map[int]func(Event)
	order     []int
}

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[int]func(Event)),
	}
}

// Listen registers fn and returns a func that removes it.
func (h *Hub) Listen(fn func(Event)) func() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.order = append(h.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mutex.Lock()
			defer h.mutex.Unlock()
			delete(h.listeners, id)
			for i, lid := range h.order {
				if lid == id {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (h *Hub) Dispatch(event Event) {
	h.mutex.Lock()
	fns := make([]func(Event), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.listeners[id])
	}
	h.mutex.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}
