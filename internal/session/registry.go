package session

import (
	"sync"

	"gallery-storefront/internal/localstore"
	"gallery-storefront/internal/repository"

	"go.uber.org/zap"
)

// Registry hands out Sessions by client id and forwards every session's events
// to registry-wide subscribers. It keeps no per-client state of its own.
type Registry struct {
	repo repository.KVRepository
	auth Authenticator
	log  *zap.Logger

	mu      sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func NewRegistry(repo repository.KVRepository, auth Authenticator, log *zap.Logger) *Registry {
	return &Registry{
		repo: repo,
		auth: auth,
		log:  log.Named("session"),
		subs: make(map[int]func(Event)),
	}
}

// Get builds a Session for clientID over the repository. The login lives in
// the repository, so two Sessions of the same client see the same state and
// nothing is held in memory between requests.
func (r *Registry) Get(clientID string) *Session {
	s := New(localstore.New(r.repo, clientID), r.auth, r.log)
	s.relay = r.emit
	return s
}

// Subscribe registers fn for events of every session.
func (r *Registry) Subscribe(fn func(Event)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

func (r *Registry) emit(e Event) {
	r.mu.Lock()
	fns := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
