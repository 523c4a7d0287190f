package server

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/mask-studio-mcp/internal/editor"
)

// ErrUnknownSession is returned for a session id that was never opened or
// has been closed.
var ErrUnknownSession = errors.New("unknown editor session")

// session is one editor instance: a source image and the controller that
// owns its selection and paint. Sessions share nothing but the image cache.
type session struct {
	mu sync.Mutex

	id            string
	sourcePath    string
	referencePath string
	source        image.Image
	ed            *editor.Controller
}

// sessionStore tracks open sessions by id.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// add registers sess under a fresh id and returns it.
func (st *sessionStore) add(sess *session) string {
	sess.id = uuid.New().String()
	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
	return sess.id
}

func (st *sessionStore) get(id string) (*session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return sess, nil
}

// remove drops the session and reports whether it existed.
func (st *sessionStore) remove(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	return sess, ok
}

// uses reports whether any open session still refers to path as its source
// or reference image.
func (st *sessionStore) uses(path string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, sess := range st.sessions {
		sess.mu.Lock()
		inUse := sess.sourcePath == path || sess.referencePath == path
		sess.mu.Unlock()
		if inUse {
			return true
		}
	}
	return false
}

// Len returns the number of open sessions.
func (st *sessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
