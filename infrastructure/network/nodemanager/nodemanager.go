// Package nodemanager tracks the set of consensus nodes a client may talk
// to and each node's recent health. Selection prefers nodes that have not
// failed recently; a node that keeps failing backs off exponentially and a
// node that fails fatally is excluded until the next address book refresh.
package nodemanager

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/tr11/hiero-sdk-go/domain/entities"
)

// Node is one consensus node: its payer-facing account ID and the endpoint
// its gRPC services listen on.
type Node struct {
	AccountID entities.AccountID
	Endpoint  entities.ServiceEndpoint
}

// AddressBook lists the current node set. Implementations typically read a
// signed address book from the network or a static config.
type AddressBook interface {
	ListNodes() ([]Node, error)
}

// ErrNoUsableNodes is returned when every candidate node is excluded.
var ErrNoUsableNodes = errors.New("no usable nodes")

const (
	defaultMinCooldown = 8 * time.Second
	defaultMaxCooldown = 8 * time.Minute
)

// nodeHealth carries one node's health counters. The counters are atomics
// so the hot path (selection and outcome recording) never takes the
// manager's lock; the lock only guards the node set itself.
type nodeHealth struct {
	node          Node
	failureStreak uint32
	lastFailure   int64 // unix nanos, 0 when never failed
	removed       uint32
}

func (h *nodeHealth) usableAt(now time.Time, minCooldown, maxCooldown time.Duration) bool {
	if atomic.LoadUint32(&h.removed) != 0 {
		return false
	}
	streak := atomic.LoadUint32(&h.failureStreak)
	if streak == 0 {
		return true
	}
	last := atomic.LoadInt64(&h.lastFailure)
	return now.Sub(time.Unix(0, last)) >= cooldownFor(streak, minCooldown, maxCooldown)
}

// cooldownFor doubles the cooldown with each consecutive failure, capped.
func cooldownFor(streak uint32, minCooldown, maxCooldown time.Duration) time.Duration {
	cooldown := minCooldown
	for i := uint32(1); i < streak; i++ {
		cooldown *= 2
		if cooldown >= maxCooldown {
			return maxCooldown
		}
	}
	if cooldown > maxCooldown {
		return maxCooldown
	}
	return cooldown
}

// Manager is the node registry. Safe for concurrent use.
type Manager struct {
	mtx   sync.RWMutex
	nodes map[entities.AccountID]*nodeHealth
	order []entities.AccountID

	minCooldown time.Duration
	maxCooldown time.Duration
	nowFunc     func() time.Time
	rng         *rand.Rand
	rngMtx      sync.Mutex
}

// New returns an empty Manager with default cooldown bounds.
func New() *Manager {
	return &Manager{
		nodes:       make(map[entities.AccountID]*nodeHealth),
		minCooldown: defaultMinCooldown,
		maxCooldown: defaultMaxCooldown,
		nowFunc:     time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddNode adds or replaces one node, preserving nothing of any previous
// health history under the same account ID.
func (m *Manager) AddNode(node Node) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if _, ok := m.nodes[node.AccountID]; !ok {
		m.order = append(m.order, node.AccountID)
	}
	m.nodes[node.AccountID] = &nodeHealth{node: node}
}

// Refresh replaces the node set from the address book. Health history is
// kept for nodes that survive the refresh, including fatally failed ones
// whose endpoint is unchanged; a node that comes back with a new endpoint
// starts clean.
func (m *Manager) Refresh(book AddressBook) error {
	listed, err := book.ListNodes()
	if err != nil {
		return errors.Wrap(err, "listing address book nodes")
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()
	next := make(map[entities.AccountID]*nodeHealth, len(listed))
	order := make([]entities.AccountID, 0, len(listed))
	for _, node := range listed {
		if _, ok := next[node.AccountID]; ok {
			continue
		}
		if existing, ok := m.nodes[node.AccountID]; ok && existing.node.Endpoint.Equal(node.Endpoint) {
			next[node.AccountID] = existing
		} else {
			next[node.AccountID] = &nodeHealth{node: node}
		}
		order = append(order, node.AccountID)
	}
	log.Debugf("Refreshed node set: %d nodes", len(order))
	m.nodes = next
	m.order = order
	return nil
}

// StartAutoRefresh refreshes the node set on a fixed interval until the
// context is cancelled. Refresh errors are logged and the previous set
// stays in effect.
func (m *Manager) StartAutoRefresh(ctx context.Context, book AddressBook, interval time.Duration) {
	spawn(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Refresh(book); err != nil {
					log.Warnf("Node set refresh failed: %s", err)
				}
			}
		}
	})
}

// Nodes returns the current node set in registration order.
func (m *Manager) Nodes() []Node {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	nodes := make([]Node, 0, len(m.order))
	for _, id := range m.order {
		nodes = append(nodes, m.nodes[id].node)
	}
	return nodes
}

// Endpoint returns the endpoint registered for a node account ID.
func (m *Manager) Endpoint(id entities.AccountID) (entities.ServiceEndpoint, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	h, ok := m.nodes[id]
	if !ok {
		return entities.ServiceEndpoint{}, false
	}
	return h.node.Endpoint, true
}

// Select picks a usable node from the whole registry.
func (m *Manager) Select() (entities.AccountID, error) {
	return m.SelectAmong(nil, nil)
}

// SelectAmong picks a usable node at random among the candidates, skipping
// excluded ones. A nil candidate list means the whole registry. When every
// non-excluded candidate is cooling down, the one whose failure is oldest
// is returned rather than failing: a cooling node is still preferable to
// not submitting at all. Only fatally failed and unknown nodes are never
// returned.
func (m *Manager) SelectAmong(candidates []entities.AccountID, exclude map[entities.AccountID]bool) (entities.AccountID, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if candidates == nil {
		candidates = m.order
	}
	now := m.nowFunc()

	var usable []entities.AccountID
	var fallback entities.AccountID
	var fallbackFailure int64
	haveFallback := false
	for _, id := range candidates {
		if exclude[id] {
			continue
		}
		h, ok := m.nodes[id]
		if !ok || atomic.LoadUint32(&h.removed) != 0 {
			continue
		}
		if h.usableAt(now, m.minCooldown, m.maxCooldown) {
			usable = append(usable, id)
			continue
		}
		last := atomic.LoadInt64(&h.lastFailure)
		if !haveFallback || last < fallbackFailure {
			fallback, fallbackFailure, haveFallback = id, last, true
		}
	}

	if len(usable) > 0 {
		m.rngMtx.Lock()
		id := usable[m.rng.Intn(len(usable))]
		m.rngMtx.Unlock()
		return id, nil
	}
	if haveFallback {
		log.Debugf("All candidate nodes cooling down, falling back to %s", fallback)
		return fallback, nil
	}
	return entities.AccountID{}, ErrNoUsableNodes
}

// RecordSuccess clears a node's failure streak.
func (m *Manager) RecordSuccess(id entities.AccountID) {
	if h := m.health(id); h != nil {
		atomic.StoreUint32(&h.failureStreak, 0)
	}
}

// RecordTransientFailure extends a node's failure streak, doubling its
// cooldown.
func (m *Manager) RecordTransientFailure(id entities.AccountID) {
	h := m.health(id)
	if h == nil {
		return
	}
	streak := atomic.AddUint32(&h.failureStreak, 1)
	atomic.StoreInt64(&h.lastFailure, m.nowFunc().UnixNano())
	log.Debugf("Node %s transient failure, streak %d", id, streak)
}

// RecordFatalFailure excludes a node from selection until a refresh
// replaces its entry.
func (m *Manager) RecordFatalFailure(id entities.AccountID) {
	h := m.health(id)
	if h == nil {
		return
	}
	atomic.StoreUint32(&h.removed, 1)
	log.Infof("Node %s removed from selection after fatal failure", id)
}

func (m *Manager) health(id entities.AccountID) *nodeHealth {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.nodes[id]
}
