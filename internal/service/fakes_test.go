package service

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/eventbus"
	"github.com/yuqie6/trainerhub/internal/schema"
)

type progressKey struct {
	owner   int64
	pokemon int64
}

// memStore 内存版 ProgressRepository + UnitOfWork，流水经 memLedger 暴露
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	items  map[progressKey]schema.PokemonProgress
	logs   []schema.XPLog
	nextID int64

	saveConflicts int // 前 N 次 Save 返回冲突
	saveCalls     int
	txCalls       int
}

func newMemStore() *memStore {
	return &memStore{items: make(map[progressKey]schema.PokemonProgress)}
}

func (m *memStore) Do(ctx context.Context, fn func(progress ProgressRepository, ledger XPLedger) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	m.txCalls++
	snapshot := make(map[progressKey]schema.PokemonProgress, len(m.items))
	for k, v := range m.items {
		snapshot[k] = v
	}
	logCount := len(m.logs)
	m.mu.Unlock()

	if err := fn(m, memLedger{m}); err != nil {
		m.mu.Lock()
		m.items = snapshot
		m.logs = m.logs[:logCount]
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) GetOrCreate(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error) {
	p, _, err := m.Capture(ctx, ownerID, pokemonID)
	return p, err
}

func (m *memStore) Capture(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{ownerID, pokemonID}
	p, ok := m.items[key]
	if !ok {
		m.nextID++
		fresh := schema.NewPokemonProgress(ownerID, pokemonID, time.Now())
		fresh.ID = m.nextID
		p = *fresh
		m.items[key] = p
	}
	return &p, !ok, nil
}

func (m *memStore) Save(ctx context.Context, p *schema.PokemonProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveConflicts > 0 {
		m.saveConflicts--
		return apperrors.Conflict("injected conflict")
	}
	key := progressKey{p.OwnerID, p.PokemonID}
	cur, ok := m.items[key]
	if !ok {
		return apperrors.NotFound("gone")
	}
	if cur.Version != p.Version {
		return apperrors.Conflict("version moved")
	}
	p.Version++
	m.items[key] = *p
	return nil
}

func (m *memStore) GetByPokemon(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[progressKey{ownerID, pokemonID}]
	if !ok {
		return nil, apperrors.NotFound("missing")
	}
	return &p, nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerID int64) ([]schema.PokemonProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []schema.PokemonProgress
	for k, v := range m.items {
		if k.owner == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) IncrementSessions(ctx context.Context, ownerID, pokemonID int64) (*schema.PokemonProgress, error) {
	if _, err := m.GetOrCreate(ctx, ownerID, pokemonID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{ownerID, pokemonID}
	p := m.items[key]
	p.SessionsContributed++
	p.Version++
	m.items[key] = p
	return &p, nil
}

func (m *memStore) Delete(ctx context.Context, ownerID, pokemonID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey{ownerID, pokemonID}
	if _, ok := m.items[key]; !ok {
		return apperrors.NotFound("missing")
	}
	delete(m.items, key)
	return nil
}

// memLedger 与 memStore 同介质的流水
type memLedger struct {
	m *memStore
}

func (l memLedger) Append(ctx context.Context, entry *schema.XPLog) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	l.m.logs = append(l.m.logs, *entry)
	return nil
}

func (l memLedger) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]schema.XPLog, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	var out []schema.XPLog
	for i := len(l.m.logs) - 1; i >= 0; i-- {
		if l.m.logs[i].OwnerID == ownerID {
			out = append(out, l.m.logs[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// fakeLedger 独立介质的流水，可注入失败
type fakeLedger struct {
	mu    sync.Mutex
	fails int // 前 N 次 Append 失败；<0 表示一直失败
	calls int
	keys  []string // 每次 Append 收到的幂等键
	logs  []schema.XPLog
}

func (l *fakeLedger) Append(ctx context.Context, entry *schema.XPLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	l.keys = append(l.keys, entry.AppendKey)
	if err := ctx.Err(); err != nil {
		return apperrors.Unavailable(err, "ledger append aborted")
	}
	if l.fails != 0 {
		if l.fails > 0 {
			l.fails--
		}
		return apperrors.Unavailable(errors.New("connection refused"), "ledger down")
	}
	l.logs = append(l.logs, *entry)
	return nil
}

func (l *fakeLedger) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]schema.XPLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []schema.XPLog
	for i := len(l.logs) - 1; i >= 0; i-- {
		if l.logs[i].OwnerID == ownerID {
			out = append(out, l.logs[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// cancelAfterCommit 事务提交后立即取消请求上下文，模拟调用方断开
type cancelAfterCommit struct {
	UnitOfWork
	cancel context.CancelFunc
}

func (c cancelAfterCommit) Do(ctx context.Context, fn func(progress ProgressRepository, ledger XPLedger) error) error {
	err := c.UnitOfWork.Do(ctx, fn)
	c.cancel()
	return err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(evt eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
