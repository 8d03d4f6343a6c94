package registration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/internal/domain/entity"
	"github.com/jhoicas/garansi-api/internal/domain/repository"
)

// memDB base de datos en memoria: bloqueos de fila por clave, unicidad y deshacer en rollback.
// Las escrituras sin confirmar son visibles para otras tx (sin aislamiento), suficiente para
// los flujos que serializan por la fila de la toko.
type memDB struct {
	mu       sync.Mutex
	stores   map[string]*entity.Store
	users    map[string]*entity.User
	seqs     map[string]*entity.StoreProductSequence
	products map[string]*entity.Product
	numbers  map[string]string
	rowLocks map[string]*sync.Mutex
	seq      int

	// productBaseline filas de productos preexistentes que solo suman en Count.
	productBaseline int64
	// contentionLeft GetForUpdate que fallarán con domain.ErrContention.
	contentionLeft int
	// onContention se invoca tras cada fallo por contención (fuera del mutex).
	onContention func()
	// createErr error terminal en el INSERT de productos.
	createErr error

	txStarted   int
	txCommitted int
}

func newMemDB() *memDB {
	return &memDB{
		stores:   make(map[string]*entity.Store),
		users:    make(map[string]*entity.User),
		seqs:     make(map[string]*entity.StoreProductSequence),
		products: make(map[string]*entity.Product),
		numbers:  make(map[string]string),
		rowLocks: make(map[string]*sync.Mutex),
	}
}

func (db *memDB) nextID(prefix string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

func (db *memDB) addStore(id, code string) *entity.Store {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := &entity.Store{ID: id, Name: "Toko " + code, Code: code, IsActive: true}
	db.stores[id] = s
	return s
}

func (db *memDB) addUser(id, storeID, role string, active bool) *entity.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &entity.User{ID: id, Email: id + "@garansi.test", Name: id, Role: role, IsActive: active}
	if storeID != "" {
		sid := storeID
		u.StoreID = &sid
	}
	db.users[id] = u
	return u
}

func (db *memDB) addProduct(id, storeID, number string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.products[id] = &entity.Product{ID: id, StoreID: storeID, ParticipantNumber: number, IsActive: true}
	db.numbers[number] = id
}

func (db *memDB) nextNumber(storeID string) (int64, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.seqs[storeID]
	if !ok {
		return 0, false
	}
	return s.NextNumber, true
}

func (db *memDB) participantNumbers(storeID string) []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []string
	for _, p := range db.products {
		if p.StoreID == storeID {
			out = append(out, p.ParticipantNumber)
		}
	}
	sort.Strings(out)
	return out
}

func (db *memDB) counts() (stores, users, products int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.stores), len(db.users), len(db.products)
}

func (db *memDB) txStats() (started, committed int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.txStarted, db.txCommitted
}

// memTx estado de una tx: bloqueos tomados y acciones de deshacer.
type memTx struct {
	db   *memDB
	held map[string]*sync.Mutex
	undo []func()
}

func (tx *memTx) lock(key string) {
	if _, ok := tx.held[key]; ok {
		return
	}
	tx.db.mu.Lock()
	m, ok := tx.db.rowLocks[key]
	if !ok {
		m = &sync.Mutex{}
		tx.db.rowLocks[key] = m
	}
	tx.db.mu.Unlock()
	m.Lock()
	tx.held[key] = m
}

// onRollback se llama con db.mu tomado.
func (tx *memTx) onRollback(fn func()) {
	if tx != nil {
		tx.undo = append(tx.undo, fn)
	}
}

type memTxRunner struct{ db *memDB }

func (r memTxRunner) RunRegistration(ctx context.Context, fn func(
	storeRepo repository.StoreRepository,
	seqRepo repository.SequenceRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	r.db.mu.Lock()
	r.db.txStarted++
	r.db.mu.Unlock()

	tx := &memTx{db: r.db, held: make(map[string]*sync.Mutex)}
	err := fn(memStoreRepo{tx.db, tx}, memSeqRepo{tx.db, tx}, memProductRepo{tx.db, tx}, memUserRepo{tx.db, tx})

	r.db.mu.Lock()
	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
	} else {
		r.db.txCommitted++
	}
	r.db.mu.Unlock()
	for _, m := range tx.held {
		m.Unlock()
	}
	return err
}

type memStoreRepo struct {
	db *memDB
	tx *memTx
}

func (r memStoreRepo) Create(_ context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.stores {
		if existing.Code == s.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *s
	r.db.stores[s.ID] = &cp
	r.tx.onRollback(func() { delete(r.db.stores, s.ID) })
	return nil
}

func (r memStoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r memStoreRepo) GetForUpdate(ctx context.Context, id string) (*entity.Store, error) {
	r.db.mu.Lock()
	if r.db.contentionLeft > 0 {
		r.db.contentionLeft--
		hook := r.db.onContention
		r.db.mu.Unlock()
		if hook != nil {
			hook()
		}
		return nil, fmt.Errorf("lock_timeout en stores: %w", domain.ErrContention)
	}
	r.db.mu.Unlock()
	r.tx.lock("store:" + id)
	return r.GetByID(ctx, id)
}

func (r memStoreRepo) List(_ context.Context, limit, offset int) ([]*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Store
	for _, s := range r.db.stores {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

func (r memStoreRepo) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.stores)), nil
}

type memSeqRepo struct {
	db *memDB
	tx *memTx
}

func (r memSeqRepo) GetOrCreateForUpdate(_ context.Context, storeID string) (*entity.StoreProductSequence, error) {
	r.tx.lock("seq:" + storeID)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.seqs[storeID]
	if !ok {
		s = &entity.StoreProductSequence{ID: "seq-" + storeID, StoreID: storeID, NextNumber: 1}
		r.db.seqs[storeID] = s
		r.tx.onRollback(func() { delete(r.db.seqs, storeID) })
	}
	cp := *s
	return &cp, nil
}

func (r memSeqRepo) Increment(_ context.Context, storeID string, amount int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.seqs[storeID]
	if !ok {
		return 0, fmt.Errorf("contador inexistente para %s", storeID)
	}
	s.NextNumber += amount
	r.tx.onRollback(func() {
		if cur, ok := r.db.seqs[storeID]; ok {
			cur.NextNumber -= amount
		}
	})
	return s.NextNumber, nil
}

type memProductRepo struct {
	db *memDB
	tx *memTx
}

func (r memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.createErr != nil {
		return r.db.createErr
	}
	if _, taken := r.db.numbers[p.ParticipantNumber]; taken {
		return domain.ErrParticipantNumberTaken
	}
	cp := *p
	r.db.products[p.ID] = &cp
	r.db.numbers[p.ParticipantNumber] = p.ID
	r.tx.onRollback(func() {
		delete(r.db.products, p.ID)
		delete(r.db.numbers, p.ParticipantNumber)
	})
	return nil
}

func (r memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProductRepo) GetByParticipantNumber(ctx context.Context, number string) (*entity.Product, error) {
	r.db.mu.Lock()
	id, ok := r.db.numbers[number]
	r.db.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r memProductRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.db.products {
		if p.StoreID == storeID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantNumber < out[j].ParticipantNumber })
	return page(out, limit, offset), nil
}

func (r memProductRepo) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.productBaseline + int64(len(r.db.products)), nil
}

func (r memProductRepo) Deactivate(_ context.Context, id, actorID string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = false
	p.DeactivatedAt = &at
	p.DeactivatedBy = &actorID
	return nil
}

type memUserRepo struct {
	db *memDB
	tx *memTx
}

func (r memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.db.users[u.ID] = &cp
	r.tx.onRollback(func() { delete(r.db.users, u.ID) })
	return nil
}

func (r memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memUserRepo) ListByStoreAndRole(_ context.Context, storeID, role string, limit, offset int) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.User
	for _, u := range r.db.users {
		if u.Role == role && u.BelongsToStore(storeID) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r memUserRepo) CountByStoreAndRole(_ context.Context, storeID, role string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, u := range r.db.users {
		if u.Role == role && u.BelongsToStore(storeID) {
			n++
		}
	}
	return n, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// recordingMetrics cuenta eventos para las aserciones.
type recordingMetrics struct {
	mu        sync.Mutex
	rejected  map[domain.LimitScope]int
	reserved  int
	failed    map[string]int
	completed map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		rejected:  make(map[domain.LimitScope]int),
		failed:    make(map[string]int),
		completed: make(map[string]int),
	}
}

func (m *recordingMetrics) LimitRejected(scope domain.LimitScope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[scope]++
}

func (m *recordingMetrics) NumberReserved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reserved++
}

func (m *recordingMetrics) AttemptFailed(kind, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[kind+"/"+reason]++
}

func (m *recordingMetrics) CreationCompleted(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[kind+"/"+outcome]++
}

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestService(db *memDB, limits Limits, metrics Metrics) *Service {
	pool := memTxRunner{db: db}
	return NewService(Deps{
		Tx:       pool,
		Stores:   memStoreRepo{db: db},
		Products: memProductRepo{db: db},
		Users:    memUserRepo{db: db},
		Logger:   zerolog.Nop(),
		Metrics:  metrics,
		Now:      func() time.Time { return testNow },
		NewID:    func() string { return db.nextID("id") },
	}, Config{
		Limits:        limits,
		MaxAttempts:   3,
		RetryInterval: time.Millisecond,
		PasswordCost:  bcrypt.MinCost,
	})
}
