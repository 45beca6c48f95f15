package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Justice00000/nucleus-vault-app/internal/domain"
	"github.com/Justice00000/nucleus-vault-app/internal/models"
	"github.com/Justice00000/nucleus-vault-app/internal/repository"
)

// MemStore is an in-memory implementation of the repository contract for
// service and worker tests. RunInTx snapshots state before the callback
// and restores it on error, mirroring rollback semantics.
type MemStore struct {
	mu sync.Mutex

	Profiles      map[uuid.UUID]models.Profile
	Accounts      map[uuid.UUID]models.Account
	Transactions  map[uuid.UUID]models.Transaction
	Documents     map[uuid.UUID]models.KYCDocument
	AuditLogs     []models.AuditLog
	Notifications []models.Notification
	Outbox        map[uuid.UUID]models.OutboxMessage

	now time.Time
}

func New() *MemStore {
	return &MemStore{
		Profiles:     make(map[uuid.UUID]models.Profile),
		Accounts:     make(map[uuid.UUID]models.Account),
		Transactions: make(map[uuid.UUID]models.Transaction),
		Documents:    make(map[uuid.UUID]models.KYCDocument),
		Outbox:       make(map[uuid.UUID]models.OutboxMessage),
		now:          time.Now(),
	}
}

var _ repository.Querier = (*MemStore)(nil)

func (m *MemStore) Queries() repository.Querier { return m }

func (m *MemStore) RunInTx(ctx context.Context, fn func(q repository.Querier) error) error {
	m.mu.Lock()
	snapshot := m.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.restore(snapshot)
		m.mu.Unlock()
		return err
	}
	return nil
}

type state struct {
	profiles      map[uuid.UUID]models.Profile
	accounts      map[uuid.UUID]models.Account
	transactions  map[uuid.UUID]models.Transaction
	documents     map[uuid.UUID]models.KYCDocument
	auditLogs     []models.AuditLog
	notifications []models.Notification
	outbox        map[uuid.UUID]models.OutboxMessage
}

func (m *MemStore) clone() state {
	return state{
		profiles:      cloneMap(m.Profiles),
		accounts:      cloneMap(m.Accounts),
		transactions:  cloneMap(m.Transactions),
		documents:     cloneMap(m.Documents),
		auditLogs:     append([]models.AuditLog(nil), m.AuditLogs...),
		notifications: append([]models.Notification(nil), m.Notifications...),
		outbox:        cloneMap(m.Outbox),
	}
}

func (m *MemStore) restore(s state) {
	m.Profiles = s.profiles
	m.Accounts = s.accounts
	m.Transactions = s.transactions
	m.Documents = s.documents
	m.AuditLogs = s.auditLogs
	m.Notifications = s.notifications
	m.Outbox = s.outbox
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *MemStore) tick() time.Time {
	m.now = m.now.Add(time.Millisecond)
	return m.now
}

// Profiles

func (m *MemStore) CreateProfile(ctx context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.CreatedAt = m.tick()
	p.UpdatedAt = p.CreatedAt
	m.Profiles[p.ID] = *p
	return nil
}

func (m *MemStore) GetProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (m *MemStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Profiles {
		if strings.EqualFold(p.Email, email) {
			p := p
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *MemStore) GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Profile
	for _, id := range ids {
		if p, ok := m.Profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemStore) ListProfiles(ctx context.Context, status *domain.UserStatus, limit, offset int32) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Profile
	for _, p := range m.Profiles {
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (m *MemStore) UpdateProfileFields(ctx context.Context, arg repository.UpdateProfileFieldsParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[arg.ID]
	if !ok {
		return 0, nil
	}
	p.Phone = arg.Phone
	p.Address = arg.Address
	p.City = arg.City
	p.State = arg.State
	p.ZipCode = arg.ZipCode
	p.UpdatedAt = m.tick()
	m.Profiles[arg.ID] = p
	return 1, nil
}

func (m *MemStore) UpdateProfileStatus(ctx context.Context, id uuid.UUID, from, to domain.UserStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[id]
	if !ok || p.Status != from {
		return 0, nil
	}
	p.Status = to
	p.UpdatedAt = m.tick()
	m.Profiles[id] = p
	return 1, nil
}

func (m *MemStore) UpdateProfileKYCStatus(ctx context.Context, id uuid.UUID, status domain.KYCStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[id]
	if !ok {
		return 0, nil
	}
	p.KYCStatus = status
	p.UpdatedAt = m.tick()
	m.Profiles[id] = p
	return 1, nil
}

// Accounts

func (m *MemStore) CreateAccount(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.CreatedAt = m.tick()
	a.UpdatedAt = a.CreatedAt
	m.Accounts[a.ID] = *a
	return nil
}

func (m *MemStore) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *models.Account
	for _, a := range m.Accounts {
		a := a
		if a.UserID != userID {
			continue
		}
		if found == nil || a.CreatedAt.Before(found.CreatedAt) {
			found = &a
		}
	}
	if found == nil {
		return nil, pgx.ErrNoRows
	}
	return found, nil
}

func (m *MemStore) GetAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Accounts {
		if a.AccountNumber == number {
			a := a
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *MemStore) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (m *MemStore) CreditAccount(ctx context.Context, id uuid.UUID, amountCents int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[id]
	if !ok {
		return 0, nil
	}
	a.BalanceCents += amountCents
	a.UpdatedAt = m.tick()
	m.Accounts[id] = a
	return 1, nil
}

func (m *MemStore) DebitAccount(ctx context.Context, id uuid.UUID, amountCents int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[id]
	if !ok || a.BalanceCents < amountCents {
		return 0, nil
	}
	a.BalanceCents -= amountCents
	a.UpdatedAt = m.tick()
	m.Accounts[id] = a
	return 1, nil
}

// Transactions

func (m *MemStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = m.tick()
	t.UpdatedAt = t.CreatedAt
	m.Transactions[t.ID] = *t
	return nil
}

func (m *MemStore) GetTransaction(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (m *MemStore) GetTransactionForUpdate(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return m.GetTransaction(ctx, id)
}

func (m *MemStore) ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (m *MemStore) ListTransactions(ctx context.Context, status *domain.TransactionStatus, limit, offset int32) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.Transactions {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (m *MemStore) UpdateTransactionDecision(ctx context.Context, arg repository.UpdateTransactionDecisionParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[arg.ID]
	if !ok || t.Status != arg.FromStatus {
		return 0, nil
	}
	now := m.tick()
	t.Status = arg.Status
	t.AdminNotes = arg.AdminNotes
	t.ProcessedBy = &arg.ProcessedBy
	t.ProcessedAt = &now
	t.UpdatedAt = now
	m.Transactions[arg.ID] = t
	return 1, nil
}

// KYC documents

func (m *MemStore) CreateKYCDocument(ctx context.Context, d *models.KYCDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.CreatedAt = m.tick()
	m.Documents[d.ID] = *d
	return nil
}

func (m *MemStore) GetKYCDocument(ctx context.Context, id uuid.UUID) (*models.KYCDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Documents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &d, nil
}

func (m *MemStore) GetKYCDocumentForUpdate(ctx context.Context, id uuid.UUID) (*models.KYCDocument, error) {
	return m.GetKYCDocument(ctx, id)
}

func (m *MemStore) ListKYCDocumentsByUser(ctx context.Context, userID uuid.UUID) ([]models.KYCDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.KYCDocument
	for _, d := range m.Documents {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) ListKYCDocuments(ctx context.Context, status *domain.KYCStatus, limit, offset int32) ([]models.KYCDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.KYCDocument
	for _, d := range m.Documents {
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (m *MemStore) UpdateKYCDocumentDecision(ctx context.Context, arg repository.UpdateKYCDocumentDecisionParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Documents[arg.ID]
	if !ok || d.Status != arg.FromStatus {
		return 0, nil
	}
	d.Status = arg.Status
	d.Notes = arg.Notes
	d.ReviewedBy = arg.ReviewedBy
	if arg.ReviewedBy == nil {
		d.ReviewedAt = nil
	} else {
		now := m.tick()
		d.ReviewedAt = &now
	}
	m.Documents[arg.ID] = d
	return 1, nil
}

// Audit and notifications

func (m *MemStore) InsertAuditLog(ctx context.Context, l *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.CreatedAt = m.tick()
	m.AuditLogs = append(m.AuditLogs, *l)
	return nil
}

func (m *MemStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.CreatedAt = m.tick()
	m.Notifications = append(m.Notifications, *n)
	return nil
}

func (m *MemStore) ListNotificationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// Outbox

func (m *MemStore) EnqueueOutbox(ctx context.Context, msg *models.OutboxMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.Status = models.OutboxPending
	msg.CreatedAt = m.tick()
	msg.UpdatedAt = msg.CreatedAt
	m.Outbox[msg.ID] = *msg
	return nil
}

func (m *MemStore) ClaimOutboxBatch(ctx context.Context, limit int32, staleBefore time.Time) ([]models.OutboxMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var due []models.OutboxMessage
	for _, msg := range m.Outbox {
		pendingDue := msg.Status == models.OutboxPending && (msg.NextRetryAt == nil || !msg.NextRetryAt.After(now))
		stale := msg.Status == models.OutboxProcessing && msg.UpdatedAt.Before(staleBefore)
		if pendingDue || stale {
			due = append(due, msg)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].CreatedAt.Before(due[j].CreatedAt) })
	if int32(len(due)) > limit {
		due = due[:limit]
	}
	for i := range due {
		due[i].Status = models.OutboxProcessing
		due[i].UpdatedAt = m.tick()
		m.Outbox[due[i].ID] = due[i]
	}
	return due, nil
}

func (m *MemStore) MarkOutboxPublished(ctx context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.Outbox[id]
	if !ok {
		return 0, nil
	}
	msg.Status = models.OutboxPublished
	msg.UpdatedAt = m.tick()
	m.Outbox[id] = msg
	return 1, nil
}

func (m *MemStore) MarkOutboxFailed(ctx context.Context, id uuid.UUID, nextRetryAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.Outbox[id]
	if !ok {
		return 0, nil
	}
	msg.Status = models.OutboxPending
	msg.Attempts++
	msg.NextRetryAt = &nextRetryAt
	msg.UpdatedAt = m.tick()
	m.Outbox[id] = msg
	return 1, nil
}

func (m *MemStore) CountOutboxBacklog(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, msg := range m.Outbox {
		if msg.Status == models.OutboxPending || msg.Status == models.OutboxProcessing {
			n++
		}
	}
	return n, nil
}

func page[T any](in []T, limit, offset int32) []T {
	if offset >= int32(len(in)) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && int32(len(in)) > limit {
		in = in[:limit]
	}
	return in
}
