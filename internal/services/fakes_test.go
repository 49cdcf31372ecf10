package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/8gymsport-prog/penjualan/internal/events"
	"github.com/8gymsport-prog/penjualan/internal/models"
)

// memStore is an in-memory implementation of every repository interface.
type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	avatars  map[string]models.Avatar
	products map[string]models.Product
	txs      map[string]models.Transaction
	chats    map[string]models.Chat
	messages map[string][]models.ChatMessage
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]models.User{},
		avatars:  map[string]models.Avatar{},
		products: map[string]models.Product{},
		txs:      map[string]models.Transaction{},
		chats:    map[string]models.Chat{},
		messages: map[string][]models.ChatMessage{},
	}
}

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[u.ID]; ok {
		return &existing, nil
	}
	m.users[u.ID] = *u
	stored := *u
	return &stored, nil
}

func (m *memStore) sortedUsers(skip string) []models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for id, u := range m.users {
		if id != skip {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (m *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	return m.sortedUsers(""), nil
}

func (m *memStore) ListUsersExcept(_ context.Context, id string) ([]models.User, error) {
	return m.sortedUsers(id), nil
}

func (m *memStore) updateUser(id string, fn func(*models.User)) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	fn(&u)
	m.users[id] = u
	return &u, nil
}

func (m *memStore) UpdateUsername(_ context.Context, id, username string) (*models.User, error) {
	return m.updateUser(id, func(u *models.User) { u.Username = username })
}

func (m *memStore) UpdateRole(_ context.Context, id string, role models.Role) (*models.User, error) {
	return m.updateUser(id, func(u *models.User) { u.Role = role })
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) SaveAvatar(_ context.Context, a *models.Avatar, photoURL string) (*models.User, error) {
	u, err := m.updateUser(a.UserID, func(u *models.User) { u.PhotoURL = photoURL })
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.avatars[a.UserID] = *a
	m.mu.Unlock()
	return u, nil
}

func (m *memStore) GetAvatar(_ context.Context, userID string) (*models.Avatar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.avatars[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (m *memStore) ListProducts(_ context.Context, userID string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (m *memStore) GetProduct(_ context.Context, userID, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) UpdateProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[p.ID]
	if !ok || existing.UserID != p.UserID {
		return nil, models.ErrNotFound
	}
	existing.Name = p.Name
	existing.Price = p.Price
	existing.UpdatedAt = p.UpdatedAt
	m.products[p.ID] = existing
	return &existing, nil
}

func (m *memStore) DeleteProduct(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) CreateTransaction(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs[t.ID] = *t
	return nil
}

func (m *memStore) GetTransaction(_ context.Context, userID, id string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txs[id]
	if !ok || t.UserID != userID {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

func (m *memStore) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.txs[t.ID]
	if !ok || existing.UserID != t.UserID {
		return models.ErrNotFound
	}
	m.txs[t.ID] = *t
	return nil
}

func (m *memStore) DeleteTransaction(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txs[id]
	if !ok || t.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.txs, id)
	return nil
}

func (m *memStore) ClearTransactions(_ context.Context, userID string, rng models.DateRange) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.txs {
		if t.UserID == userID && rng.Contains(t.Timestamp) {
			delete(m.txs, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListTransactions(_ context.Context, userID string, rng models.DateRange) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, t := range m.txs {
		if t.UserID == userID && rng.Contains(t.Timestamp) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *memStore) AddMessage(_ context.Context, participants []string, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[msg.ChatID] = models.Chat{
		ID:             msg.ChatID,
		ParticipantIDs: participants,
		LastMessage:    msg,
		UpdatedAt:      msg.Timestamp,
	}
	m.messages[msg.ChatID] = append(m.messages[msg.ChatID], *msg)
	return nil
}

func (m *memStore) ListMessages(_ context.Context, chatID string) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ChatMessage(nil), m.messages[chatID]...), nil
}

func (m *memStore) ListChats(_ context.Context, userID string) ([]models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Chat
	for _, c := range m.chats {
		for _, p := range c.ParticipantIDs {
			if p == userID {
				out = append(out, c)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

type memSummaryCache struct {
	mu          sync.Mutex
	entries     map[string]models.SalesSummary
	generations map[string]int
	gets        int
	hits        int
	invalidated int
}

func newMemSummaryCache() *memSummaryCache {
	return &memSummaryCache{entries: map[string]models.SalesSummary{}, generations: map[string]int{}}
}

func (c *memSummaryCache) Key(_ context.Context, userID string, rng models.DateRange) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("%s:%d:%d:%d", userID, c.generations[userID], rng.From.Unix(), rng.To.Unix()), nil
}

func (c *memSummaryCache) Get(_ context.Context, key string) (*models.SalesSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	s, ok := c.entries[key]
	if !ok {
		return nil, errors.New("miss")
	}
	c.hits++
	return &s, nil
}

func (c *memSummaryCache) Set(_ context.Context, key string, s *models.SalesSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = *s
	return nil
}

func (c *memSummaryCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.generations[userID]++
	return nil
}

// listHook runs after once a transaction listing returns, before the caller
// sees the result.
type listHook struct {
	TransactionRepository
	after func()
}

func (h *listHook) ListTransactions(ctx context.Context, userID string, rng models.DateRange) ([]models.Transaction, error) {
	out, err := h.TransactionRepository.ListTransactions(ctx, userID, rng)
	if h.after != nil {
		after := h.after
		h.after = nil
		after()
	}
	return out, err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingNotifier struct {
	recipients [][]string
	messages   []models.ChatMessage
}

func (n *recordingNotifier) Notify(_ context.Context, recipients []string, msg models.ChatMessage) error {
	n.recipients = append(n.recipients, recipients)
	n.messages = append(n.messages, msg)
	return nil
}

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}
