package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/8gymsport-prog/penjualan/internal/models"
	"github.com/8gymsport-prog/penjualan/internal/reports"
)

type fakeAccounts struct {
	mu      sync.Mutex
	users   map[string]*models.User
	avatars map[string]*models.Avatar
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: map[string]*models.User{}, avatars: map[string]*models.Avatar{}}
}

func (f *fakeAccounts) EnsureProfile(_ context.Context, id, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	u := &models.User{ID: id, Email: email, Username: id, Role: models.RoleUser}
	f.users[id] = u
	return u, nil
}

func (f *fakeAccounts) Profile(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (f *fakeAccounts) UpdateUsername(_ context.Context, id string, in models.UsernameInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].Username = in.Username
	return f.users[id], nil
}

func (f *fakeAccounts) UpdatePhoto(_ context.Context, id, contentType string, data []byte) (*models.User, error) {
	if contentType != "image/png" {
		return nil, models.NewValidationError("photo", models.MsgPhotoFormat)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.avatars[id] = &models.Avatar{UserID: id, ContentType: contentType, Data: data}
	f.users[id].PhotoURL = "/api/users/" + id + "/photo"
	return f.users[id], nil
}

func (f *fakeAccounts) Photo(_ context.Context, id string) (*models.Avatar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.avatars[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) Contacts(_ context.Context, id string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for uid, u := range f.users {
		if uid != id {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeAccounts) admin(actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[actorID]; !ok || u.Role != models.RoleSuperadmin {
		return models.ErrForbidden
	}
	return nil
}

func (f *fakeAccounts) ListUsers(_ context.Context, actorID string) ([]models.User, error) {
	if err := f.admin(actorID); err != nil {
		return nil, err
	}
	return f.Contacts(context.Background(), "")
}

func (f *fakeAccounts) ChangeRole(_ context.Context, actorID, targetID string, in models.RoleInput) (*models.User, error) {
	if err := f.admin(actorID); err != nil {
		return nil, err
	}
	if actorID == targetID {
		return nil, &models.SelfActionError{Message: "Anda tidak dapat mengubah role akun Anda sendiri."}
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[targetID]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.Role = in.Role
	return u, nil
}

func (f *fakeAccounts) DeleteUser(_ context.Context, actorID, targetID string) error {
	if err := f.admin(actorID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[targetID]; !ok {
		return models.ErrNotFound
	}
	delete(f.users, targetID)
	return nil
}

type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]*models.Product
	seq      int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*models.Product{}}
}

func (f *fakeCatalog) List(_ context.Context, userID string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Create(_ context.Context, userID string, in models.ProductInput) (*models.Product, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	p := &models.Product{ID: fmt.Sprintf("p%d", f.seq), UserID: userID, Name: in.Name, Price: in.Price}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalog) Update(_ context.Context, userID, id string, in models.ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.UserID != userID {
		return nil, models.ErrNotFound
	}
	p.Name, p.Price = in.Name, in.Price
	return p, nil
}

func (f *fakeCatalog) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.UserID != userID {
		return models.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeSales struct {
	txs      []models.Transaction
	lastList models.DateRange
	err      error
}

func (f *fakeSales) Record(_ context.Context, userID string, in models.TransactionInput) (*models.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	t := models.Transaction{ID: "t1", UserID: userID, ProductID: in.ProductID, Quantity: in.Quantity, Payments: in.Payments}
	f.txs = append(f.txs, t)
	return &t, nil
}

func (f *fakeSales) QuickSale(_ context.Context, userID string, in models.QuickSaleInput) (*models.Transaction, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	total := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
	t := models.Transaction{ID: "q1", UserID: userID, ProductName: in.ProductName, Quantity: in.Quantity, Price: in.Price, Total: total,
		Payments: []models.Payment{{Method: in.PaymentMethod, Amount: total}}}
	f.txs = append(f.txs, t)
	return &t, nil
}

func (f *fakeSales) Update(_ context.Context, _, id string, _ models.TransactionInput) (*models.Transaction, error) {
	return nil, models.ErrNotFound
}

func (f *fakeSales) Delete(_ context.Context, _, id string) error {
	for i, t := range f.txs {
		if t.ID == id {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeSales) Clear(_ context.Context, _ string, rng models.DateRange) (int64, error) {
	n := int64(len(f.txs))
	f.txs = nil
	f.lastList = rng
	return n, nil
}

func (f *fakeSales) List(_ context.Context, _ string, rng models.DateRange) ([]models.Transaction, error) {
	f.lastList = rng
	if f.err != nil {
		return nil, f.err
	}
	return f.txs, nil
}

func (f *fakeSales) Summary(ctx context.Context, userID string, rng models.DateRange) (*models.SalesSummary, error) {
	txs, err := f.List(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	s := reports.Summarize(txs)
	return &s, nil
}

type fakeChats struct {
	sent []models.ChatMessage
}

func (f *fakeChats) Send(_ context.Context, from, to string, in models.MessageInput) (*models.ChatMessage, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if to == "ghost" {
		return nil, models.ErrNotFound
	}
	msg := models.ChatMessage{ID: "m1", ChatID: from + "_" + to, SenderID: from, Text: in.Text}
	f.sent = append(f.sent, msg)
	return &msg, nil
}

func (f *fakeChats) Messages(_ context.Context, _, _ string) ([]models.ChatMessage, error) {
	return f.sent, nil
}

func (f *fakeChats) Chats(_ context.Context, _ string) ([]models.Chat, error) {
	return nil, nil
}

type stubLimiter struct{ limited bool }

func (s stubLimiter) IsRateLimited(context.Context, string, int, time.Duration) bool {
	return s.limited
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

var errBoom = errors.New("boom")
