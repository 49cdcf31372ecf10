package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleSuperadmin Role = "superadmin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleSuperadmin
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Avatar struct {
	UserID      string
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Tunai"
	PaymentQR       PaymentMethod = "QR"
	PaymentTransfer PaymentMethod = "Transfer"
)

// PaymentMethods lists the accepted methods in report order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentQR, PaymentTransfer}

func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

type Payment struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type Product struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Transaction struct {
	ID          string          `json:"id"`
	ReceiptCode string          `json:"receiptCode"`
	UserID      string          `json:"userId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Payments    []Payment       `json:"payments"`
	Timestamp   time.Time       `json:"timestamp"`
}

// PaidBy sums the payments made with one method.
func (t Transaction) PaidBy(method PaymentMethod) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range t.Payments {
		if p.Method == method {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

type SalesSummary struct {
	TotalSales decimal.Decimal `json:"totalSales"`
	Tunai      decimal.Decimal `json:"tunai"`
	QR         decimal.Decimal `json:"qr"`
	Transfer   decimal.Decimal `json:"transfer"`
	Count      int             `json:"count"`
}

type Chat struct {
	ID             string       `json:"id"`
	ParticipantIDs []string     `json:"participantIds"`
	LastMessage    *ChatMessage `json:"lastMessage,omitempty"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// DateRange is a half-open interval [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

// Day returns the range covering the calendar day of t in t's location.
func Day(t time.Time) DateRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return DateRange{From: start, To: start.AddDate(0, 0, 1)}
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}
