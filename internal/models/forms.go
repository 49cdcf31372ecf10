package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MsgProductName      = "Nama produk minimal 2 karakter."
	MsgProductPrice     = "Harga harus angka positif."
	MsgQuickSalePrice   = "Harga tidak boleh negatif."
	MsgProductRequired  = "Silakan pilih produk."
	MsgQuantity         = "Kuantitas minimal 1."
	MsgPaymentsRequired = "Minimal ada satu metode pembayaran."
	MsgPaymentAmount    = "Jumlah tidak boleh negatif."
	MsgPaymentMethod    = "Metode pembayaran tidak valid."
	MsgPaymentMismatch  = "Total pembayaran harus sama dengan total tagihan."
	MsgAmountPrecision  = "Maksimal 2 angka di belakang koma."
	MsgUsername         = "Username harus lebih dari 2 karakter."
	MsgMessageEmpty     = "Pesan tidak boleh kosong."
	MsgRole             = "Role tidak valid."
	MsgPhotoFormat      = "Format foto tidak didukung."
	MsgPhotoSize        = "Ukuran foto terlalu besar."
)

// paymentTolerance is the largest accepted gap between paid and due amounts.
var paymentTolerance = decimal.New(1, -2)

// wholeCents reports whether d fits the NUMERIC(14,2) columns amounts are
// stored in without rounding.
func wholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func (in *ProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

func (in ProductInput) Validate() error {
	verr := &ValidationError{}
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 2 {
		verr.Add("name", MsgProductName)
	}
	if in.Price.IsNegative() {
		verr.Add("price", MsgProductPrice)
	} else if !wholeCents(in.Price) {
		verr.Add("price", MsgAmountPrecision)
	}
	return verr.OrNil()
}

type TransactionInput struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	Payments  []Payment `json:"payments"`
}

func (in TransactionInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.ProductID) == "" {
		verr.Add("productId", MsgProductRequired)
	}
	if in.Quantity < 1 {
		verr.Add("quantity", MsgQuantity)
	}
	validatePayments(verr, in.Payments)
	return verr.OrNil()
}

func validatePayments(verr *ValidationError, payments []Payment) {
	if len(payments) == 0 {
		verr.Add("payments", MsgPaymentsRequired)
		return
	}
	for i, p := range payments {
		if !p.Method.Valid() {
			verr.Add(fmt.Sprintf("payments.%d.method", i), MsgPaymentMethod)
		}
		if p.Amount.IsNegative() {
			verr.Add(fmt.Sprintf("payments.%d.amount", i), MsgPaymentAmount)
		} else if !wholeCents(p.Amount) {
			verr.Add(fmt.Sprintf("payments.%d.amount", i), MsgAmountPrecision)
		}
	}
}

// CheckPayments verifies that the payments settle the amount due.
func CheckPayments(payments []Payment, due decimal.Decimal) error {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	if paid.Sub(due).Abs().GreaterThanOrEqual(paymentTolerance) {
		return NewValidationError("payments", MsgPaymentMismatch)
	}
	return nil
}

// QuickSaleInput records a sale without a catalog product, paid in full with one method.
type QuickSaleInput struct {
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
}

func (in *QuickSaleInput) Normalize() {
	in.ProductName = strings.TrimSpace(in.ProductName)
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCash
	}
}

func (in QuickSaleInput) Validate() error {
	verr := &ValidationError{}
	if utf8.RuneCountInString(strings.TrimSpace(in.ProductName)) < 2 {
		verr.Add("productName", MsgProductName)
	}
	if in.Quantity < 1 {
		verr.Add("quantity", MsgQuantity)
	}
	if in.Price.IsNegative() {
		verr.Add("price", MsgQuickSalePrice)
	} else if !wholeCents(in.Price) {
		verr.Add("price", MsgAmountPrecision)
	}
	if !in.PaymentMethod.Valid() {
		verr.Add("paymentMethod", MsgPaymentMethod)
	}
	return verr.OrNil()
}

type UsernameInput struct {
	Username string `json:"username"`
}

func (in UsernameInput) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Username)) < 2 {
		return NewValidationError("username", MsgUsername)
	}
	return nil
}

type MessageInput struct {
	Text string `json:"text"`
}

func (in MessageInput) Validate() error {
	if strings.TrimSpace(in.Text) == "" {
		return NewValidationError("text", MsgMessageEmpty)
	}
	return nil
}

type RoleInput struct {
	Role Role `json:"role"`
}

func (in RoleInput) Validate() error {
	if !in.Role.Valid() {
		return NewValidationError("role", MsgRole)
	}
	return nil
}
