package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for all transaction and budget dates.
const DateLayout = "2006-01-02"

// WithdrawalTarget is the sentinel the client sends as transfer_to_wallet_id
// when funds leave every tracked wallet.
const WithdrawalTarget = "withdrawal"

// TransferTarget is the destination of a transfer: a concrete wallet id or
// the withdrawal sentinel. The browser client sends the raw select value, so
// the JSON may be the string "withdrawal", a numeric string, or a number.
type TransferTarget struct {
	WalletID   *int64
	Withdrawal bool
}

func (t *TransferTarget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == WithdrawalTarget {
			t.Withdrawal = true
			return nil
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid transfer target %q", s)
		}
		t.WalletID = &id
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid transfer target: %w", err)
	}
	t.WalletID = &id
	return nil
}

func (t TransferTarget) MarshalJSON() ([]byte, error) {
	if t.Withdrawal {
		return json.Marshal(WithdrawalTarget)
	}
	if t.WalletID != nil {
		return json.Marshal(*t.WalletID)
	}
	return []byte("null"), nil
}

// TransactionItemPayload is one itemized line of an expense payload.
type TransactionItemPayload struct {
	Name              string          `json:"name" binding:"required"`
	Amount            decimal.Decimal `json:"amount"`
	ExpenseCategoryID *int64          `json:"expense_category_id"`
}

// CreateTransactionRequest is the POST/PUT /api/transactions payload. Field
// names follow the original browser client; only the fields relevant to Type
// are expected to be set.
type CreateTransactionRequest struct {
	Date   string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type" binding:"required"`

	ExpenseCategoryID    *int64          `json:"expense_category_id"`
	WalletCategoryID     *int64          `json:"wallet_category_id"`
	CreditCategoryID     *int64          `json:"credit_category_id"`
	TransferFromWalletID *int64          `json:"transfer_from_wallet_id"`
	TransferToWalletID   *TransferTarget `json:"transfer_to_wallet_id"`
	ChargeFromWalletID   *int64          `json:"charge_from_wallet_id"`
	ChargeFromCreditID   *int64          `json:"charge_from_credit_id"`
	ChargeToWalletID     *int64          `json:"charge_to_wallet_id"`
	BudgetFromCategoryID *int64          `json:"budget_from_category_id"`
	BudgetToCategoryID   *int64          `json:"budget_to_category_id"`

	Description     string `json:"description"`
	Memo            string `json:"memo"`
	PaymentLocation string `json:"payment_location"`
	Notes           string `json:"notes"`

	Items []TransactionItemPayload `json:"items"`
}

// TransactionItemResponse mirrors a transaction_items row with its joined
// category name.
type TransactionItemResponse struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Amount              decimal.Decimal `json:"amount"`
	ExpenseCategoryID   *int64          `json:"expense_category_id"`
	ExpenseCategoryName string          `json:"expense_category_name,omitempty"`
}

// TransactionResponse mirrors a transactions row with joined category names.
type TransactionResponse struct {
	ID     int64           `json:"id"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`

	ExpenseCategoryID    *int64 `json:"expense_category_id"`
	WalletCategoryID     *int64 `json:"wallet_category_id"`
	CreditCategoryID     *int64 `json:"credit_category_id"`
	TransferFromWalletID *int64 `json:"transfer_from_wallet_id"`
	TransferToWalletID   *int64 `json:"transfer_to_wallet_id"`
	ChargeFromWalletID   *int64 `json:"charge_from_wallet_id"`
	ChargeFromCreditID   *int64 `json:"charge_from_credit_id"`
	ChargeToWalletID     *int64 `json:"charge_to_wallet_id"`
	BudgetFromCategoryID *int64 `json:"budget_from_category_id"`
	BudgetToCategoryID   *int64 `json:"budget_to_category_id"`

	Description     string `json:"description"`
	Memo            string `json:"memo"`
	PaymentLocation string `json:"payment_location"`
	Notes           string `json:"notes"`

	ExpenseCategoryName string `json:"expense_category_name,omitempty"`
	WalletCategoryName  string `json:"wallet_category_name,omitempty"`
	CreditCategoryName  string `json:"credit_category_name,omitempty"`

	Items []TransactionItemResponse `json:"items,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToTransactionResponse converts a domain transaction for the wire.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                   txn.ID,
		Date:                 txn.Date.Format(DateLayout),
		Amount:               txn.Amount,
		Type:                 string(txn.Type),
		ExpenseCategoryID:    txn.ExpenseCategoryID,
		WalletCategoryID:     txn.WalletCategoryID,
		CreditCategoryID:     txn.CreditCategoryID,
		TransferFromWalletID: txn.TransferFromWalletID,
		TransferToWalletID:   txn.TransferToWalletID,
		ChargeFromWalletID:   txn.ChargeFromWalletID,
		ChargeFromCreditID:   txn.ChargeFromCreditID,
		ChargeToWalletID:     txn.ChargeToWalletID,
		BudgetFromCategoryID: txn.BudgetFromCategoryID,
		BudgetToCategoryID:   txn.BudgetToCategoryID,
		Description:          txn.Description,
		Memo:                 txn.Memo,
		PaymentLocation:      txn.PaymentLocation,
		Notes:                txn.Notes,
		ExpenseCategoryName:  txn.ExpenseCategoryName,
		WalletCategoryName:   txn.WalletCategoryName,
		CreditCategoryName:   txn.CreditCategoryName,
		CreatedAt:            txn.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:            txn.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, item := range txn.Items {
		resp.Items = append(resp.Items, TransactionItemResponse{
			ID:                  item.ID,
			Name:                item.Name,
			Amount:              item.Amount,
			ExpenseCategoryID:   item.ExpenseCategoryID,
			ExpenseCategoryName: item.ExpenseCategoryName,
		})
	}
	return resp
}

// ToTransactionResponses converts a slice for the wire.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
