package domain

import "github.com/shopspring/decimal"

// CreditMonth keys a monthly credit summary row.
type CreditMonth struct {
	CreditCategoryID int64
	Year             int
	Month            int
}

// Effect is the explicit side effect of one ledger mutation: signed deltas
// against wallet balances and monthly credit summaries. Computing the effect
// separately from applying it lets edit/delete reverse a transaction exactly
// and keeps the arithmetic testable without storage.
type Effect struct {
	WalletDeltas map[int64]decimal.Decimal
	CreditDeltas map[CreditMonth]decimal.Decimal
}

// NewEffect returns an empty effect.
func NewEffect() Effect {
	return Effect{
		WalletDeltas: make(map[int64]decimal.Decimal),
		CreditDeltas: make(map[CreditMonth]decimal.Decimal),
	}
}

// AddWallet accumulates a signed delta against a wallet balance.
func (e Effect) AddWallet(walletID int64, delta decimal.Decimal) Effect {
	e.WalletDeltas[walletID] = e.WalletDeltas[walletID].Add(delta)
	return e
}

// AddCredit accumulates a signed delta against a monthly credit summary.
func (e Effect) AddCredit(key CreditMonth, delta decimal.Decimal) Effect {
	e.CreditDeltas[key] = e.CreditDeltas[key].Add(delta)
	return e
}

// Invert returns the effect that exactly undoes e.
func (e Effect) Invert() Effect {
	inv := NewEffect()
	for id, d := range e.WalletDeltas {
		inv.WalletDeltas[id] = d.Neg()
	}
	for key, d := range e.CreditDeltas {
		inv.CreditDeltas[key] = d.Neg()
	}
	return inv
}

// Merge returns a new effect combining e and other, dropping zero deltas so
// a reverse-then-reapply of an unchanged transaction merges to empty.
func (e Effect) Merge(other Effect) Effect {
	merged := NewEffect()
	for id, d := range e.WalletDeltas {
		merged.WalletDeltas[id] = d
	}
	for id, d := range other.WalletDeltas {
		merged.WalletDeltas[id] = merged.WalletDeltas[id].Add(d)
	}
	for id, d := range merged.WalletDeltas {
		if d.IsZero() {
			delete(merged.WalletDeltas, id)
		}
	}
	for key, d := range e.CreditDeltas {
		merged.CreditDeltas[key] = d
	}
	for key, d := range other.CreditDeltas {
		merged.CreditDeltas[key] = merged.CreditDeltas[key].Add(d)
	}
	for key, d := range merged.CreditDeltas {
		if d.IsZero() {
			delete(merged.CreditDeltas, key)
		}
	}
	return merged
}

// IsEmpty reports whether the effect changes nothing.
func (e Effect) IsEmpty() bool {
	for _, d := range e.WalletDeltas {
		if !d.IsZero() {
			return false
		}
	}
	for _, d := range e.CreditDeltas {
		if !d.IsZero() {
			return false
		}
	}
	return true
}
