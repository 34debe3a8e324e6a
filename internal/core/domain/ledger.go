package domain

// EffectOf computes the side effect a transaction has on wallet balances and
// monthly credit summaries while it is active.
//
// The transfer/charge asymmetry is a domain rule, not a bug: a transfer to
// the withdrawal sentinel only debits the source (funds leave the tracked
// system), while a charge funded by credit credits the target wallet with no
// offsetting wallet debit — the liability accrues in the card's monthly
// summary instead.
func EffectOf(t *Transaction) Effect {
	e := NewEffect()
	month := CreditMonth{Year: t.Date.Year(), Month: int(t.Date.Month())}

	switch t.Type {
	case TypeExpense:
		if t.WalletCategoryID != nil {
			e = e.AddWallet(*t.WalletCategoryID, t.Amount.Neg())
		}
		if t.CreditCategoryID != nil {
			month.CreditCategoryID = *t.CreditCategoryID
			e = e.AddCredit(month, t.Amount)
		}
	case TypeIncome:
		if t.WalletCategoryID != nil {
			e = e.AddWallet(*t.WalletCategoryID, t.Amount)
		}
	case TypeTransfer:
		if t.TransferFromWalletID != nil {
			e = e.AddWallet(*t.TransferFromWalletID, t.Amount.Neg())
		}
		if t.TransferToWalletID != nil {
			e = e.AddWallet(*t.TransferToWalletID, t.Amount)
		}
	case TypeCharge:
		if t.ChargeToWalletID != nil {
			e = e.AddWallet(*t.ChargeToWalletID, t.Amount)
		}
		if t.ChargeFromWalletID != nil {
			e = e.AddWallet(*t.ChargeFromWalletID, t.Amount.Neg())
		}
		if t.ChargeFromCreditID != nil {
			month.CreditCategoryID = *t.ChargeFromCreditID
			e = e.AddCredit(month, t.Amount)
		}
	case TypeBudgetTransfer:
		// Pure bookkeeping: shifts budget remaining at aggregation time,
		// never wallet or credit state.
	}
	return e
}
