package services

import (
	portsrepo "github.com/sasatake/kakeibo_backend/internal/core/ports/repositories"
	portssvc "github.com/sasatake/kakeibo_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service against one repository provider.
// analyzer may be nil when receipt analysis is disabled.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, analyzer portssvc.ReceiptAnalyzer) *portssvc.ServiceContainer {
	ledger := NewLedgerService(repos.Transaction, repos.Category)
	return &portssvc.ServiceContainer{
		Category: NewCategoryService(repos.Category),
		Ledger:   ledger,
		Budget:   NewBudgetService(repos.Budget, repos.Category),
		Receipt:  NewReceiptService(analyzer, ledger),
	}
}
