package repositories

// RepositoryProvider bundles the repository implementations for one storage
// backend. Exactly one provider (pgsql or sqlite) is constructed per process.
type RepositoryProvider struct {
	Category    CategoryRepositoryFacade
	Transaction TransactionRepositoryFacade
	Budget      BudgetRepositoryFacade

	// Close releases the underlying pool or file handle.
	Close func()
}
