package repository

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Operations    OperationRepository
	Composition   CompositionRepository
	Warehouse     WarehouseRepository
	Companies     CompanyRepository
	Accruals      TokenAccrualRepository
	Compensations CompensationRepository
}
