package repository

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Products ProductRepository
	Orders   OrderRepository
	Sales    SaleRepository
	Kardex   KardexRepository
	Users    UserRepository
}
