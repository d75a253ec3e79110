package postgres_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/morvic-api/internal/application/billing"
	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/inventory"
	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
	"github.com/jhoicas/morvic-api/internal/infrastructure/migration"
	"github.com/jhoicas/morvic-api/internal/infrastructure/postgres"
	"github.com/jhoicas/morvic-api/pkg/config"
)

// Un solo contenedor por paquete; cada prueba vacía las tablas al empezar.
var (
	sharedOnce      sync.Once
	sharedContainer *tcpostgres.PostgresContainer
	sharedPool      *pgxpool.Pool
	sharedErr       error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if sharedPool != nil {
		sharedPool.Close()
	}
	if sharedContainer != nil {
		_ = sharedContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func startPostgres(ctx context.Context) (*tcpostgres.PostgresContainer, *pgxpool.Pool, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("morvic_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}

	migrationsPath, err := filepath.Abs(filepath.Join("..", "..", "..", "migrations"))
	if err != nil {
		return container, nil, err
	}
	mg, err := migration.New(dsn, migrationsPath, zerolog.Nop())
	if err != nil {
		return container, nil, err
	}
	upErr := mg.Up()
	closeErr := mg.Close()
	if err := errors.Join(upErr, closeErr); err != nil {
		return container, nil, err
	}

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 8})
	return container, pool, err
}

// newTestDB devuelve el pool compartido con las tablas vacías. Con -short la prueba se omite.
func newTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	sharedOnce.Do(func() {
		sharedContainer, sharedPool, sharedErr = startPostgres(context.Background())
	})
	require.NoError(t, sharedErr, "no se pudo levantar PostgreSQL")

	_, err := sharedPool.Exec(context.Background(), `
		TRUNCATE detalle_venta, venta, kardex_inventario, detalle_pedido, pedido,
			imagen_producto, imagen, producto, usuario RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return sharedPool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, name, email string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO usuario (nombre, correo, password_hash, rol) VALUES ($1, $2, 'x', 'admin') RETURNING id_usuario`,
		name, email).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, name string, stock int) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO producto (nombre, precio, stock_actual) VALUES ($1, 100.00, $2) RETURNING id_producto`,
		name, stock).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestProductRepo_NoEncontradoDevuelveNil(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	repos := postgres.NewRepos(pool)

	p, err := repos.Products.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, p)

	o, err := repos.Orders.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, o)

	s, err := repos.Sales.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, s)

	assert.ErrorIs(t, repos.Products.UpdateStock(ctx, 999, 1), domain.ErrProductNotFound)
}

func TestProductRepo_CheckImpideStockNegativo(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, pool, "Polo", 1)

	err := postgres.NewProductRepository(pool).UpdateStock(ctx, p, -1)

	require.Error(t, err)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "23514", pgErr.Code, "check_violation")
	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, got.StockActual)
}

func TestReserve_ForUpdateSerializaReservasConcurrentes(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	p := seedProduct(t, pool, "Polo", 1)

	reserve := func(r repository.TxRepos) error {
		_, err := inventory.NewStockManager(r.Products).Reserve(ctx, p, 1)
		return err
	}

	locked := make(chan struct{})
	release := make(chan struct{})
	firstErr := make(chan error, 1)
	go func() {
		firstErr <- runner.Run(ctx, func(r repository.TxRepos) error {
			if err := reserve(r); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	select {
	case <-locked:
	case err := <-firstErr:
		t.Fatalf("la primera reserva falló: %v", err)
	}

	secondErr := make(chan error, 1)
	go func() { secondErr <- runner.Run(ctx, reserve) }()

	select {
	case err := <-secondErr:
		t.Fatalf("la segunda reserva no esperó el bloqueo de la fila: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
	close(release)

	require.NoError(t, <-firstErr)
	assert.ErrorIs(t, <-secondErr, domain.ErrInsufficientStock)

	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockActual)
}

func TestReserve_ConcurrentesSinBarreraSoloUnaGana(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	p := seedProduct(t, pool, "Gorra", 1)

	const workers = 6
	start := make(chan struct{})
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs <- runner.Run(ctx, func(r repository.TxRepos) error {
				_, err := inventory.NewStockManager(r.Products).Reserve(ctx, p, 1)
				return err
			})
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Errorf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, insufficient)
}

func TestSaleRepo_LockReceiptSequenceBloqueaHastaElCommit(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)

	locked := make(chan struct{})
	release := make(chan struct{})
	firstErr := make(chan error, 1)
	go func() {
		firstErr <- runner.Run(ctx, func(r repository.TxRepos) error {
			if err := r.Sales.LockReceiptSequence(ctx); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	select {
	case <-locked:
	case err := <-firstErr:
		t.Fatalf("no se tomó el lock: %v", err)
	}

	secondErr := make(chan error, 1)
	go func() {
		secondErr <- runner.Run(ctx, func(r repository.TxRepos) error {
			return r.Sales.LockReceiptSequence(ctx)
		})
	}()
	select {
	case err := <-secondErr:
		t.Fatalf("el segundo lock no esperó: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
	close(release)

	require.NoError(t, <-firstErr)
	require.NoError(t, <-secondErr)
}

func TestRegister_NumeracionCorrelativaConcurrente(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, pool, "Admin", "admin@morvic.pe")
	p := seedProduct(t, pool, "Casaca", 10)
	uc := billing.NewSaleUseCase(postgres.NewTxRunner(pool), postgres.NewRepos(pool),
		billing.NewSaleGenerator(), nil, "Morvic", zerolog.Nop())

	const sales = 5
	numbers := make(chan string, sales)
	errs := make(chan error, sales)
	var wg sync.WaitGroup
	for i := 0; i < sales; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := uc.Register(ctx, user, dto.RegisterSaleRequest{
				Detalles: []dto.SaleLineRequest{{IDProducto: p, Cantidad: 1, PrecioUnitario: decimal.RequireFromString("100.00")}},
			})
			if err != nil {
				errs <- err
				return
			}
			numbers <- out.NumeroComprobante
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Errorf("registro falló: %v", err)
	}
	var got []string
	for n := range numbers {
		got = append(got, n)
	}
	sort.Strings(got)
	assert.Equal(t, []string{"B001-00001", "B001-00002", "B001-00003", "B001-00004", "B001-00005"}, got)
}

func TestSaleRepo_NumeroDuplicadoSeTraduce(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, pool, "Admin", "admin@morvic.pe")
	sales := postgres.NewSaleRepository(pool)

	newSale := func() *entity.Sale {
		return &entity.Sale{
			SoldAt:        time.Now(),
			Subtotal:      decimal.RequireFromString("100.00"),
			IGV:           decimal.RequireFromString("18.00"),
			Total:         decimal.RequireFromString("118.00"),
			ReceiptType:   entity.ReceiptTypeBoleta,
			ReceiptNumber: "B001-00007",
			Status:        entity.SaleStatusCompleted,
			UserID:        user,
		}
	}
	require.NoError(t, sales.Create(ctx, newSale()))

	err := sales.Create(ctx, newSale())
	assert.ErrorIs(t, err, domain.ErrDuplicateReceipt)

	last, err := sales.LastReceiptNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B001-00007", last)
}

func TestKardexRepo_OrdenPorIDAunqueLaFechaRetroceda(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, pool, "Polo", 10)
	kardex := postgres.NewKardexRepository(pool)

	later := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	first := &entity.KardexEntry{OccurredAt: later, Type: entity.KardexSalida, Quantity: 3, ResultingStock: 7, OriginRef: 1, ProductID: p}
	second := &entity.KardexEntry{OccurredAt: later.Add(-time.Minute), Type: entity.KardexEntrada, Quantity: 3, ResultingStock: 10, OriginRef: 1, ProductID: p}
	require.NoError(t, kardex.Create(ctx, first))
	require.NoError(t, kardex.Create(ctx, second))
	require.Greater(t, second.ID, first.ID)

	got, err := kardex.ListByProduct(ctx, p)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, 7, got[0].ResultingStock)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, 10, got[1].ResultingStock)
}

func TestReportRepo_TotalesCuentanSoloCompletadas(t *testing.T) {
	pool := newTestDB(t)
	ctx := context.Background()
	user := seedUser(t, pool, "Ana", "ana@morvic.pe")
	_, err := pool.Exec(ctx, `
		INSERT INTO venta (fecha_venta, subtotal, igv, total, numero_comprobante, estado, id_usuario) VALUES
			('2024-05-10 12:00:00+00', 100.00, 18.00, 118.00, 'B001-00001', 'Completed', $1),
			('2024-05-20 12:00:00+00', 50.00, 9.00, 59.00, 'B001-00002', 'Completada', $1),
			('2024-06-01 12:00:00+00', 200.00, 36.00, 236.00, 'B001-00003', 'Anulada', $1)`, user)
	require.NoError(t, err)
	reports := postgres.NewReportRepository(pool)

	totals, err := reports.SalesTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, "177.00", totals.Total.StringFixed(2))
	assert.Equal(t, 2, totals.Count)

	months, err := reports.SalesByMonth(ctx)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, "2024-05", months[0].Month)
	assert.Equal(t, 2, months[0].Count)

	list, err := reports.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "B001-00003", list[0].Sale.ReceiptNumber)
	assert.Equal(t, entity.SaleStatusVoided, list[0].Sale.Status)
	assert.Equal(t, "Ana", list[0].CustomerName)
	assert.Equal(t, "ana@morvic.pe", list[0].CustomerEmail)

	none, err := reports.LatestSaleByOrder(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, none)
}
