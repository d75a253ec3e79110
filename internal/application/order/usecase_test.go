package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/morvic-api/internal/application/billing"
	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/order"
	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/testutil/memdb"
)

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []dto.OrderConfirmationJob
	err  error
}

func (f *fakeNotifier) NotifyOrderCreated(_ context.Context, job dto.OrderConfirmationJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return f.err
}

type fixture struct {
	db       *memdb.Store
	uc       *order.UseCase
	notifier *fakeNotifier
	userID   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memdb.New()
	n := &fakeNotifier{}
	userID := db.PutUser(entity.User{Name: "Ana", LastName: "Quispe", Email: "ana@morvic.pe", Role: entity.RoleCliente})
	uc := order.NewUseCase(db, db.Repos(), billing.NewSaleGenerator(), n, zerolog.Nop())
	return &fixture{db: db, uc: uc, notifier: n, userID: userID}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func orderRequest(userID int64, total string, lines ...dto.OrderLineRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Pedido: dto.OrderHeaderRequest{
			Fecha:      "2024-05-10",
			Hora:       "09:15:00",
			MetodoPago: "Tarjeta",
			Total:      dec(total),
			Usuario:    &dto.UserRef{IDUsuario: userID},
		},
		DetallesPedido: lines,
	}
}

func line(productID int64, qty int, amount string) dto.OrderLineRequest {
	return dto.OrderLineRequest{Producto: dto.ProductRef{IDProducto: productID}, Cantidad: qty, Importe: dec(amount)}
}

func TestCreate_DescuentaStockYRegistraSalida(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10, Price: dec("50.00")})

	out, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "150.00", line(p, 3, "150.00")))

	require.NoError(t, err)
	assert.Equal(t, "Pending", out.Estado)
	assert.Equal(t, "127.12", out.Subtotal.StringFixed(2))
	assert.Equal(t, "22.88", out.IGV.StringFixed(2))
	require.Len(t, out.Detalles, 1)
	assert.Equal(t, "Polo", out.Detalles[0].Producto.Nombre)

	assert.Equal(t, 7, f.db.Stock(p))
	entries := f.db.Kardex(p)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.KardexSalida, entries[0].Type)
	assert.Equal(t, 3, entries[0].Quantity)
	assert.Equal(t, 7, entries[0].ResultingStock)
	assert.Equal(t, out.Detalles[0].ID, entries[0].OriginRef)
}

func TestCreate_SumaDeCantidadesIgualAlDescuento(t *testing.T) {
	f := newFixture(t)
	a := f.db.PutProduct(entity.Product{Name: "A", StockActual: 20})
	b := f.db.PutProduct(entity.Product{Name: "B", StockActual: 20})

	_, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "100.00",
		line(a, 2, "20.00"), line(b, 5, "50.00"), line(a, 4, "30.00")))
	require.NoError(t, err)

	reserved := 0
	for _, l := range f.db.OrderLines() {
		reserved += l.Quantity
	}
	decrement := (20 - f.db.Stock(a)) + (20 - f.db.Stock(b))
	assert.Equal(t, 11, reserved)
	assert.Equal(t, reserved, decrement)

	// el último asiento de cada producto coincide con su stock
	ka := f.db.Kardex(a)
	assert.Equal(t, f.db.Stock(a), ka[len(ka)-1].ResultingStock)
	assert.Equal(t, 14, f.db.Stock(a))
}

func TestCreate_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	a := f.db.PutProduct(entity.Product{Name: "A", StockActual: 10})
	b := f.db.PutProduct(entity.Product{Name: "Zapatilla", StockActual: 1})

	_, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "100.00",
		line(a, 3, "30.00"), line(b, 2, "70.00")))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Zapatilla")
	assert.Equal(t, 10, f.db.Stock(a), "la primera línea no debe quedar descontada")
	assert.Equal(t, 1, f.db.Stock(b))
	assert.Empty(t, f.db.Orders())
	assert.Empty(t, f.db.OrderLines())
	assert.Empty(t, f.db.Kardex(a))
	assert.Empty(t, f.notifier.jobs, "sin pedido no hay correo")
}

func TestCreate_ProductoInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "10.00", line(404, 1, "10.00")))

	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
	assert.Empty(t, f.db.Orders())
}

func TestCreate_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "A", StockActual: 10})

	_, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "10.00"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "sin líneas")

	_, err = f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "10.00", line(p, 0, "10.00")))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad cero")

	_, err = f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "0", line(p, 1, "10.00")))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "total cero")
}

func TestCreate_EncolaCorreoTrasCommit(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})

	out, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "59.00", line(p, 1, "59.00")))
	require.NoError(t, err)

	require.Len(t, f.notifier.jobs, 1)
	job := f.notifier.jobs[0]
	assert.Equal(t, f.userID, job.IDUsuario)
	assert.Empty(t, job.To, "el destinatario lo resuelve el worker")
	assert.Equal(t, out.IDPedido, job.Order.IDPedido)
}

func TestCreate_FalloDelCorreoNoAfectaAlPedido(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("redis caído")
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})

	_, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "59.00", line(p, 1, "59.00")))

	require.NoError(t, err)
	assert.Len(t, f.db.Orders(), 1)
	assert.Equal(t, 9, f.db.Stock(p))
}

func TestCreate_DuenoPorDefectoEsElActor(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	req := orderRequest(0, "59.00", line(p, 1, "59.00"))
	req.Pedido.Usuario = nil

	out, err := f.uc.Create(context.Background(), f.userID, req)

	require.NoError(t, err)
	assert.Equal(t, f.userID, out.Usuario.IDUsuario)
}

func createOrder(t *testing.T, f *fixture, productID int64, qty int, amount string) int64 {
	t.Helper()
	out, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, amount, line(productID, qty, amount)))
	require.NoError(t, err)
	return out.IDPedido
}

func TestUpdateStatus_CancelarDevuelveStock(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	id := createOrder(t, f, p, 3, "90.00")
	require.Equal(t, 7, f.db.Stock(p))

	out, err := f.uc.UpdateStatus(context.Background(), id, "Cancelled")

	require.NoError(t, err)
	assert.Equal(t, "Cancelled", out.Estado)
	assert.Equal(t, id, out.IDPedido)
	assert.Equal(t, "Pedido actualizado a Cancelled", out.Message)
	assert.Equal(t, 10, f.db.Stock(p))

	entries := f.db.Kardex(p)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.KardexEntrada, entries[1].Type)
	assert.Equal(t, 3, entries[1].Quantity)
	assert.Equal(t, 10, entries[1].ResultingStock)
	assert.Equal(t, entries[0].OriginRef, entries[1].OriginRef)
	assert.Empty(t, f.db.Sales())
}

func TestUpdateStatus_CancelarConVariasLineas(t *testing.T) {
	f := newFixture(t)
	a := f.db.PutProduct(entity.Product{Name: "A", StockActual: 8})
	b := f.db.PutProduct(entity.Product{Name: "B", StockActual: 5})
	out, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "100.00",
		line(a, 2, "40.00"), line(b, 5, "60.00")))
	require.NoError(t, err)

	_, err = f.uc.UpdateStatus(context.Background(), out.IDPedido, "Cancelado")
	require.NoError(t, err)

	assert.Equal(t, 8, f.db.Stock(a))
	assert.Equal(t, 5, f.db.Stock(b))
	assert.Len(t, f.db.Kardex(a), 2)
	assert.Len(t, f.db.Kardex(b), 2)
	assert.Equal(t, 5, f.db.Kardex(b)[1].ResultingStock)
}

func TestUpdateStatus_EntregarGeneraVenta(t *testing.T) {
	f := newFixture(t)
	a := f.db.PutProduct(entity.Product{Name: "A", StockActual: 10, Price: dec("999.00")})
	b := f.db.PutProduct(entity.Product{Name: "B", StockActual: 10})
	c := f.db.PutProduct(entity.Product{Name: "C", StockActual: 10})
	out, err := f.uc.Create(context.Background(), f.userID, orderRequest(f.userID, "300.00",
		line(a, 1, "100.00"), line(b, 2, "100.00"), line(c, 4, "100.00")))
	require.NoError(t, err)

	res, err := f.uc.UpdateStatus(context.Background(), out.IDPedido, "Delivered")
	require.NoError(t, err)
	assert.Equal(t, "Delivered", res.Estado)

	sales := f.db.Sales()
	require.Len(t, sales, 1)
	s := sales[0]
	assert.Equal(t, "300.00", s.Subtotal.StringFixed(2))
	assert.Equal(t, "54.00", s.IGV.StringFixed(2))
	assert.Equal(t, "354.00", s.Total.StringFixed(2))
	assert.Equal(t, "B001-00001", s.ReceiptNumber)
	assert.Equal(t, entity.ReceiptTypeBoleta, s.ReceiptType)
	assert.Equal(t, entity.SaleStatusCompleted, s.Status)
	assert.Equal(t, f.userID, s.UserID)
	require.NotNil(t, s.OrderID)
	assert.Equal(t, out.IDPedido, *s.OrderID)

	saleLines := f.db.SaleLines()
	require.Len(t, saleLines, 3)
	// importe del pedido, no precio de catálogo
	assert.Equal(t, "100.00", saleLines[0].Amount.StringFixed(2))
	assert.Equal(t, "18.00", saleLines[0].IGV.StringFixed(2))
	assert.Equal(t, "118.00", saleLines[0].AmountWithIGV.StringFixed(2))
	assert.Equal(t, "25.00", saleLines[2].UnitPrice.StringFixed(2))

	// entregar no mueve stock
	assert.Equal(t, 9, f.db.Stock(a))
	assert.Len(t, f.db.Kardex(a), 1)
}

func TestUpdateStatus_EntregarDosVecesFallaSinDuplicarVenta(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	id := createOrder(t, f, p, 1, "100.00")

	_, err := f.uc.UpdateStatus(context.Background(), id, "Delivered")
	require.NoError(t, err)

	_, err = f.uc.UpdateStatus(context.Background(), id, "Delivered")
	assert.True(t, errors.Is(err, domain.ErrTerminalState))
	assert.Len(t, f.db.Sales(), 1)
}

func TestUpdateStatus_EstadosTerminalesSonInmutables(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	id := createOrder(t, f, p, 2, "20.00")
	_, err := f.uc.UpdateStatus(context.Background(), id, "Cancelled")
	require.NoError(t, err)

	for _, st := range []string{"Pending", "InProcess", "Delivered", "Cancelled"} {
		_, err := f.uc.UpdateStatus(context.Background(), id, st)
		assert.True(t, errors.Is(err, domain.ErrTerminalState), st)
	}
	assert.Equal(t, 10, f.db.Stock(p), "cancelar otra vez no debe devolver stock dos veces")
	assert.Empty(t, f.db.Sales())
}

func TestUpdateStatus_TransicionesSinEfectos(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	id := createOrder(t, f, p, 2, "20.00")

	res, err := f.uc.UpdateStatus(context.Background(), id, "En Proceso")
	require.NoError(t, err)
	assert.Equal(t, "InProcess", res.Estado)

	_, err = f.uc.UpdateStatus(context.Background(), id, "Pending")
	require.NoError(t, err)

	assert.Equal(t, 8, f.db.Stock(p))
	assert.Len(t, f.db.Kardex(p), 1)
	assert.Empty(t, f.db.Sales())
}

func TestUpdateStatus_EstadoInvalidoYPedidoInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.UpdateStatus(context.Background(), 1, "Shipped")
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))

	_, err = f.uc.UpdateStatus(context.Background(), 999, "Cancelled")
	assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
}

func TestUpdateStatus_FalloAlGuardarVentaRevierteEntrega(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	id := createOrder(t, f, p, 1, "100.00")
	f.db.Fail("sales.CreateLine", errors.New("conexión perdida"))

	_, err := f.uc.UpdateStatus(context.Background(), id, "Delivered")

	require.Error(t, err)
	assert.Empty(t, f.db.Sales())
	got, err := f.uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Pending", got.Estado)
}

func TestUpdateStatus_ReintentaUnaVezPorComprobanteDuplicado(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	id := createOrder(t, f, p, 1, "100.00")
	f.db.Fail("sales.Create", domain.ErrDuplicateReceipt)

	_, err := f.uc.UpdateStatus(context.Background(), id, "Delivered")

	require.NoError(t, err)
	assert.Len(t, f.db.Sales(), 1)
}

func TestUpdateStatus_ComprobanteDuplicadoDosVecesFalla(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	id := createOrder(t, f, p, 1, "100.00")
	f.db.Fail("sales.Create", domain.ErrDuplicateReceipt, domain.ErrDuplicateReceipt)

	_, err := f.uc.UpdateStatus(context.Background(), id, "Delivered")

	assert.True(t, errors.Is(err, domain.ErrDuplicateReceipt))
	assert.Empty(t, f.db.Sales())
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	p := f.db.PutProduct(entity.Product{Name: "Polo", StockActual: 10})
	id := createOrder(t, f, p, 2, "40.00")

	out, err := f.uc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, out.IDPedido)
	require.Len(t, out.Detalles, 1)
	assert.Equal(t, "Polo", out.Detalles[0].Producto.Nombre)

	_, err = f.uc.Get(context.Background(), 12345)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
