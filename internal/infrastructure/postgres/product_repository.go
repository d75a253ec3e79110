package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	id_producto, nombre, descripcion, precio, stock_actual, stock_minimo, stock_maximo,
	estado, id_categoria, id_proveedor, created_at, updated_at`

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM producto WHERE id_producto = $1`
	return r.scanOne(ctx, "get product", query, id)
}

// GetForUpdate obtiene el producto y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM producto WHERE id_producto = $1 FOR UPDATE`
	return r.scanOne(ctx, "get product for update", query, id)
}

func (r *ProductRepo) scanOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.StockActual, &p.StockMinimo, &p.StockMaximo,
		&p.Status, &p.CategoryID, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// UpdateStock fija el stock actual. El CHECK (stock_actual >= 0) de la tabla es la última barrera.
func (r *ProductRepo) UpdateStock(ctx context.Context, id int64, stock int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE producto SET stock_actual = $2, updated_at = now() WHERE id_producto = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AddImage registra la URL en imagen y la vincula al producto en imagen_producto.
func (r *ProductRepo) AddImage(ctx context.Context, img *entity.ProductImage) error {
	err := r.q.QueryRow(ctx, `INSERT INTO imagen (url) VALUES ($1) RETURNING id_imagen`, img.URL).Scan(&img.ID)
	if err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO imagen_producto (id_imagen, id_producto) VALUES ($1, $2)`, img.ID, img.ProductID)
	if err != nil {
		return fmt.Errorf("link image: %w", err)
	}
	return nil
}
