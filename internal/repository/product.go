package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/product"
)

const productColumns = `id, title, description, category, price, sale_price, total_stock, images`

const (
	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductsByIDsSQL = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	listProductIDsSQL = `SELECT id FROM products`

	upsertProductSQL = `INSERT INTO products (id, title, description, category, price, sale_price, total_stock, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			sale_price = EXCLUDED.sale_price,
			total_stock = EXCLUDED.total_stock,
			images = EXCLUDED.images,
			updated_at = now()`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Search runs a faceted catalog query. Facet dimensions combine with AND;
// values within a dimension combine with OR. Results are paginated and the
// total row count is computed with a separate COUNT over the same predicate.
func (r *ProductRepository) Search(ctx context.Context, q product.Query) (*product.Page, error) {
	where, args := buildPredicate(q)

	var total int
	countSQL := `SELECT count(*) FROM products` + where
	if err := r.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, errors.Wrap(err, "count products")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 20
	}

	searchSQL := fmt.Sprintf(`SELECT %s FROM products%s %s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderClause(q.Sort), len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	rows, err := r.pool.Query(ctx, searchSQL, args...)
	if err != nil {
		return nil, errors.Wrap(err, "search products")
	}
	items, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}

	totalPages := (total + size - 1) / size
	return &product.Page{
		Items: items,
		Pagination: product.Pagination{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalProducts: total,
			HasNext:       page < totalPages,
			HasPrev:       page > 1,
		},
	}, nil
}

// buildPredicate assembles the WHERE clause for a faceted query. It returns
// an empty string when no facet is active.
func buildPredicate(q product.Query) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if len(q.Categories) > 0 {
		cats := make([]string, len(q.Categories))
		for i, c := range q.Categories {
			cats[i] = string(c)
		}
		args = append(args, cats)
		conds = append(conds, fmt.Sprintf("category = ANY($%d)", len(args)))
	}

	if len(q.PriceBuckets) > 0 {
		var ranges []string
		for _, b := range q.PriceBuckets {
			low, high, bounded := b.Bounds()
			if bounded {
				args = append(args, low, high)
				ranges = append(ranges, fmt.Sprintf("(price >= $%d AND price < $%d)", len(args)-1, len(args)))
			} else {
				args = append(args, low)
				ranges = append(ranges, fmt.Sprintf("price >= $%d", len(args)))
			}
		}
		conds = append(conds, "("+strings.Join(ranges, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(sort product.SortKey) string {
	switch sort {
	case product.SortPriceHighToLow:
		return "ORDER BY price DESC, id"
	case product.SortTitleAToZ:
		return "ORDER BY title ASC, id"
	case product.SortTitleZToA:
		return "ORDER BY title DESC, id"
	default:
		return "ORDER BY price ASC, id"
	}
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products by ids")
	}
	return pgx.CollectRows(rows, scanProduct)
}

// ListIDs returns every product ID in the catalog.
func (r *ProductRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listProductIDsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list product ids")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
}

// Upsert inserts or replaces a product.
func (r *ProductRepository) Upsert(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Title, p.Description, string(p.Category),
		p.Price, p.SalePrice, p.TotalStock, p.Images,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert product %q", p.ID)
	}
	return nil
}

// Delete removes a product from the catalog.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p         product.Product
		category  string
		price     decimal.Decimal
		salePrice decimal.Decimal
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &category,
		&price, &salePrice, &p.TotalStock, &p.Images,
	)
	p.Category = product.Category(category)
	p.Price = price
	p.SalePrice = salePrice
	return p, err
}
