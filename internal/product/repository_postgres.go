package product

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `"productId", "productName", "productDesc", "productPrice", "categoryName", "imageUrl", "createdAt", "updatedAt"`

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY "productName"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// ListByIDs returns the products whose id is in ids, ordered like ids.
// An empty slice leads to an immediate empty result.
func (r *PostgresRepository) ListByIDs(ids []uuid.UUID) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	rows, err := r.db.Query(`SELECT `+productColumns+`
        FROM products
        WHERE "productId" = ANY($1::uuid[])
        ORDER BY array_position($1::uuid[], "productId")`, pq.Array(raw))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Product, error) {
	var p Product
	err := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE "productId" = $1`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.db.Exec(`INSERT INTO products ("productId", "productName", "productDesc", "productPrice", "categoryName", "imageUrl", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(p Product) (Product, error) {
	res, err := r.db.Exec(`UPDATE products SET "productName" = $1, "productDesc" = $2, "productPrice" = $3, "categoryName" = $4, "imageUrl" = $5, "updatedAt" = $6
        WHERE "productId" = $7`,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.UpdatedAt, p.ID)
	if err != nil {
		return Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *PostgresRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE "productId" = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
