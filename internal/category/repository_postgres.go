package category

import "database/sql"

// Repository provides access to category rows.
type Repository interface {
	List() ([]Category, error)
}

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(`SELECT "categoryId", "categoryName", "categoryImg" FROM categories ORDER BY "categoryName"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}
