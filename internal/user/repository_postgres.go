package user

import (
	"database/sql"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `"userId", email, password, name, phone, "isAdmin", "createdAt", "updatedAt"`

func (r *PostgresRepository) GetByID(id uuid.UUID) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE "userId" = $1`, id)
	return scanUser(row)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) Create(u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := r.db.Exec(`INSERT INTO users ("userId", email, password, name, phone, "isAdmin", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Email, u.Password, u.Name, u.Phone, u.IsAdmin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(u User) (User, error) {
	res, err := r.db.Exec(`UPDATE users SET email = $1, name = $2, phone = $3, "updatedAt" = $4 WHERE "userId" = $5`,
		u.Email, u.Name, u.Phone, u.UpdatedAt, u.ID)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, ErrNotFound
	}
	return u, nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
