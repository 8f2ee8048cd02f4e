package coupon

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

func (r *PostgresRepository) Create(cp Coupon) (Coupon, error) {
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	_, err := r.db.Exec(`INSERT INTO coupons ("couponId", "couponCode", "discountAmount") VALUES ($1,$2,$3)`,
		cp.ID, cp.Code, cp.DiscountAmount)
	if err != nil {
		return Coupon{}, err
	}
	return cp, nil
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Coupon, error) {
	var cp Coupon
	err := r.db.QueryRow(`SELECT "couponId", "couponCode", "discountAmount" FROM coupons WHERE "couponId" = $1`, id).
		Scan(&cp.ID, &cp.Code, &cp.DiscountAmount)
	if err == sql.ErrNoRows {
		return Coupon{}, ErrNotFound
	}
	if err != nil {
		return Coupon{}, err
	}
	return cp, nil
}

func (r *PostgresRepository) GetByCode(code string) (Coupon, error) {
	var cp Coupon
	err := r.db.QueryRow(`SELECT "couponId", "couponCode", "discountAmount" FROM coupons WHERE "couponCode" = $1`, code).
		Scan(&cp.ID, &cp.Code, &cp.DiscountAmount)
	if err == sql.ErrNoRows {
		return Coupon{}, ErrNotFound
	}
	if err != nil {
		return Coupon{}, err
	}
	return cp, nil
}

func (r *PostgresRepository) List() ([]Coupon, error) {
	rows, err := r.db.Query(`SELECT "couponId", "couponCode", "discountAmount" FROM coupons ORDER BY "couponCode"`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Coupon, 0)
	for rows.Next() {
		var cp Coupon
		if err := rows.Scan(&cp.ID, &cp.Code, &cp.DiscountAmount); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(cp Coupon) error {
	res, err := r.db.Exec(`UPDATE coupons SET "couponCode" = $1, "discountAmount" = $2 WHERE "couponId" = $3`,
		cp.Code, cp.DiscountAmount, cp.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM coupons WHERE "couponId" = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
