package cart

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

func (r *PostgresRepository) HeaderByUser(userID uuid.UUID) (Header, error) {
	row := r.db.QueryRow(`SELECT "cartHeaderId", "userId", "couponCode" FROM cart_headers WHERE "userId" = $1`, userID)
	var h Header
	err := row.Scan(&h.ID, &h.UserID, &h.CouponCode)
	if err == sql.ErrNoRows {
		return Header{}, ErrNotFound
	}
	if err != nil {
		return Header{}, err
	}
	return h, nil
}

func (r *PostgresRepository) CreateHeader(h Header) (Header, error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	_, err := r.db.Exec(`INSERT INTO cart_headers ("cartHeaderId", "userId", "couponCode") VALUES ($1,$2,$3)`,
		h.ID, h.UserID, h.CouponCode)
	if err != nil {
		return Header{}, err
	}
	return h, nil
}

func (r *PostgresRepository) SetCoupon(headerID uuid.UUID, code string) error {
	res, err := r.db.Exec(`UPDATE cart_headers SET "couponCode" = $1 WHERE "cartHeaderId" = $2`, code, headerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Lines prices each line with current catalog data so the cart total
// always reflects the live product price.
func (r *PostgresRepository) Lines(headerID uuid.UUID) ([]Line, error) {
	rows, err := r.db.Query(`SELECT d."cartDetailsId", d."cartHeaderId", d."productId", d.count,
            COALESCE(p."productName", ''), COALESCE(p."imageUrl", ''), COALESCE(p."productPrice", 0)
        FROM cart_details d
        LEFT JOIN products p ON p."productId" = d."productId"
        WHERE d."cartHeaderId" = $1`, headerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.HeaderID, &l.ProductID, &l.Count, &l.ProductName, &l.ProductImage, &l.Price); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) LineByProduct(headerID, productID uuid.UUID) (Line, error) {
	row := r.db.QueryRow(`SELECT "cartDetailsId", "cartHeaderId", "productId", count
        FROM cart_details WHERE "cartHeaderId" = $1 AND "productId" = $2`, headerID, productID)
	var l Line
	err := row.Scan(&l.ID, &l.HeaderID, &l.ProductID, &l.Count)
	if err == sql.ErrNoRows {
		return Line{}, ErrLineNotFound
	}
	if err != nil {
		return Line{}, err
	}
	return l, nil
}

func (r *PostgresRepository) InsertLine(l Line) (Line, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := r.db.Exec(`INSERT INTO cart_details ("cartDetailsId", "cartHeaderId", "productId", count) VALUES ($1,$2,$3,$4)`,
		l.ID, l.HeaderID, l.ProductID, l.Count)
	if err != nil {
		return Line{}, err
	}
	return l, nil
}

func (r *PostgresRepository) UpdateLineCount(lineID uuid.UUID, count int) error {
	res, err := r.db.Exec(`UPDATE cart_details SET count = $1 WHERE "cartDetailsId" = $2`, count, lineID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteLine(lineID uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM cart_details WHERE "cartDetailsId" = $1`, lineID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLineNotFound
	}
	return nil
}

// Clear deletes the header; cart_details rows follow via ON DELETE CASCADE.
func (r *PostgresRepository) Clear(userID uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM cart_headers WHERE "userId" = $1`, userID)
	return err
}
