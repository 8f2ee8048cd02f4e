package order

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

const headerColumns = `"orderHeaderId", "userId", "couponCode", discount, "orderTotal", name, phone, email, "orderTime", status, "paymentIntentId", "sessionId"`

func (r *PostgresRepository) CreateHeader(h Header) (Header, error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	_, err := r.db.Exec(`INSERT INTO order_headers ("orderHeaderId", "userId", "couponCode", discount, "orderTotal", name, phone, email, "orderTime", status, "paymentIntentId", "sessionId")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		h.ID, h.UserID, h.CouponCode, h.Discount, h.OrderTotal, h.Name, h.Phone, h.Email, h.OrderTime, string(h.Status), h.PaymentIntentID, h.SessionID)
	if err != nil {
		return Header{}, err
	}
	h.Details = nil
	return h, nil
}

func (r *PostgresRepository) CreateDetails(details []Detail) ([]Detail, error) {
	out := make([]Detail, 0, len(details))
	for _, d := range details {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		_, err := r.db.Exec(`INSERT INTO order_details ("orderDetailsId", "orderHeaderId", "productId", price, count)
            VALUES ($1,$2,$3,$4,$5)`,
			d.ID, d.OrderID, d.ProductID, d.Price, d.Count)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Header, error) {
	row := r.db.QueryRow(`SELECT `+headerColumns+` FROM order_headers WHERE "orderHeaderId" = $1`, id)
	return scanHeader(row)
}

func (r *PostgresRepository) GetByIDWithDetails(id uuid.UUID) (Header, error) {
	h, err := r.GetByID(id)
	if err != nil {
		return Header{}, err
	}

	rows, err := r.db.Query(`SELECT d."orderDetailsId", d."orderHeaderId", d."productId", d.price, d.count,
            COALESCE(p."productName", ''), COALESCE(p."imageUrl", '')
        FROM order_details d
        LEFT JOIN products p ON p."productId" = d."productId"
        WHERE d."orderHeaderId" = $1`, id)
	if err != nil {
		return Header{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Price, &d.Count, &d.ProductName, &d.ProductImage); err != nil {
			return Header{}, err
		}
		h.Details = append(h.Details, d)
	}
	return h, rows.Err()
}

func (r *PostgresRepository) ListAll() ([]Header, error) {
	rows, err := r.db.Query(`SELECT ` + headerColumns + ` FROM order_headers ORDER BY "orderTime" DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHeaders(rows)
}

func (r *PostgresRepository) ListByUser(userID uuid.UUID) ([]Header, error) {
	rows, err := r.db.Query(`SELECT `+headerColumns+` FROM order_headers WHERE "userId" = $1 ORDER BY "orderTime" DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHeaders(rows)
}

// UpdateStatus overwrites the status in one atomic row update.
func (r *PostgresRepository) UpdateStatus(id uuid.UUID, status Status) error {
	res, err := r.db.Exec(`UPDATE order_headers SET status = $1 WHERE "orderHeaderId" = $2`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetSessionID(id uuid.UUID, sessionID string) error {
	res, err := r.db.Exec(`UPDATE order_headers SET "sessionId" = $1 WHERE "orderHeaderId" = $2`, sessionID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordPaymentOutcome writes status and intent id in one statement so a
// concurrent validation never sees the transition half-applied. NULLIF +
// COALESCE keeps an already recorded intent id when intentID is empty.
func (r *PostgresRepository) RecordPaymentOutcome(id uuid.UUID, status Status, intentID string) error {
	res, err := r.db.Exec(`UPDATE order_headers
        SET status = $1, "paymentIntentId" = COALESCE(NULLIF($2, ''), "paymentIntentId")
        WHERE "orderHeaderId" = $3`, string(status), intentID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanHeader(row *sql.Row) (Header, error) {
	var h Header
	var status string
	err := row.Scan(&h.ID, &h.UserID, &h.CouponCode, &h.Discount, &h.OrderTotal, &h.Name, &h.Phone, &h.Email, &h.OrderTime, &status, &h.PaymentIntentID, &h.SessionID)
	if err == sql.ErrNoRows {
		return Header{}, ErrNotFound
	}
	if err != nil {
		return Header{}, err
	}
	h.Status = Status(status)
	return h, nil
}

func collectHeaders(rows *sql.Rows) ([]Header, error) {
	out := make([]Header, 0)
	for rows.Next() {
		var h Header
		var status string
		if err := rows.Scan(&h.ID, &h.UserID, &h.CouponCode, &h.Discount, &h.OrderTotal, &h.Name, &h.Phone, &h.Email, &h.OrderTime, &status, &h.PaymentIntentID, &h.SessionID); err != nil {
			return nil, err
		}
		h.Status = Status(status)
		out = append(out, h)
	}
	return out, rows.Err()
}
