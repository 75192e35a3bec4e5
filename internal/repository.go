package internal

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/DrGermanius/OrderRelay/internal/model"
)

const (
	orderFields       = "id, name, price, quantity, isfood, time, venue, total, printing_status, fiscal_id, refund_amount, refund_reason, refund_date"
	orderInsertFields = "name, price, quantity, isfood, time, venue, total, printing_status, fiscal_id"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go

type IRepository interface {
	CreateOrder(context.Context, model.Order) (int64, error)
	GetOrderByID(context.Context, int64) (model.Order, error)
	TakeOrders(ctx context.Context, venue, from, to string) ([]model.Order, error)
	SetFiscalID(ctx context.Context, id int64, fiscalID string, allowedFrom []string) (int64, error)
	RequestRefund(ctx context.Context, id int64, refund *model.Refund, allowedFrom []string) (int64, error)
}

type Repository struct {
	Conn    *sql.DB
	Dialect Dialect
	Logger  *zap.SugaredLogger
}

func NewRepository(db *sql.DB, dialect Dialect, logger *zap.SugaredLogger) *Repository {
	return &Repository{Conn: db, Dialect: dialect, Logger: logger}
}

// withConn holds one pooled connection for the duration of fn and always hands it back.
func (r Repository) withConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := r.Conn.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "acquire connection")
	}
	defer conn.Close()

	return fn(conn)
}

func (r Repository) CreateOrder(ctx context.Context, o model.Order) (int64, error) {
	id := o.ID
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		if o.ID != 0 {
			_, err := conn.ExecContext(ctx, r.Dialect.Rebind("INSERT INTO orders (id, "+orderInsertFields+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
				o.ID, o.Name, o.Price, o.Quantity, o.IsFood, o.Time, o.Venue, o.Total, model.OrderStatusNew, "")
			return err
		}

		row := conn.QueryRowContext(ctx, r.Dialect.Rebind("INSERT INTO orders ("+orderInsertFields+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id"),
			o.Name, o.Price, o.Quantity, o.IsFood, o.Time, o.Venue, o.Total, model.OrderStatusNew, "")
		return row.Scan(&id)
	})
	if isUniqueViolation(err) {
		return 0, ErrOrderAlreadyExists
	}
	if err != nil {
		return 0, errors.Wrap(err, "insert order")
	}
	return id, nil
}

func (r Repository) GetOrderByID(ctx context.Context, id int64) (model.Order, error) {
	var o model.Order
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, r.Dialect.Rebind("SELECT "+orderFields+" FROM orders WHERE id = ?"), id)
		return scanOrder(row, &o)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNoRecords
	}
	if err != nil {
		return model.Order{}, errors.Wrap(err, "select order")
	}
	return o, nil
}

// TakeOrders moves every order of venue in status from to status to and returns
// them. Reading and transitioning is a single statement, so an order is handed
// out at most once.
func (r Repository) TakeOrders(ctx context.Context, venue, from, to string) ([]model.Order, error) {
	var orders []model.Order
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, r.Dialect.Rebind("UPDATE orders SET printing_status = ? WHERE venue = ? AND printing_status = ? RETURNING "+orderFields),
			to, venue, from)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var o model.Order
			if err = scanOrder(rows, &o); err != nil {
				return err
			}
			orders = append(orders, o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, errors.Wrapf(err, "take %s orders", from)
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	r.Logger.Debugw("orders taken", "venue", venue, "from", from, "to", to, "count", len(orders))
	return orders, nil
}

// SetFiscalID marks the order done. An empty allowedFrom means any current status.
func (r Repository) SetFiscalID(ctx context.Context, id int64, fiscalID string, allowedFrom []string) (int64, error) {
	query := "UPDATE orders SET fiscal_id = ?, printing_status = ? WHERE id = ?"
	args := []interface{}{fiscalID, model.OrderStatusDone, id}
	query, args = withStatusGuard(query, args, allowedFrom)

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "update fiscal id")
	}
	return n, nil
}

// RequestRefund moves the order to pending refund print. Refund metadata is
// written only when refund is not nil.
func (r Repository) RequestRefund(ctx context.Context, id int64, refund *model.Refund, allowedFrom []string) (int64, error) {
	query := "UPDATE orders SET printing_status = ? WHERE id = ?"
	args := []interface{}{model.OrderStatusPendingRefundPrint, id}
	if refund != nil {
		query = "UPDATE orders SET printing_status = ?, refund_amount = ?, refund_reason = ?, refund_date = ? WHERE id = ?"
		args = []interface{}{model.OrderStatusPendingRefundPrint, refund.Amount, refund.Reason, refund.Date, id}
	}
	query, args = withStatusGuard(query, args, allowedFrom)

	n, err := r.exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "update refund")
	}
	return n, nil
}

func (r Repository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var affected int64
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, r.Dialect.Rebind(query), args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

func withStatusGuard(query string, args []interface{}, allowedFrom []string) (string, []interface{}) {
	if len(allowedFrom) == 0 {
		return query, args
	}

	marks := make([]string, len(allowedFrom))
	for i, s := range allowedFrom {
		marks[i] = "?"
		args = append(args, s)
	}
	return query + " AND printing_status IN (" + strings.Join(marks, ", ") + ")", args
}

// isUniqueViolation reports a duplicate key from either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT:
			return true
		}
	}
	return false
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(s scanner, o *model.Order) error {
	return s.Scan(&o.ID, &o.Name, &o.Price, &o.Quantity, &o.IsFood, &o.Time, &o.Venue, &o.Total,
		&o.Status, &o.FiscalID, &o.RefundAmount, &o.RefundReason, &o.RefundDate)
}
