package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

const orderColumns = `id, guest_email, phone, shipping_address, country, state, city, postal_code,
	status, payment_method, payment_status, total, qb_invoice_id, qb_sales_receipt_id, created_at, updated_at`

// OrderRepository implements usecase.OrderRepository.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts an order and its items within a transaction.
func (r *OrderRepository) Create(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	q := txQuerier(tx)

	_, err := q.Exec(ctx,
		`INSERT INTO orders (id, guest_email, phone, shipping_address, country, state, city, postal_code,
			status, payment_method, payment_status, total, qb_invoice_id, qb_sales_receipt_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), NULLIF($14, ''), $15, $16)`,
		order.ID, order.GuestEmail, order.Phone, order.ShippingAddress,
		order.Country, order.State, order.City, order.PostalCode,
		string(order.Status), string(order.PaymentMethod), string(order.PaymentStatus),
		decimalToNumeric(order.Total), order.QBInvoiceID, order.QBSalesReceiptID,
		timeToPgTimestamptz(order.CreatedAt), timeToPgTimestamptz(order.UpdatedAt),
	)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err := q.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.Quantity, decimalToNumeric(item.UnitPrice),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id,
	))
	if err != nil {
		return nil, err
	}

	order.Items, err = r.loadItems(ctx, r.pool, id)

	return order, err
}

// GetByIDForUpdate retrieves an order with a FOR UPDATE lock on the order row.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Order, error) {
	q := txQuerier(tx)

	order, err := scanOrder(q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id,
	))
	if err != nil {
		return nil, err
	}

	order.Items, err = r.loadItems(ctx, q, id)

	return order, err
}

// UpdateStatus updates the status, payment and accounting document fields.
func (r *OrderRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, order *domain.Order) error {
	tag, err := txQuerier(tx).Exec(ctx,
		`UPDATE orders
		 SET status = $2, payment_method = $3, payment_status = $4,
		     qb_invoice_id = NULLIF($5, ''), qb_sales_receipt_id = NULLIF($6, ''), updated_at = $7
		 WHERE id = $1`,
		order.ID, string(order.Status), string(order.PaymentMethod), string(order.PaymentStatus),
		order.QBInvoiceID, order.QBSalesReceiptID, timeToPgTimestamptz(order.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// List returns orders newest first, without items.
func (r *OrderRepository) List(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrderFrom(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *OrderRepository) loadItems(ctx context.Context, q querier, orderID string) ([]domain.OrderItem, error) {
	rows, err := q.Query(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, unit_price
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item      domain.OrderItem
			unitPrice pgtype.Numeric
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &unitPrice); err != nil {
			return nil, err
		}
		item.UnitPrice = numericToDecimal(unitPrice)
		items = append(items, item)
	}

	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order, err := scanOrderFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}

		return nil, err
	}

	return order, nil
}

func scanOrderFrom(row pgx.Row) (*domain.Order, error) {
	var (
		o                           domain.Order
		status, method, payStatus   string
		total                       pgtype.Numeric
		qbInvoiceID, qbSalesReceipt *string
	)

	err := row.Scan(&o.ID, &o.GuestEmail, &o.Phone, &o.ShippingAddress,
		&o.Country, &o.State, &o.City, &o.PostalCode,
		&status, &method, &payStatus, &total,
		&qbInvoiceID, &qbSalesReceipt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	o.Status = domain.OrderStatus(status)
	o.PaymentMethod = domain.PaymentMethod(method)
	o.PaymentStatus = domain.PaymentStatus(payStatus)
	o.Total = numericToDecimal(total)
	if qbInvoiceID != nil {
		o.QBInvoiceID = *qbInvoiceID
	}
	if qbSalesReceipt != nil {
		o.QBSalesReceiptID = *qbSalesReceipt
	}

	return &o, nil
}
