package mysql

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

// orderRepository 实现了 OrderRepository 接口
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository 创建一个新的 orderRepository 实例
func NewOrderRepository(db *sql.DB) *orderRepository {
	return &orderRepository{db}
}

const orderColumns = `id, product_id, buyer_id, seller_id, quantity, total_price, status,
              payment_status, shipping_address, buyer_notes, seller_notes, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID, &order.ProductID, &order.BuyerID, &order.SellerID,
		&order.Quantity, &order.TotalPrice, &order.Status, &order.PaymentStatus,
		&order.ShippingAddress, &order.BuyerNotes, &order.SellerNotes,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create 创建一个新订单
func (r *orderRepository) Create(order *model.Order) error {
	now := time.Now()
	query := `INSERT INTO orders (product_id, buyer_id, seller_id, quantity, total_price,
              status, payment_status, shipping_address, buyer_notes, seller_notes, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query,
		order.ProductID, order.BuyerID, order.SellerID, order.Quantity,
		order.TotalPrice, order.Status, order.PaymentStatus,
		order.ShippingAddress, order.BuyerNotes, order.SellerNotes, now, now)
	if err != nil {
		util.Logger.Error("创建订单失败", zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get order ID: %w", err)
	}
	order.ID = int(id)
	order.CreatedAt = now
	order.UpdatedAt = now

	util.Logger.Info("订单创建成功",
		zap.Int("order_id", order.ID),
		zap.Int("product_id", order.ProductID),
		zap.Int("buyer_id", order.BuyerID),
		zap.Int("seller_id", order.SellerID),
		zap.Float64("total_price", order.TotalPrice))
	return nil
}

// FindByID 通过ID查找订单，不存在时返回 (nil, nil)
func (r *orderRepository) FindByID(id int) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	return scanOrder(r.db.QueryRow(query, id))
}

// FindByUser 按买家或卖家维度查询订单，按创建时间倒序
func (r *orderRepository) FindByUser(userID int, filter model.OrderFilter, skip, limit int, asBuyer bool) ([]*model.Order, error) {
	column := "seller_id"
	if asBuyer {
		column = "buyer_id"
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + ` = ?`
	args := []interface{}{userID}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.PaymentStatus != "" {
		query += " AND payment_status = ?"
		args = append(args, filter.PaymentStatus)
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("查询用户订单失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// Update 部分更新订单，仅在 id 与卖家同时匹配时生效
// id 不存在与非卖家这两种情况对调用方不可区分
func (r *orderRepository) Update(id, sellerID int, update *model.OrderUpdate) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM orders WHERE id = ? AND seller_id = ?)`,
		id, sellerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order ownership: %w", err)
	}
	if !exists {
		return false, nil
	}
	if update.IsEmpty() {
		// 空更新保持所有字段与 updated_at 不变
		return true, nil
	}

	var sets []string
	var args []interface{}

	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.PaymentStatus != nil {
		sets = append(sets, "payment_status = ?")
		args = append(args, *update.PaymentStatus)
	}
	if update.SellerNotes != nil {
		sets = append(sets, "seller_notes = ?")
		args = append(args, *update.SellerNotes)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), id, sellerID)

	query := fmt.Sprintf("UPDATE orders SET %s WHERE id = ? AND seller_id = ?", strings.Join(sets, ", "))
	if _, err := r.db.Exec(query, args...); err != nil {
		util.Logger.Error("更新订单失败", zap.Error(err), zap.Int("order_id", id))
		return false, fmt.Errorf("failed to update order: %w", err)
	}

	util.Logger.Info("订单更新成功", zap.Int("order_id", id), zap.Int("seller_id", sellerID))
	return true, nil
}
