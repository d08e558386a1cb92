package mysql

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

// productRepository 实现了 ProductRepository 接口
type productRepository struct {
	db *sql.DB
}

// NewProductRepository 创建一个新的 productRepository 实例
func NewProductRepository(db *sql.DB) *productRepository {
	return &productRepository{db}
}

const productColumns = `id, title, description, price, category, ` + "`condition`" + `, images, seller_id,
              status, location, tags, views, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*model.Product, error) {
	var product model.Product
	var images, tags []byte
	err := row.Scan(
		&product.ID, &product.Title, &product.Description, &product.Price,
		&product.Category, &product.Condition, &images, &product.SellerID,
		&product.Status, &product.Location, &tags, &product.Views,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	if err := json.Unmarshal(tags, &product.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return &product, nil
}

func encodeStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

// Create 创建一个新商品
func (r *productRepository) Create(product *model.Product) error {
	images, err := encodeStrings(product.Images)
	if err != nil {
		return err
	}
	tags, err := encodeStrings(product.Tags)
	if err != nil {
		return err
	}

	now := time.Now()
	query := `INSERT INTO products (title, description, price, category, ` + "`condition`" + `, images,
              seller_id, status, location, tags, views, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query,
		product.Title, product.Description, product.Price, product.Category,
		product.Condition, images, product.SellerID, product.Status,
		product.Location, tags, product.Views, now, now)
	if err != nil {
		util.Logger.Error("创建商品失败", zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get product ID: %w", err)
	}
	product.ID = int(id)
	product.CreatedAt = now
	product.UpdatedAt = now

	util.Logger.Info("商品创建成功",
		zap.Int("product_id", product.ID),
		zap.Int("seller_id", product.SellerID))
	return nil
}

// FindByID 通过ID查找商品，不存在时返回 (nil, nil)
func (r *productRepository) FindByID(id int) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return scanProduct(r.db.QueryRow(query, id))
}

// IncrementViews 浏览次数加一
// 与读取操作分开执行，调用方返回的是自增前的计数
func (r *productRepository) IncrementViews(id int) error {
	_, err := r.db.Exec(`UPDATE products SET views = views + 1 WHERE id = ?`, id)
	return err
}

// Search 搜索在售商品，所有条件为 AND 关系，按创建时间倒序
func (r *productRepository) Search(filter model.ProductFilter, skip, limit int) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = ?`
	args := []interface{}{model.ProductStatusActive}

	var conditions []string

	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	if filter.Condition != "" {
		conditions = append(conditions, "`condition` = ?")
		args = append(args, filter.Condition)
	}

	if filter.Location != "" {
		conditions = append(conditions, "location LIKE ?")
		args = append(args, "%"+filter.Location+"%")
	}

	if filter.Search != "" {
		conditions = append(conditions, "MATCH(title, description) AGAINST(? IN NATURAL LANGUAGE MODE)")
		args = append(args, filter.Search)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("执行商品搜索查询失败", zap.Error(err))
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// FindBySeller 返回指定卖家的商品，不过滤状态
func (r *productRepository) FindBySeller(sellerID int, skip, limit int) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
              WHERE seller_id = ?
              ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, sellerID, limit, skip)
	if err != nil {
		util.Logger.Error("查询卖家商品失败", zap.Error(err), zap.Int("seller_id", sellerID))
		return nil, fmt.Errorf("failed to query seller products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*model.Product, error) {
	var products []*model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// Update 部分更新商品，仅在 id 与卖家同时匹配时生效
// id 不存在与非本人所有这两种情况对调用方不可区分
func (r *productRepository) Update(id, sellerID int, update *model.ProductUpdate) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM products WHERE id = ? AND seller_id = ?)`,
		id, sellerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product ownership: %w", err)
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

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *update.Price)
	}
	if update.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *update.Category)
	}
	if update.Condition != nil {
		sets = append(sets, "`condition` = ?")
		args = append(args, *update.Condition)
	}
	if update.Images != nil {
		images, err := encodeStrings(*update.Images)
		if err != nil {
			return false, err
		}
		sets = append(sets, "images = ?")
		args = append(args, images)
	}
	if update.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *update.Location)
	}
	if update.Tags != nil {
		tags, err := encodeStrings(*update.Tags)
		if err != nil {
			return false, err
		}
		sets = append(sets, "tags = ?")
		args = append(args, tags)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now(), id, sellerID)

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = ? AND seller_id = ?", strings.Join(sets, ", "))
	if _, err := r.db.Exec(query, args...); err != nil {
		util.Logger.Error("更新商品失败", zap.Error(err), zap.Int("product_id", id))
		return false, fmt.Errorf("failed to update product: %w", err)
	}
	return true, nil
}

// Delete 删除商品，仅在 id 与卖家同时匹配时生效
func (r *productRepository) Delete(id, sellerID int) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM products WHERE id = ? AND seller_id = ?`, id, sellerID)
	if err != nil {
		util.Logger.Error("删除商品失败", zap.Error(err), zap.Int("product_id", id))
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected > 0 {
		util.Logger.Info("商品删除成功", zap.Int("product_id", id), zap.Int("seller_id", sellerID))
	}
	return affected > 0, nil
}
