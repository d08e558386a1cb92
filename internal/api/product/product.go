package product

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sarfraz-web/bechdo.in/internal/errors"
	"github.com/sarfraz-web/bechdo.in/internal/model"
	"github.com/sarfraz-web/bechdo.in/internal/service"
	"github.com/sarfraz-web/bechdo.in/internal/storage"
	"github.com/sarfraz-web/bechdo.in/internal/util"
	"go.uber.org/zap"
)

const maxProductImages = 5

// ProductHandler 处理商品相关的HTTP请求
type ProductHandler struct {
	productService service.ProductServiceInterface
	uploader       storage.Uploader
}

// NewProductHandler 创建一个新的 ProductHandler 实例
func NewProductHandler(productService service.ProductServiceInterface, uploader storage.Uploader) *ProductHandler {
	return &ProductHandler{productService, uploader}
}

// Create 发布新商品
func (h *ProductHandler) Create(c *gin.Context) {
	sellerID := c.GetInt("user_id")

	var productData struct {
		Title       string   `json:"title" binding:"required,min=3,max=100"`
		Description string   `json:"description" binding:"required"`
		Price       float64  `json:"price" binding:"required,gt=0"`
		Category    string   `json:"category" binding:"required"`
		Condition   string   `json:"condition" binding:"omitempty,product_condition"`
		Images      []string `json:"images"`
		Location    string   `json:"location"`
		Tags        []string `json:"tags"`
	}

	if err := c.ShouldBindJSON(&productData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品数据", err))
		return
	}

	condition := model.ProductCondition(productData.Condition)
	if productData.Condition == "" {
		condition = model.ConditionGood
	}

	product := &model.Product{
		Title:       productData.Title,
		Description: productData.Description,
		Price:       productData.Price,
		Category:    productData.Category,
		Condition:   condition,
		Images:      productData.Images,
		Location:    productData.Location,
		Tags:        productData.Tags,
	}

	created, err := h.productService.CreateProduct(product, sellerID)
	if err != nil {
		util.Logger.Error("创建商品失败", zap.Int("seller_id", sellerID), zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "创建商品失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"product": created}, "商品发布成功")
}

// List 按条件分页查询在售商品
func (h *ProductHandler) List(c *gin.Context) {
	skip, limit, err := parsePagination(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	filter := model.ProductFilter{
		Category:  c.Query("category"),
		Condition: model.ProductCondition(c.Query("condition")),
		Location:  c.Query("location"),
		Search:    c.Query("search"),
	}

	if v := c.Query("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的最低价格", err))
			return
		}
		filter.MinPrice = &price
	}
	if v := c.Query("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的最高价格", err))
			return
		}
		filter.MaxPrice = &price
	}
	if filter.Condition != "" && !filter.Condition.Valid() {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的商品成色"))
		return
	}

	products, err := h.productService.GetProducts(filter, skip, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询商品失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"products": products,
		"count":    len(products),
	}, "")
}

// GetByID 获取商品详情，同时累加浏览次数
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}

	product, err := h.productService.GetProductByID(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取商品失败", err))
		return
	}
	if product == nil {
		errors.HandleError(c, errors.New(errors.ErrProductNotFound, "Product not found"))
		return
	}

	errors.HandleSuccess(c, gin.H{"product": product}, "")
}

// MyProducts 获取当前用户发布的商品
func (h *ProductHandler) MyProducts(c *gin.Context) {
	sellerID := c.GetInt("user_id")

	skip, limit, err := parsePagination(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	products, err := h.productService.GetUserProducts(sellerID, skip, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询商品失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"products": products,
		"count":    len(products),
	}, "")
}

// UserProducts 获取指定用户发布的商品
func (h *ProductHandler) UserProducts(c *gin.Context) {
	sellerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	skip, limit, err := parsePagination(c)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	products, err := h.productService.GetUserProducts(sellerID, skip, limit)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询商品失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"products": products,
		"count":    len(products),
	}, "")
}

// Update 更新商品信息，仅限卖家本人
func (h *ProductHandler) Update(c *gin.Context) {
	requesterID := c.GetInt("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}

	var update model.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if update.Status != nil && !update.Status.Valid() {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的商品状态"))
		return
	}
	if update.Condition != nil && !update.Condition.Valid() {
		errors.HandleError(c, errors.New(errors.ErrValidation, "无效的商品成色"))
		return
	}
	if update.Price != nil && *update.Price <= 0 {
		errors.HandleError(c, errors.New(errors.ErrValidation, "价格必须大于0"))
		return
	}

	product, err := h.productService.UpdateProduct(id, &update, requesterID)
	if err != nil {
		util.Logger.Error("更新商品失败", zap.Int("product_id", id), zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新商品失败", err))
		return
	}
	if product == nil {
		// 商品不存在或不属于当前用户，响应保持一致
		errors.HandleError(c, errors.New(errors.ErrProductNotFound, "Product not found"))
		return
	}

	errors.HandleSuccess(c, gin.H{"product": product}, "商品更新成功")
}

// Delete 删除商品，仅限卖家本人
func (h *ProductHandler) Delete(c *gin.Context) {
	requesterID := c.GetInt("user_id")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}

	ok, err := h.productService.DeleteProduct(id, requesterID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "删除商品失败", err))
		return
	}
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrProductNotFound, "Product not found"))
		return
	}

	errors.HandleSuccess(c, nil, "商品已删除")
}

// UploadImages 上传商品图片，单次最多5张
func (h *ProductHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的上传表单", err))
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		errors.HandleError(c, errors.New(errors.ErrValidation, "未找到上传文件"))
		return
	}
	if len(files) > maxProductImages {
		errors.HandleError(c, errors.New(errors.ErrValidation, "单次最多上传5张图片"))
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		filename := util.GenerateUniqueFilename(file.Filename)
		url, err := h.uploader.UploadFile(file, "products/"+filename)
		if err != nil {
			util.Logger.Error("商品图片上传失败", zap.String("filename", file.Filename), zap.Error(err))
			errors.HandleError(c, errors.Wrap(errors.ErrInternal, "图片上传失败", err))
			return
		}
		urls = append(urls, url)
	}

	errors.HandleSuccess(c, gin.H{"urls": urls}, "图片上传成功")
}

// parsePagination 解析 skip/limit 查询参数，limit 限定在 [1, 100]
func parsePagination(c *gin.Context) (int, int, error) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		return 0, 0, errors.New(errors.ErrValidation, "无效的skip参数")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		return 0, 0, errors.New(errors.ErrValidation, "无效的limit参数")
	}

	return skip, limit, nil
}
