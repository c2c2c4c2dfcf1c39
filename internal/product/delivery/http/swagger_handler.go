package http

// CreateProduct godoc
// @Summary Create a new product
// @Description Create a product and increment the counters of every referenced parent
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{sku=string,name=string,description=string,status=string,price=number,in_stock=int,sale_stock=int,tags=array,catalog_id=int,category_id=int,sub_category_id=int,brand_id=int,vehicle_type_id=int,website_ids=array} true "Product data"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *ProductHandler) CreateProductDoc() {}

// ListProducts godoc
// @Summary List products
// @Description List products with pagination and optional status filter
// @Tags Products
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Param status query string false "Status filter"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/products [get]
func (h *ProductHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Description Get product details, optionally including soft-deleted rows
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Param include_deleted query bool false "Include soft-deleted"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProductDoc() {}

// UpdateProduct godoc
// @Summary Update a product
// @Description Partial update; association changes move parent counters, concurrent writers are rejected with 409
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{name=string,description=string,status=string,price=number,sale_stock=int,tags=array,associations=object} true "Update data"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{id} [put]
func (h *ProductHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Soft delete the product and decrement its parent counters
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProductDoc() {}

// RestoreProduct godoc
// @Summary Restore a soft-deleted product
// @Description Revive the product and re-increment its parent counters
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{id}/restore [post]
func (h *ProductHandler) RestoreProductDoc() {}

// UpdateStock godoc
// @Summary Adjust product stock
// @Description Apply a signed stock delta; going negative is rejected
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{delta=int,reason=string} true "Stock delta"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products/{id}/stock [patch]
func (h *ProductHandler) UpdateStockDoc() {}

// GetStats godoc
// @Summary Get product statistics
// @Description Aggregate stock totals and per-status product counts
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/products/stats [get]
func (h *ProductHandler) GetStatsDoc() {}

// ReconcileCounters godoc
// @Summary Reconcile parent counters
// @Description Recompute every product_count from live associations and correct drift
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{corrected=object}}
// @Router /api/products/reconcile [post]
func (h *ProductHandler) ReconcileCountersDoc() {}
