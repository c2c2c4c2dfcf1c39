package http

// CreatePurchase godoc
// @Summary Record a purchase
// @Description Create a purchase; a completed purchase adds its quantity to product stock in the same transaction
// @Tags Purchases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{currency=string,quantity=int,cost_price=number,status=string,vendor_id=int,product_id=int} true "Purchase data"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/purchases [post]
func (h *PurchaseHandler) CreatePurchaseDoc() {}

// ListPurchases godoc
// @Summary List purchases
// @Description List purchases with pagination and optional product/status filter
// @Tags Purchases
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Param status query string false "Status filter"
// @Param product_id query int false "Product filter"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/purchases [get]
func (h *PurchaseHandler) ListPurchasesDoc() {}

// GetPurchase godoc
// @Summary Get purchase by ID
// @Tags Purchases
// @Security BearerAuth
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/purchases/{id} [get]
func (h *PurchaseHandler) GetPurchaseDoc() {}

// UpdatePurchase godoc
// @Summary Update a purchase
// @Description Partial update; status and quantity changes move product stock by the completed-ness difference
// @Tags Purchases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Purchase ID"
// @Param request body object{currency=string,quantity=int,cost_price=number,status=string,vendor_id=int,product_id=int} true "Update data"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/purchases/{id} [put]
func (h *PurchaseHandler) UpdatePurchaseDoc() {}

// DeletePurchase godoc
// @Summary Delete a purchase
// @Description Soft delete; a completed purchase gives back its stock contribution
// @Tags Purchases
// @Security BearerAuth
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/purchases/{id} [delete]
func (h *PurchaseHandler) DeletePurchaseDoc() {}
