package http

// CreateNode godoc
// @Summary Create a taxonomy entry
// @Description Create a catalog/category/sub-category/brand/vehicle-type/website/vendor. Recreating a soft-deleted entry with the same natural key revives it with the new payload.
// @Tags Taxonomy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,url=string,email=string,phone=string} true "Entry data"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/{kind} [post]
func (h *NodeHandler) CreateNodeDoc() {}

// ListNodes godoc
// @Summary List taxonomy entries of one kind
// @Tags Taxonomy
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=object{items=array,total=int}}
// @Router /api/{kind} [get]
func (h *NodeHandler) ListNodesDoc() {}

// GetNode godoc
// @Summary Get a taxonomy entry by ID
// @Tags Taxonomy
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/{kind}/{id} [get]
func (h *NodeHandler) GetNodeDoc() {}

// UpdateNode godoc
// @Summary Update a taxonomy entry
// @Description Rename re-derives the display slug; the natural key is immutable
// @Tags Taxonomy
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param request body object{name=string,description=string,url=string,email=string,phone=string} true "Update data"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/{kind}/{id} [put]
func (h *NodeHandler) UpdateNodeDoc() {}

// DeleteNode godoc
// @Summary Delete a taxonomy entry
// @Description Soft delete; products referencing the entry are detached first
// @Tags Taxonomy
// @Security BearerAuth
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/{kind}/{id} [delete]
func (h *NodeHandler) DeleteNodeDoc() {}
