package query

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
)

// GetNodeQuery represents the query to get a taxonomy entry by ID
type GetNodeQuery struct {
	Kind domain.Kind
	ID   uint
}

// GetNodeHandler handles get node query
type GetNodeHandler struct {
	repo domain.NodeRepository
}

// NewGetNodeHandler creates a new get node handler
func NewGetNodeHandler(repo domain.NodeRepository) *GetNodeHandler {
	return &GetNodeHandler{repo: repo}
}

// Handle executes the get node query
func (h *GetNodeHandler) Handle(q GetNodeQuery) (*domain.Node, error) {
	if !q.Kind.Valid() {
		return nil, apperrors.NewValidationError("unknown taxonomy kind %q", q.Kind)
	}
	if q.ID == 0 {
		return nil, apperrors.NewValidationError("invalid %s id", q.Kind)
	}

	node, err := h.repo.FindByID(q.Kind, q.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("%s %d not found", q.Kind, q.ID)
		}
		return nil, err
	}
	return node, nil
}
