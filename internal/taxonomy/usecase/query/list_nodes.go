package query

import (
	"fmt"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
)

// ListNodesQuery represents the query to list taxonomy entries of one kind
type ListNodesQuery struct {
	Kind   domain.Kind
	Limit  int
	Offset int
}

// ListNodesHandler handles list nodes query
type ListNodesHandler struct {
	repo domain.NodeRepository
}

// NewListNodesHandler creates a new list nodes handler
func NewListNodesHandler(repo domain.NodeRepository) *ListNodesHandler {
	return &ListNodesHandler{repo: repo}
}

// Handle executes the list nodes query
func (h *ListNodesHandler) Handle(q ListNodesQuery) ([]domain.Node, int64, error) {
	if !q.Kind.Valid() {
		return nil, 0, apperrors.NewValidationError("unknown taxonomy kind %q", q.Kind)
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}

	nodes, err := h.repo.FindAll(q.Kind, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %ss: %w", q.Kind, err)
	}
	total, err := h.repo.Count(q.Kind)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %ss: %w", q.Kind, err)
	}

	return nodes, total, nil
}
