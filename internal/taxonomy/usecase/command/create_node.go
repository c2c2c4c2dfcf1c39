package command

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
	"github.com/tair/catalog-admin/pkg/slug"
)

// CreateNodeCommand represents the command to create a taxonomy entry
type CreateNodeCommand struct {
	Kind        domain.Kind
	Name        string
	Description string
	URL         string
	Email       string
	Phone       string
}

// CreateNodeHandler handles taxonomy creation with the soft-delete-aware
// uniqueness protocol
type CreateNodeHandler struct {
	repo domain.NodeRepository
}

// NewCreateNodeHandler creates a new create node handler
func NewCreateNodeHandler(repo domain.NodeRepository) *CreateNodeHandler {
	return &CreateNodeHandler{repo: repo}
}

// Handle creates the entry, reviving a soft-deleted row holding the same
// natural key instead of tripping over its unique index: found and deleted
// means restore plus apply the new payload, found and live means conflict,
// absent means insert.
func (h *CreateNodeHandler) Handle(cmd CreateNodeCommand) (*domain.Node, error) {
	if !cmd.Kind.Valid() {
		return nil, apperrors.NewValidationError("unknown taxonomy kind %q", cmd.Kind)
	}
	if cmd.Name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if cmd.Kind == domain.KindWebsite && cmd.URL == "" {
		return nil, apperrors.NewValidationError("url is required for websites")
	}
	if cmd.Kind == domain.KindVendor && cmd.Email == "" {
		return nil, apperrors.NewValidationError("email is required for vendors")
	}

	key := naturalKey(cmd)
	if key == "" {
		return nil, apperrors.NewValidationError("name yields an empty key")
	}

	var result *domain.Node
	err := h.repo.Transaction(func(tx domain.NodeRepository) error {
		existing, err := tx.FindByNaturalKeyUnscoped(cmd.Kind, key)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check natural key: %w", err)
		}

		if existing != nil {
			if !existing.DeletedAt.Valid {
				return apperrors.NewConflictError("%s %q already exists", cmd.Kind, cmd.Name)
			}
			// Revive the deleted row and overwrite it with the new payload.
			// Its product references were detached on delete, so the count
			// restarts at zero.
			if err := tx.Restore(cmd.Kind, existing.ID); err != nil {
				return fmt.Errorf("failed to restore %s: %w", cmd.Kind, err)
			}
			existing.Name = cmd.Name
			existing.Slug = slug.Derive(cmd.Name)
			existing.Description = cmd.Description
			existing.URL = cmd.URL
			existing.Email = cmd.Email
			existing.Phone = cmd.Phone
			existing.ProductCount = 0
			existing.DeletedAt = gorm.DeletedAt{}
			if err := tx.Update(cmd.Kind, existing); err != nil {
				return fmt.Errorf("failed to update restored %s: %w", cmd.Kind, err)
			}
			result = existing
			return nil
		}

		node := &domain.Node{
			Name:        cmd.Name,
			NaturalKey:  key,
			Slug:        slug.Derive(cmd.Name),
			Description: cmd.Description,
			URL:         cmd.URL,
			Email:       cmd.Email,
			Phone:       cmd.Phone,
		}
		if err := tx.Create(cmd.Kind, node); err != nil {
			return fmt.Errorf("failed to create %s: %w", cmd.Kind, err)
		}
		result = node
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// naturalKey picks the stable uniqueness key per kind: url for websites,
// email for vendors, the suffix-free slug of the name for everything else
func naturalKey(cmd CreateNodeCommand) string {
	switch cmd.Kind {
	case domain.KindWebsite:
		return strings.ToLower(strings.TrimSpace(cmd.URL))
	case domain.KindVendor:
		return strings.ToLower(strings.TrimSpace(cmd.Email))
	default:
		return slug.NaturalKey(cmd.Name)
	}
}
