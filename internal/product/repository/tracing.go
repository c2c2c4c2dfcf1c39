package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

// ProductRepositoryWithTracing decorates a ProductRepository with spans
// around every data access operation.
type ProductRepositoryWithTracing struct {
	inner domain.ProductRepository
}

func NewProductRepositoryWithTracing(db *gorm.DB) *ProductRepositoryWithTracing {
	return &ProductRepositoryWithTracing{inner: NewGormProductRepository(db)}
}

func wrapProductRepository(inner domain.ProductRepository) *ProductRepositoryWithTracing {
	return &ProductRepositoryWithTracing{inner: inner}
}

func (r *ProductRepositoryWithTracing) span(op string, attrs ...attribute.KeyValue) func(error) {
	_, span := tracer.Start(context.Background(), "repository."+op)
	span.SetAttributes(attrs...)
	return func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (r *ProductRepositoryWithTracing) Create(product *domain.Product) error {
	end := r.span("Create",
		attribute.String("product.sku", product.SKU),
		attribute.String("product.status", product.Status),
	)
	err := r.inner.Create(product)
	end(err)
	return err
}

func (r *ProductRepositoryWithTracing) FindByID(id uint) (*domain.Product, error) {
	end := r.span("FindByID", attribute.Int("product.id", int(id)))
	product, err := r.inner.FindByID(id)
	end(err)
	return product, err
}

func (r *ProductRepositoryWithTracing) FindByIDUnscoped(id uint) (*domain.Product, error) {
	end := r.span("FindByIDUnscoped", attribute.Int("product.id", int(id)))
	product, err := r.inner.FindByIDUnscoped(id)
	end(err)
	return product, err
}

func (r *ProductRepositoryWithTracing) FindBySKU(sku string) (*domain.Product, error) {
	end := r.span("FindBySKU", attribute.String("product.sku", sku))
	product, err := r.inner.FindBySKU(sku)
	end(err)
	return product, err
}

func (r *ProductRepositoryWithTracing) FindAll(limit, offset int) ([]domain.Product, error) {
	end := r.span("FindAll", attribute.Int("limit", limit), attribute.Int("offset", offset))
	products, err := r.inner.FindAll(limit, offset)
	end(err)
	return products, err
}

func (r *ProductRepositoryWithTracing) FindByStatus(status string, limit, offset int) ([]domain.Product, error) {
	end := r.span("FindByStatus", attribute.String("product.status", status))
	products, err := r.inner.FindByStatus(status, limit, offset)
	end(err)
	return products, err
}

func (r *ProductRepositoryWithTracing) Update(product *domain.Product, expectedVersion int) error {
	end := r.span("Update",
		attribute.Int("product.id", int(product.ID)),
		attribute.Int("product.expected_version", expectedVersion),
	)
	err := r.inner.Update(product, expectedVersion)
	end(err)
	return err
}

func (r *ProductRepositoryWithTracing) SoftDelete(id uint) error {
	end := r.span("SoftDelete", attribute.Int("product.id", int(id)))
	err := r.inner.SoftDelete(id)
	end(err)
	return err
}

func (r *ProductRepositoryWithTracing) Restore(id uint) error {
	end := r.span("Restore", attribute.Int("product.id", int(id)))
	err := r.inner.Restore(id)
	end(err)
	return err
}

func (r *ProductRepositoryWithTracing) Count() (int64, error) {
	end := r.span("Count")
	count, err := r.inner.Count()
	end(err)
	return count, err
}

func (r *ProductRepositoryWithTracing) AdjustStock(id uint, delta int) error {
	end := r.span("AdjustStock",
		attribute.Int("product.id", int(id)),
		attribute.Int("stock.delta", delta),
	)
	err := r.inner.AdjustStock(id, delta)
	end(err)
	return err
}

func (r *ProductRepositoryWithTracing) AdjustParentCount(kind domain.ParentKind, ids []uint, delta int) error {
	end := r.span("AdjustParentCount",
		attribute.String("parent.kind", string(kind)),
		attribute.Int("parent.count", len(ids)),
		attribute.Int("counter.delta", delta),
	)
	err := r.inner.AdjustParentCount(kind, ids, delta)
	end(err)
	return err
}

func (r *ProductRepositoryWithTracing) Transaction(fn func(domain.ProductRepository) error) error {
	end := r.span("Transaction")
	err := r.inner.Transaction(func(tx domain.ProductRepository) error {
		return fn(wrapProductRepository(tx))
	})
	end(err)
	return err
}
