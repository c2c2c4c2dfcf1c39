package command

import (
	"context"
	"database/sql"
	"fmt"
)

// ReconcileCountersHandler recomputes every product_count from the live
// product associations and corrects rows that drifted from the event-driven
// counters. It runs raw SQL on a plain connection so the sweep stays out of
// the ORM session cache.
type ReconcileCountersHandler struct {
	db *sql.DB
}

// NewReconcileCountersHandler creates a new reconcile counters handler
func NewReconcileCountersHandler(db *sql.DB) *ReconcileCountersHandler {
	return &ReconcileCountersHandler{db: db}
}

// ReconcileReport lists how many parent rows were corrected per table
type ReconcileReport struct {
	Corrected map[string]int64 `json:"corrected"`
}

// fkParents maps single-valued foreign keys onto their parent table
var fkParents = []struct {
	table  string
	column string
}{
	{"catalogs", "catalog_id"},
	{"categories", "category_id"},
	{"sub_categories", "sub_category_id"},
	{"brands", "brand_id"},
	{"vehicle_types", "vehicle_type_id"},
}

// Handle runs one reconciliation sweep. Each statement only touches rows
// whose stored count differs from the recomputed one, so a clean database is
// a cheap no-op.
func (h *ReconcileCountersHandler) Handle(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{Corrected: make(map[string]int64)}

	for _, fk := range fkParents {
		n, err := h.reconcileForeignKey(ctx, fk.table, fk.column)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile %s: %w", fk.table, err)
		}
		report.Corrected[fk.table] = n
	}

	n, err := h.reconcileWebsites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile websites: %w", err)
	}
	report.Corrected["websites"] = n

	return report, nil
}

func (h *ReconcileCountersHandler) reconcileForeignKey(ctx context.Context, table, column string) (int64, error) {
	var corrected int64

	q := fmt.Sprintf(`
		UPDATE %[1]s AS parent
		SET product_count = live.cnt
		FROM (
			SELECT %[2]s AS id, count(*) AS cnt
			FROM products
			WHERE deleted_at IS NULL AND %[2]s IS NOT NULL
			GROUP BY %[2]s
		) AS live
		WHERE live.id = parent.id
		  AND parent.deleted_at IS NULL
		  AND parent.product_count <> live.cnt`, table, column)
	res, err := h.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	corrected += n

	// Parents no live product references anymore must drop back to zero
	q = fmt.Sprintf(`
		UPDATE %[1]s
		SET product_count = 0
		WHERE deleted_at IS NULL
		  AND product_count <> 0
		  AND id NOT IN (
			SELECT %[2]s FROM products
			WHERE deleted_at IS NULL AND %[2]s IS NOT NULL
		  )`, table, column)
	res, err = h.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	n, _ = res.RowsAffected()
	corrected += n

	return corrected, nil
}

// reconcileWebsites recomputes counts for the array-valued website membership
func (h *ReconcileCountersHandler) reconcileWebsites(ctx context.Context) (int64, error) {
	const q = `
		UPDATE websites AS w
		SET product_count = live.cnt
		FROM (
			SELECT w2.id, (
				SELECT count(*) FROM products p
				WHERE p.deleted_at IS NULL AND w2.id = ANY(p.website_ids)
			) AS cnt
			FROM websites w2
			WHERE w2.deleted_at IS NULL
		) AS live
		WHERE live.id = w.id
		  AND w.product_count <> live.cnt`
	res, err := h.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
