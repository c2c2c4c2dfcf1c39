package domain

import (
	"reflect"
	"sort"
	"testing"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusActive, StatusInactive, StatusDiscontinued, StatusPublish} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidStatus("archived") {
		t.Error("expected unknown status to be invalid")
	}
	if ValidStatus("") {
		t.Error("expected empty status to be invalid")
	}
}

func TestParentRefs(t *testing.T) {
	catalogID := uint(3)
	brandID := uint(7)
	p := &Product{
		CatalogID:  &catalogID,
		BrandID:    &brandID,
		WebsiteIDs: pq.Int64Array{10, 20},
	}

	refs := p.ParentRefs()

	if !reflect.DeepEqual(refs[ParentCatalog], []uint{3}) {
		t.Errorf("catalog refs = %v", refs[ParentCatalog])
	}
	if !reflect.DeepEqual(refs[ParentBrand], []uint{7}) {
		t.Errorf("brand refs = %v", refs[ParentBrand])
	}
	if !reflect.DeepEqual(refs[ParentWebsite], []uint{10, 20}) {
		t.Errorf("website refs = %v", refs[ParentWebsite])
	}
	if _, ok := refs[ParentCategory]; ok {
		t.Error("nil association must not appear in refs")
	}
	if _, ok := refs[ParentVehicleType]; ok {
		t.Error("nil association must not appear in refs")
	}
}

func TestParentRefsEmpty(t *testing.T) {
	p := &Product{}
	if refs := p.ParentRefs(); len(refs) != 0 {
		t.Errorf("expected no refs, got %v", refs)
	}
}

func TestIsLive(t *testing.T) {
	p := &Product{}
	if !p.IsLive() {
		t.Error("product without deleted_at should be live")
	}
	p.DeletedAt = gorm.DeletedAt{Valid: true}
	if p.IsLive() {
		t.Error("soft-deleted product should not be live")
	}
}

func TestWebsiteDiff(t *testing.T) {
	tests := []struct {
		name    string
		prev    pq.Int64Array
		cur     pq.Int64Array
		removed []uint
		added   []uint
	}{
		{"no change", pq.Int64Array{1, 2}, pq.Int64Array{1, 2}, nil, nil},
		{"pure add", nil, pq.Int64Array{5}, nil, []uint{5}},
		{"pure remove", pq.Int64Array{5}, nil, []uint{5}, nil},
		{"overlap", pq.Int64Array{1, 2, 3}, pq.Int64Array{2, 3, 4}, []uint{1}, []uint{4}},
		{"disjoint", pq.Int64Array{1}, pq.Int64Array{9}, []uint{1}, []uint{9}},
		{"both empty", nil, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removed, added := WebsiteDiff(tt.prev, tt.cur)
			sortUints(removed)
			sortUints(added)
			if !reflect.DeepEqual(removed, tt.removed) {
				t.Errorf("removed = %v, want %v", removed, tt.removed)
			}
			if !reflect.DeepEqual(added, tt.added) {
				t.Errorf("added = %v, want %v", added, tt.added)
			}
		})
	}
}

func sortUints(s []uint) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
