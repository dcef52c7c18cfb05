package usecase

import (
	"testing"
	"time"

	"github.com/JJProjectStash/aibarangay-be/internal/core/domain"
)

func TestBuildRequestFilterResidentScope(t *testing.T) {
	resident := Actor{ID: "res-1", Role: domain.RoleResident}

	t.Run("ownership is always applied", func(t *testing.T) {
		filter := BuildRequestFilter(resident, ListParams{})
		if filter.OwnerID != "res-1" {
			t.Fatalf("expected owner constraint, got %q", filter.OwnerID)
		}
	})

	t.Run("client filters cannot widen the scope", func(t *testing.T) {
		filter := BuildRequestFilter(resident, ListParams{Status: "pending", Search: "road"})
		if filter.OwnerID != "res-1" {
			t.Fatal("expected owner constraint to survive client filters")
		}
		if filter.Status != "pending" || filter.Search != "road" {
			t.Fatalf("expected client filters to carry through, got %+v", filter)
		}
	})
}

func TestBuildRequestFilterPrivilegedScope(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleStaff, domain.RoleAdmin} {
		filter := BuildRequestFilter(Actor{ID: "u-1", Role: role}, ListParams{})
		if filter.OwnerID != "" {
			t.Fatalf("role %s: expected no owner constraint, got %q", role, filter.OwnerID)
		}
	}
}

func TestBuildRequestFilterAllSentinel(t *testing.T) {
	actor := Actor{ID: "u-1", Role: domain.RoleStaff}
	filter := BuildRequestFilter(actor, ListParams{Status: "all", Category: "All", Priority: " ALL "})
	if filter.Status != "" || filter.Category != "" || filter.Priority != "" {
		t.Fatalf("expected sentinel values dropped, got %+v", filter)
	}
}

func TestBuildRequestFilterPagination(t *testing.T) {
	actor := Actor{ID: "u-1", Role: domain.RoleStaff}

	cases := []struct {
		name      string
		page      int
		size      int
		wantSkip  int
		wantLimit int
	}{
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 10, 20, 10},
		{"page without size", 2, 0, 0, 0},
		{"size without page", 0, 25, 0, 0},
		{"negative page", -1, 10, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filter := BuildRequestFilter(actor, ListParams{Page: tc.page, PageSize: tc.size})
			if filter.Skip != tc.wantSkip || filter.Limit != tc.wantLimit {
				t.Fatalf("expected skip=%d limit=%d, got skip=%d limit=%d",
					tc.wantSkip, tc.wantLimit, filter.Skip, filter.Limit)
			}
		})
	}
}

func TestBuildRequestFilterDateRange(t *testing.T) {
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	filter := BuildRequestFilter(Actor{ID: "u-1", Role: domain.RoleAdmin}, ListParams{
		CreatedFrom: &from,
		CreatedTo:   &to,
	})
	if filter.CreatedFrom == nil || !filter.CreatedFrom.Equal(from) {
		t.Fatalf("expected from %v, got %v", from, filter.CreatedFrom)
	}
	if filter.CreatedTo == nil || !filter.CreatedTo.Equal(to) {
		t.Fatalf("expected to %v, got %v", to, filter.CreatedTo)
	}
}
