package handlers

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subdto "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/application/subscription/dto"
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/interfaces/http/handlers/testutil"
	apperrors "github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
)

type planHandlerFixture struct {
	create  *mockCreatePlanUC
	update  *mockUpdatePlanUC
	del     *mockDeletePlanUC
	get     *mockGetPlanUC
	list    *mockListPlansUC
	handler *PlanHandler
}

func newPlanHandlerFixture() *planHandlerFixture {
	f := &planHandlerFixture{
		create: &mockCreatePlanUC{},
		update: &mockUpdatePlanUC{},
		del:    &mockDeletePlanUC{},
		get:    &mockGetPlanUC{},
		list:   &mockListPlansUC{},
	}
	f.handler = NewPlanHandler(f.create, f.update, f.del, f.get, f.list, testutil.NewMockLogger())
	return f
}

func TestPlanHandler_CreatePlan_ParsesCeilings(t *testing.T) {
	f := newPlanHandlerFixture()
	f.create.result = &subdto.PlanDTO{ID: 1, Slug: "pro"}

	body := map[string]any{
		"name":          "Pro",
		"slug":          "pro",
		"price":         "199.90",
		"billing_cycle": "monthly",
		"trial_days":    14,
		"limits": map[string]any{
			"max_users":      5,
			"max_leads":      "unlimited",
			"max_storage_gb": nil,
		},
		"is_public": true,
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/admin/plans", body)

	f.handler.CreatePlan(c)

	require.Equal(t, http.StatusCreated, w.Code)
	got := f.create.got
	assert.Equal(t, "pro", got.Slug)
	assert.True(t, decimal.RequireFromString("199.90").Equal(got.Price))
	assert.Equal(t, 14, got.TrialDays)
	assert.False(t, got.Limits.MaxUsers.IsUnlimited())
	assert.Equal(t, int64(5), got.Limits.MaxUsers.Value())
	assert.True(t, got.Limits.MaxLeads.IsUnlimited())
	assert.True(t, got.Limits.MaxStorageGB.IsUnlimited())
	assert.True(t, got.IsPublic)
}

func TestPlanHandler_CreatePlan_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing limits",
			body: map[string]any{"name": "Pro", "slug": "pro", "billing_cycle": "monthly"},
		},
		{
			name: "negative ceiling",
			body: map[string]any{
				"name": "Pro", "slug": "pro", "billing_cycle": "monthly",
				"limits": map[string]any{"max_users": -1, "max_leads": 10, "max_storage_gb": 1},
			},
		},
		{
			name: "unknown ceiling keyword",
			body: map[string]any{
				"name": "Pro", "slug": "pro", "billing_cycle": "monthly",
				"limits": map[string]any{"max_users": "lots", "max_leads": 10, "max_storage_gb": 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlanHandlerFixture()
			c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/admin/plans", tt.body)

			f.handler.CreatePlan(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, f.create.got.Slug)
		})
	}
}

func TestPlanHandler_CreatePlan_DuplicateSlug(t *testing.T) {
	f := newPlanHandlerFixture()
	f.create.err = apperrors.NewConflictError("plan slug already exists", "pro")

	body := map[string]any{
		"name": "Pro", "slug": "pro", "billing_cycle": "monthly",
		"limits": map[string]any{"max_users": 5, "max_leads": 100, "max_storage_gb": 1},
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/admin/plans", body)

	f.handler.CreatePlan(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPlanHandler_UpdatePlan(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		f := newPlanHandlerFixture()
		f.update.result = &subdto.PlanDTO{ID: 3, Name: "Team"}

		c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/admin/plans/3", map[string]any{
			"name":   "Team",
			"limits": map[string]any{"max_users": 10, "max_leads": 500, "max_storage_gb": 5},
		})
		testutil.SetURLParam(c, "id", "3")

		f.handler.UpdatePlan(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint(3), f.update.got.PlanID)
		require.NotNil(t, f.update.got.Name)
		assert.Equal(t, "Team", *f.update.got.Name)
		require.NotNil(t, f.update.got.Limits)
		assert.Equal(t, int64(500), f.update.got.Limits.MaxLeads.Value())
		assert.Nil(t, f.update.got.Price)
		assert.Nil(t, f.update.got.IsActive)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newPlanHandlerFixture()
		c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/admin/plans/abc", map[string]any{"name": "x"})
		testutil.SetURLParam(c, "id", "abc")

		f.handler.UpdatePlan(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, f.update.got.PlanID)
	})
}

func TestPlanHandler_DeletePlan(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		f := newPlanHandlerFixture()
		c, w := testutil.NewTestContext(http.MethodDelete, "/api/v1/admin/plans/3", nil)
		testutil.SetURLParam(c, "id", "3")

		f.handler.DeletePlan(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("still referenced", func(t *testing.T) {
		f := newPlanHandlerFixture()
		f.del.err = apperrors.NewConflictError("plan is referenced by subscriptions")
		c, w := testutil.NewTestContext(http.MethodDelete, "/api/v1/admin/plans/3", nil)
		testutil.SetURLParam(c, "id", "3")

		f.handler.DeletePlan(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPlanHandler_GetPlan_NotFound(t *testing.T) {
	f := newPlanHandlerFixture()
	f.get.err = apperrors.NewNotFoundError("plan not found")
	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/admin/plans/9", nil)
	testutil.SetURLParam(c, "id", "9")

	f.handler.GetPlan(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanHandler_ListPlans_Scope(t *testing.T) {
	f := newPlanHandlerFixture()
	f.list.result = []*subdto.PlanDTO{{ID: 1, Slug: "starter"}, {ID: 2, Slug: "pro"}}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/plans", nil)
	f.handler.ListPublicPlans(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.list.got.PublicOnly)
	assert.Contains(t, w.Body.String(), `"slug":"starter"`)

	c, w = testutil.NewTestContext(http.MethodGet, "/api/v1/admin/plans", nil)
	f.handler.ListAllPlans(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.list.got.PublicOnly)
}
