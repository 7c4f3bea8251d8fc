package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teenfin/backend/core/unit"
	"github.com/teenfin/backend/tests"
)

func Test_unitApi_query(t *testing.T) {
	e := setup(t)
	budget := testutil.CreateCourse(t, e.courseRepo, "Budgeting", 1)
	invest := testutil.CreateCourse(t, e.courseRepo, "Investing", 2)
	u2 := testutil.CreateUnit(t, e.unitRepo, budget.ID, "Needs and wants", 2)
	u1 := testutil.CreateUnit(t, e.unitRepo, budget.ID, "Income", 1)
	testutil.CreateUnit(t, e.unitRepo, invest.ID, "Stocks", 1)

	e.run(t, []httpTest{
		{name: "Auth required", path: "/v1/units?course_id=" + budget.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "course_id required", path: "/v1/units", token: e.token, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"course_id":"this field is required"}`),
		},
		{
			name: "unknown course", path: "/v1/units?course_id=" + unknownID, token: e.token, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "course not found", Code: "not_found"}),
		},
		{name: "by course", path: "/v1/units?course_id=" + budget.ID, token: e.token, wantData: marchallList(t, u1, u2)},
		{name: "nested", path: "/v1/courses/" + budget.ID + "/units", token: e.token, wantData: marchallList(t, u1, u2)},
		{name: "retrieve", path: "/v1/units/" + u2.ID, token: e.token, wantData: marchallObj(t, u2)},
		{
			name: "retrieve (unknown)", path: "/v1/units/" + unknownID, token: e.token, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "unit not found", Code: "not_found"}),
		},
	})
}

func Test_unitApi_create(t *testing.T) {
	e := setup(t)
	c := testutil.CreateCourse(t, e.courseRepo, "Budgeting", 1)
	testutil.CreateUnit(t, e.unitRepo, c.ID, "Income", 1)

	e.run(t, []httpTest{
		{
			name: "Admin required", method: http.MethodPost, path: "/v1/units", token: e.token,
			body: marchallObj(t, unit.NewUnit{CourseID: c.ID, Title: "Needs"}), wantCode: http.StatusForbidden,
		},
		{
			name: "unknown course", method: http.MethodPost, path: "/v1/units", token: e.adminToken,
			body: marchallObj(t, unit.NewUnit{CourseID: unknownID, Title: "Needs"}), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"course_id":"course not found"}`),
		},
		{
			name: "fields required", method: http.MethodPost, path: "/v1/units", token: e.adminToken,
			body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"course_id":"this field is required","title":"this field is required"}`),
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/units", e.adminToken, marchallObj(t, unit.NewUnit{CourseID: c.ID, Title: "Needs and wants"}))
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got unit.Unit
	decode(t, rec, &got)
	assert.Equal(t, c.ID, got.CourseID)
	assert.Equal(t, 2, got.Position)
}

// PUT /units/:id with only `order` is the per-unit reorder call.
func Test_unitApi_update(t *testing.T) {
	e := setup(t)
	c := testutil.CreateCourse(t, e.courseRepo, "Budgeting", 1)
	a := testutil.CreateUnit(t, e.unitRepo, c.ID, "A", 1)
	b := testutil.CreateUnit(t, e.unitRepo, c.ID, "B", 2)

	e.run(t, []httpTest{
		{
			name: "Admin required", method: http.MethodPut, path: "/v1/units/" + a.ID, token: e.token,
			body: []byte(`{"order":2}`), wantCode: http.StatusForbidden,
		},
		{
			name: "invalid order", method: http.MethodPut, path: "/v1/units/" + a.ID, token: e.adminToken,
			body: []byte(`{"order":0}`), wantCode: http.StatusBadRequest, wantData: []byte(`{"order":"order must be 1 or greater"}`),
		},
		{
			name: "unknown", method: http.MethodPut, path: "/v1/units/" + unknownID, token: e.adminToken,
			body: []byte(`{"order":2}`), wantCode: http.StatusNotFound,
		},
		{name: "order", method: http.MethodPut, path: "/v1/units/" + a.ID, token: e.adminToken, body: []byte(`{"order":3}`)},
	})

	ctx := context.Background()
	got, err := e.unitRepo.GetUnit(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Position)
	sibling, err := e.unitRepo.GetUnit(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, sibling)

	req, rec := newAuthRequest(http.MethodPut, "/v1/units/"+b.ID, e.adminToken, []byte(`{"title":"Spending"}`))
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &got)
	assert.Equal(t, "Spending", got.Title)
	assert.Equal(t, 2, got.Position)
}

func Test_unitApi_delete(t *testing.T) {
	e := setup(t)
	c := testutil.CreateCourse(t, e.courseRepo, "Budgeting", 1)
	a := testutil.CreateUnit(t, e.unitRepo, c.ID, "A", 1)
	b := testutil.CreateUnit(t, e.unitRepo, c.ID, "B", 2)

	e.run(t, []httpTest{
		{name: "Admin required", method: http.MethodDelete, path: "/v1/units/" + a.ID, token: e.token, wantCode: http.StatusForbidden},
		{name: "delete", method: http.MethodDelete, path: "/v1/units/" + a.ID, token: e.adminToken, wantCode: http.StatusNoContent},
		{name: "delete (again)", method: http.MethodDelete, path: "/v1/units/" + a.ID, token: e.adminToken, wantCode: http.StatusNotFound},
		// the gap left by A is kept
		{name: "remaining", path: "/v1/courses/" + c.ID + "/units", token: e.token, wantData: marchallList(t, b)},
	})
}

func Test_unitApi_reorder(t *testing.T) {
	e := setup(t)
	c := testutil.CreateCourse(t, e.courseRepo, "Budgeting", 1)
	other := testutil.CreateCourse(t, e.courseRepo, "Investing", 2)
	a := testutil.CreateUnit(t, e.unitRepo, c.ID, "A", 1)
	b := testutil.CreateUnit(t, e.unitRepo, c.ID, "B", 2)
	d := testutil.CreateUnit(t, e.unitRepo, c.ID, "D", 3)
	stocks := testutil.CreateUnit(t, e.unitRepo, other.ID, "Stocks", 1)

	path := "/v1/courses/" + c.ID + "/units"
	e.run(t, []httpTest{
		{
			name: "Admin required", method: http.MethodPost, path: path + "/reorder", token: e.token,
			body: marchallObj(t, map[string]string{"moved_id": d.ID, "target_id": a.ID}), wantCode: http.StatusForbidden,
		},
		{
			name: "unit of another course", method: http.MethodPost, path: path + "/reorder", token: e.adminToken,
			body: marchallObj(t, map[string]string{"moved_id": stocks.ID, "target_id": a.ID}), wantCode: http.StatusUnprocessableEntity,
			wantData: marchallObj(t, httpErr{Error: `invalid reference "` + stocks.ID + `": not in collection`, Code: "invalid_reference"}),
		},
		{
			name: "unknown course", method: http.MethodPost, path: "/v1/courses/" + unknownID + "/units/reorder", token: e.adminToken,
			body: marchallObj(t, map[string]string{"moved_id": d.ID, "target_id": a.ID}), wantCode: http.StatusNotFound,
		},
		{
			name: "arrange (partial)", method: http.MethodPut, path: path + "/order", token: e.adminToken,
			body: marchallObj(t, unit.NewOrder{IDs: []string{a.ID, b.ID}}), wantCode: http.StatusUnprocessableEntity,
		},
	})

	ctx := context.Background()

	// A B D -> D A B
	req, rec := newAuthRequest(http.MethodPost, path+"/reorder", e.adminToken,
		marchallObj(t, map[string]string{"moved_id": d.ID, "target_id": a.ID}))
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got []unit.Unit
	decode(t, rec, &got)
	require.Len(t, got, 3)
	assert.Equal(t, []string{d.ID, a.ID, b.ID}, []string{got[0].ID, got[1].ID, got[2].ID})

	// D A B -> B D A
	req, rec = newAuthRequest(http.MethodPut, path+"/order", e.adminToken, marchallObj(t, unit.NewOrder{IDs: []string{b.ID, d.ID, a.ID}}))
	e.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := e.unitRepo.QueryUnits(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, want := range []string{b.ID, d.ID, a.ID} {
		assert.Equal(t, want, stored[i].ID)
		assert.Equal(t, i+1, stored[i].Position)
	}

	// the other course is untouched
	untouched, err := e.unitRepo.GetUnit(ctx, stocks.ID)
	require.NoError(t, err)
	assert.Equal(t, stocks, untouched)
}
