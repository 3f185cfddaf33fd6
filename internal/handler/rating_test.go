package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwandile/facility-booking/internal/model"
	"github.com/lwandile/facility-booking/internal/repository"
)

type fakeFacilities struct {
	facilities map[uint64]*model.Facility
}

func (f fakeFacilities) GetByID(ctx context.Context, id uint64) (*model.Facility, error) {
	fac, ok := f.facilities[id]
	if !ok {
		return nil, repository.ErrFacilityNotFound
	}
	return fac, nil
}

type fakeRatings struct {
	ratings []model.Rating
	nextID  uint64
}

func (f *fakeRatings) Create(ctx context.Context, r *model.Rating) error {
	f.nextID++
	r.ID = f.nextID
	r.CreatedAt = time.Now().UTC()
	f.ratings = append(f.ratings, *r)
	return nil
}

func (f *fakeRatings) ListByFacility(ctx context.Context, facilityID uint64) ([]model.Rating, error) {
	out := make([]model.Rating, 0)
	for _, r := range f.ratings {
		if r.FacilityID == facilityID {
			out = append(out, r)
		}
	}
	return out, nil
}

func rateRequest(t *testing.T, h *RatingHandler, facilityID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/facilities/"+facilityID+"/rate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/facilities/:id/rate")
	c.SetParamNames("id")
	c.SetParamValues(facilityID)
	// JWT numeric claims decode as float64.
	c.Set("user_id", float64(9))
	require.NoError(t, h.Rate(c))
	return rec
}

func TestRate_StoresRating(t *testing.T) {
	store := &fakeRatings{}
	h := NewRatingHandler(fakeFacilities{facilities: map[uint64]*model.Facility{
		3: {ID: 3, Name: "Hall", IsActive: true},
	}}, store)

	rec := rateRequest(t, h, "3", `{"stars":4,"comment":"clean and spacious"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, store.ratings, 1)
	assert.Equal(t, uint64(3), store.ratings[0].FacilityID)
	assert.Equal(t, uint64(9), store.ratings[0].UserID)
	assert.Equal(t, 4, store.ratings[0].Stars)
	assert.Equal(t, "clean and spacious", store.ratings[0].Comment)
}

func TestRate_RejectsOutOfRangeStars(t *testing.T) {
	store := &fakeRatings{}
	h := NewRatingHandler(fakeFacilities{facilities: map[uint64]*model.Facility{
		3: {ID: 3, IsActive: true},
	}}, store)

	for _, body := range []string{`{"stars":0}`, `{"stars":6}`} {
		rec := rateRequest(t, h, "3", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Empty(t, store.ratings)
}

func TestRate_UnknownFacility(t *testing.T) {
	h := NewRatingHandler(fakeFacilities{facilities: map[uint64]*model.Facility{}}, &fakeRatings{})
	rec := rateRequest(t, h, "42", `{"stars":5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRatingList_ReturnsFacilityRatings(t *testing.T) {
	store := &fakeRatings{}
	require.NoError(t, store.Create(context.Background(), &model.Rating{FacilityID: 3, UserID: 1, Stars: 5}))
	require.NoError(t, store.Create(context.Background(), &model.Rating{FacilityID: 4, UserID: 2, Stars: 2}))
	h := NewRatingHandler(fakeFacilities{facilities: map[uint64]*model.Facility{
		3: {ID: 3, IsActive: true},
	}}, store)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/facilities/3/ratings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/facilities/:id/ratings")
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []model.Rating `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, uint64(3), body.Items[0].FacilityID)
}
