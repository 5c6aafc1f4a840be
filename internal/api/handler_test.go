package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/qluke/genshin-builds/internal/api"
	"github.com/qluke/genshin-builds/internal/domain"
	"github.com/qluke/genshin-builds/internal/materials"
	"github.com/qluke/genshin-builds/internal/profile"
)

type fakeService struct {
	profiles  map[string]*domain.Profile
	err       error
	lastRange materials.Range
}

func (f *fakeService) GetProfile(_ context.Context, uid, _ string) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[uid]
	if !ok {
		return nil, profile.ErrPlayerNotFound
	}
	return p, nil
}

func (f *fakeService) Materials(_ string, characterID string, r materials.Range) (materials.CharacterTotals, error) {
	f.lastRange = r
	if err := r.Validate(); err != nil {
		return materials.CharacterTotals{}, err
	}
	if characterID != "fischl" {
		return materials.CharacterTotals{}, fmt.Errorf("%w: %s", profile.ErrCharacterNotFound, characterID)
	}
	return materials.CharacterTotals{
		Ascension: domain.AggregateResult{Items: []domain.MaterialTotal{}, Cost: 10},
		Talents:   domain.AggregateResult{Items: []domain.MaterialTotal{}, Cost: 20},
	}, nil
}

func newRouter(svc *fakeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return api.NewRouter(api.NewHandler(svc, nil))
}

func do(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	w := do(t, newRouter(&fakeService{}), "/health")
	if w.Code != http.StatusOK || decodeBody(t, w)["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %s", w.Code, w.Body.String())
	}
}

func TestGetBuild_MissingParams(t *testing.T) {
	r := newRouter(&fakeService{})
	for _, target := range []string{"/api/get_build", "/api/get_build?uid=700000001", "/api/get_build?lang=en"} {
		w := do(t, r, target)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, w.Code)
		}
		if got := decodeBody(t, w)["error"]; got != "Missing uid or lang" {
			t.Fatalf("%s: unexpected error %v", target, got)
		}
	}
}

func TestGetBuild_NotFound(t *testing.T) {
	w := do(t, newRouter(&fakeService{}), "/api/get_build?uid=700000001&lang=en")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "Player not found" {
		t.Fatalf("unexpected error %v", got)
	}
}

func TestGetBuild_InternalError(t *testing.T) {
	w := do(t, newRouter(&fakeService{err: errors.New("db down")}), "/api/get_build?uid=700000001&lang=en")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetBuild_OK(t *testing.T) {
	svc := &fakeService{profiles: map[string]*domain.Profile{
		"700000001": {
			Player: domain.Player{ID: "row-key", UUID: "700000001", Nickname: "Traveler", WorldLevel: 8},
			Region: "EU",
			Builds: []*domain.DecodedBuild{nil, {AvatarID: 10000031, ID: "fischl", Name: "Fischl"}},
		},
	}}
	w := do(t, newRouter(svc), "/api/get_build?uid=700000001&lang=en")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["uuid"] != "700000001" || body["region"] != "EU" || body["worldLevel"] != float64(8) {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["id"]; ok {
		t.Fatalf("expected storage id to stay out of the response, got %v", body["id"])
	}
	builds, ok := body["builds"].([]any)
	if !ok || len(builds) != 2 || builds[0] != nil {
		t.Fatalf("expected builds [null, {...}], got %v", body["builds"])
	}
}

func TestGetMaterials(t *testing.T) {
	svc := &fakeService{}
	w := do(t, newRouter(svc), "/api/materials/fischl?asc_min=2&talent_max=8")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	want := materials.Range{AscensionMin: 2, AscensionMax: 6, TalentMin: 1, TalentMax: 8}
	if svc.lastRange != want {
		t.Fatalf("expected range %+v, got %+v", want, svc.lastRange)
	}
	body := decodeBody(t, w)
	if _, ok := body["ascension"]; !ok {
		t.Fatalf("expected ascension key, got %v", body)
	}
}

func TestGetMaterials_Errors(t *testing.T) {
	r := newRouter(&fakeService{})
	cases := []struct {
		target string
		code   int
	}{
		{"/api/materials/nobody", http.StatusNotFound},
		{"/api/materials/fischl?asc_min=x", http.StatusBadRequest},
		{"/api/materials/fischl?asc_min=5&asc_max=2", http.StatusBadRequest},
		{"/api/materials/fischl?talent_min=0", http.StatusBadRequest},
	}
	for _, tc := range cases {
		if w := do(t, r, tc.target); w.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.target, tc.code, w.Code)
		}
	}
}
