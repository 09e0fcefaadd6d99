package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
)

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rr.Body.String())
	}
}

func createProfile(t *testing.T, h http.Handler, id, email, gender, interestedIn string) model.Profile {
	t.Helper()

	rr := doJSON(t, h, http.MethodPost, "/api/users", map[string]any{
		"id":           id,
		"email":        email,
		"name":         id,
		"age":          27,
		"gender":       gender,
		"interestedIn": interestedIn,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create profile %s: status=%d body=%s", id, rr.Code, rr.Body.String())
	}

	var p model.Profile
	decodeBody(t, rr, &p)
	return p
}
