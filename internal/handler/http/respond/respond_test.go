package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedCode int
		expectedBody string
	}{
		{
			name:         "success with map",
			code:         http.StatusOK,
			data:         map[string]string{"message": "success"},
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"success"}`,
		},
		{
			name:         "success with slice",
			code:         http.StatusOK,
			data:         []int{1, 2, 3},
			expectedCode: http.StatusOK,
			expectedBody: `[1,2,3]`,
		},
		{
			name:         "nil writes empty body",
			code:         http.StatusNoContent,
			data:         nil,
			expectedCode: http.StatusNoContent,
			expectedBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			if w.Code != tt.expectedCode {
				t.Errorf("Code = %v, want %v", w.Code, tt.expectedCode)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %v, want application/json", ct)
			}
			body := strings.TrimSpace(w.Body.String())
			if body != tt.expectedBody {
				t.Errorf("Body = %v, want %v", body, tt.expectedBody)
			}
		})
	}
}

func TestNullJSON(t *testing.T) {
	w := httptest.NewRecorder()
	NullJSON(w, http.StatusOK)

	if w.Code != http.StatusOK {
		t.Errorf("Code = %v, want %v", w.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "null" {
		t.Errorf("Body = %q, want null literal", body)
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusNotFound, errors.New("article not found"))

	if w.Code != http.StatusNotFound {
		t.Errorf("Code = %v, want %v", w.Code, http.StatusNotFound)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["error"] != "article not found" {
		t.Errorf("Error message = %v, want article not found", body["error"])
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		err          error
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "nil error writes nothing",
			code:         http.StatusBadRequest,
			err:          nil,
			expectedCode: 0,
			expectedMsg:  "",
		},
		{
			name:         "validation error - required",
			code:         http.StatusBadRequest,
			err:          errors.New("page parameter is required"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "page parameter is required",
		},
		{
			name:         "validation error - invalid",
			code:         http.StatusBadRequest,
			err:          errors.New("invalid page number"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "invalid page number",
		},
		{
			name:         "not found error",
			code:         http.StatusNotFound,
			err:          errors.New("article not found"),
			expectedCode: http.StatusNotFound,
			expectedMsg:  "article not found",
		},
		{
			name:         "unknown source filter",
			code:         http.StatusBadRequest,
			err:          errors.New("unknown source: nope"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "unknown source: nope",
		},
		{
			name:         "internal error masked",
			code:         http.StatusInternalServerError,
			err:          errors.New("upstream decode failed at byte 512"),
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "internal server error",
		},
		{
			name:         "500 always masked even with safe keyword",
			code:         http.StatusInternalServerError,
			err:          errors.New("some error with required keyword"),
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "internal server error",
		},
		{
			name:         "502 masked",
			code:         http.StatusBadGateway,
			err:          errors.New("upstream service unavailable"),
			expectedCode: http.StatusBadGateway,
			expectedMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			if tt.err == nil {
				if w.Body.Len() != 0 {
					t.Errorf("Expected no body for nil error, got: %v", w.Body.String())
				}
				return
			}

			if w.Code != tt.expectedCode {
				t.Errorf("Code = %v, want %v", w.Code, tt.expectedCode)
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body["error"] != tt.expectedMsg {
				t.Errorf("Error message = %v, want %v", body["error"], tt.expectedMsg)
			}
		})
	}
}
