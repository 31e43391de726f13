package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/facturio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type payload struct {
		Email string `json:"email" binding:"required,email"`
		Rate  int    `json:"rate" binding:"required,min=1"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req payload
		if err := c.ShouldBindJSON(&req); err != nil {
			if resp, ok := FormatValidationErrors(err, "req-1"); ok {
				c.JSON(http.StatusBadRequest, resp)
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("reports each invalid field", func(t *testing.T) {
		body := strings.NewReader(`{"email": "invalid", "rate": 0}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 2)

		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "rate")
	})

	t.Run("accepts valid input", func(t *testing.T) {
		body := strings.NewReader(`{"email": "test@example.com", "rate": 3}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declines errors without field details", func(t *testing.T) {
		_, ok := FormatValidationErrors(errors.New("unexpected EOF"), "req-2")
		assert.False(t, ok)
	})
}

func TestValidationMessages(t *testing.T) {
	type payload struct {
		Email    string `binding:"email"`
		Required string `binding:"required"`
		Min      string `binding:"min=5"`
		Max      string `binding:"max=2"`
		OneOf    string `binding:"oneof=asc desc"`
		UUID     string `binding:"uuid"`
	}

	// gin declares rules under the binding tag, not validator's default
	v := validator.New()
	v.SetTagName("binding")
	err := v.Struct(payload{Email: "nope", Max: "abc", OneOf: "up", UUID: "nope"})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	expected := map[string]string{
		"Email":    "Invalid email format",
		"Required": "This field is required",
		"Min":      "Must be at least 5 characters",
		"Max":      "Must be at most 2 characters",
		"OneOf":    "Must be one of: asc desc",
		"UUID":     "Invalid UUID format",
	}

	for _, e := range validationErrors {
		want, found := expected[e.StructField()]
		require.True(t, found, "unexpected field %s", e.StructField())
		assert.Equal(t, want, validationMessage(e))
	}
}
