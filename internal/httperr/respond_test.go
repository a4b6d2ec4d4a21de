package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondBusinessCodes(t *testing.T) {
	status, body := respond(t, ErrBusiness("slot_taken"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "slot_taken", body.Code)
	assert.Contains(t, body.Message, "reservado")

	status, body = respond(t, fmt.Errorf("load: %w", ErrBusiness("appointment_not_found")))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "appointment_not_found", body.Code)
}

func TestRespondUnknownCodeIsBadRequest(t *testing.T) {
	status, body := respond(t, ErrBusiness("something_new"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "something_new", body.Code)
}

func TestRespondPersistenceErrorKeepsRawText(t *testing.T) {
	status, body := respond(t, errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "persistence_error", body.Code)
	assert.Equal(t, "connection refused", body.Message)
}

func TestRespondConstraintViolationIsSlotTaken(t *testing.T) {
	status, body := respond(t, &pgconn.PgError{Code: "23P01"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "slot_taken", body.Code)
}
