package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"labexams/database"
	"labexams/model"
	"labexams/router"
)

// setupApp connects to the database from the environment, resets the
// tables, and returns a routed app. These tests require a running Postgres;
// set RUN_INTEGRATION_TESTS=true and the DB_* variables to run them.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	store, err := database.StartGORM()
	require.NoError(t, err)
	require.NoError(t, store.Init())

	db, ok := store.GetDB().(*gorm.DB)
	require.True(t, ok)

	require.NoError(t, db.Exec("DELETE FROM laboratory_exams").Error)
	require.NoError(t, db.Exec("DELETE FROM exams").Error)
	require.NoError(t, db.Exec("DELETE FROM laboratories").Error)

	app := fiber.New()
	router.SetupRoutes(app, store)

	t.Cleanup(func() { store.Close() })

	return app, db
}

// doJSON issues a request against the app and returns the response with its
// decoded JSON body (nil for 204s).
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, raw := doRaw(t, app, method, path, body)
	if len(raw) == 0 {
		return resp, nil
	}

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

// doJSONList is doJSON for endpoints returning a JSON array
func doJSONList(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []map[string]interface{}) {
	t.Helper()

	resp, raw := doRaw(t, app, method, path, body)
	if len(raw) == 0 {
		return resp, nil
	}

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func doRaw(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, raw
}

func createLaboratory(t *testing.T, db *gorm.DB, name, address string, status bool) model.Laboratory {
	t.Helper()

	lab := model.Laboratory{Name: name, Address: address, Status: status}
	require.NoError(t, db.Create(&lab).Error)
	return lab
}

func createExam(t *testing.T, db *gorm.DB, name, examType string, status bool) model.Exam {
	t.Helper()

	exam := model.Exam{Name: name, Type: examType, Status: status}
	require.NoError(t, db.Create(&exam).Error)
	return exam
}
