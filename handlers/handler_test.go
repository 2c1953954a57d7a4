package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/notesnest/backend/database"
	"github.com/notesnest/backend/models"
	"github.com/notesnest/backend/routes"
	"github.com/notesnest/backend/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type fakeUploader struct {
	destroyed []string
	failPDF   bool
}

func (f *fakeUploader) UploadImage(ctx context.Context, file *multipart.FileHeader) (storage.AssetResult, error) {
	return storage.AssetResult{
		PublicID: "notes_nest_images/" + file.Filename,
		URL:      "https://assets.test/image/" + file.Filename,
	}, nil
}

func (f *fakeUploader) UploadPDF(ctx context.Context, file *multipart.FileHeader) (storage.AssetResult, error) {
	if f.failPDF {
		return storage.AssetResult{}, errors.New("upload rejected")
	}
	return storage.AssetResult{
		PublicID: "notes_nest_pdfs/" + file.Filename,
		URL:      "https://assets.test/raw/" + file.Filename,
	}, nil
}

func (f *fakeUploader) Destroy(ctx context.Context, publicID string, raw bool) error {
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

// setupTestApp wires the real routes against an in-memory database and
// a fake uploader. Each test gets its own named shared-cache DB.
func setupTestApp(t *testing.T) (*fiber.App, *fakeUploader) {
	t.Helper()
	os.Setenv("JWT_SECRET", testJWTSecret)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.Purchase{}, &models.Order{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	fake := &fakeUploader{}
	storage.Client = fake

	app := fiber.New()
	routes.UserRoutes(app)
	routes.CourseRoutes(app)
	routes.OrderRoutes(app)

	return app, fake
}

func signToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func seedUser(t *testing.T, email, role string) models.User {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  string(hashed),
		Role:      role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedCourse(t *testing.T, creatorID uuid.UUID, title string, price float64) models.Course {
	t.Helper()
	course := models.Course{
		Title:       title,
		Description: "Basics",
		Price:       price,
		Image:       models.AssetRef{PublicID: "notes_nest_images/logo.png", URL: "https://assets.test/image/logo.png"},
		Pdf:         models.AssetRef{PublicID: "notes_nest_pdfs/notes.pdf", URL: "https://assets.test/raw/notes.pdf"},
		CreatorID:   creatorID,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}
	return course
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", raw, err)
	}
	return body
}

type filePart struct {
	field       string
	filename    string
	contentType string
}

func multipartRequest(t *testing.T, method, path, token string, fields map[string]string, files []filePart) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part %s: %v", f.field, err)
		}
		if _, err := part.Write([]byte("file-content")); err != nil {
			t.Fatalf("failed to write part %s: %v", f.field, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}
