package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/notesnest/backend/configs"
)

// AssetResult is what callers keep after a successful upload.
type AssetResult struct {
	PublicID string
	URL      string
}

// Uploader is the course handlers' view of Cloudinary. Tests swap in a
// fake; production uses the single CloudinaryService built in main.
type Uploader interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader) (AssetResult, error)
	UploadPDF(ctx context.Context, file *multipart.FileHeader) (AssetResult, error)
	Destroy(ctx context.Context, publicID string, raw bool) error
}

var Client Uploader

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

// InitCloudinary builds the one process-wide client from CLOUDINARY_URL.
// Handlers never configure Cloudinary themselves.
func InitCloudinary() {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	if cloudinaryURL == "" {
		log.Fatal("🔥 CLOUDINARY_URL is not set")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		log.Fatalf("🔥 Failed to initialize Cloudinary: %v", err)
	}

	Client = &CloudinaryService{cld: cld}
	log.Println("✅ Cloudinary client initialized")
}

func (s *CloudinaryService) UploadImage(ctx context.Context, file *multipart.FileHeader) (AssetResult, error) {
	return s.upload(ctx, file, "image", "notes_nest_images")
}

func (s *CloudinaryService) UploadPDF(ctx context.Context, file *multipart.FileHeader) (AssetResult, error) {
	return s.upload(ctx, file, "raw", "notes_nest_pdfs")
}

func (s *CloudinaryService) upload(ctx context.Context, file *multipart.FileHeader, resourceType, folder string) (AssetResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	src, err := file.Open()
	if err != nil {
		return AssetResult{}, err
	}
	defer src.Close()

	result, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:       folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return AssetResult{}, err
	}
	if result.Error.Message != "" {
		return AssetResult{}, fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}

	return AssetResult{PublicID: result.PublicID, URL: result.SecureURL}, nil
}

func (s *CloudinaryService) Destroy(ctx context.Context, publicID string, raw bool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resourceType := "image"
	if raw {
		resourceType = "raw"
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return err
	}
	if result.Result != "ok" && result.Result != "not found" {
		return errors.New("cloudinary destroy: " + result.Result)
	}
	return nil
}
