package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	// imaging decodes through image.Decode, which only knows formats that
	// have registered themselves; webp is in the allowed set but has no
	// decoder in the standard image package
	_ "golang.org/x/image/webp"

	"github.com/barelands/server/internal/models"
	"github.com/barelands/server/internal/observability"
)

const thumbMaxDim = 500

var dataURIPattern = regexp.MustCompile(`^data:([A-Za-z0-9.+/-]+);base64,(.+)$`)

// AssetService persists and deletes the image bytes behind a photo's image
// reference. It only ever creates or removes files inside the managed upload
// namespace; anything else is treated as externally hosted.
type AssetService struct {
	publicDir         string
	uploadPrefix      string
	allowedExtensions map[string]bool
	maxFileSizeBytes  int64
}

// NewAssetService creates an AssetService rooted at publicDir. uploadPrefix
// is the root-relative namespace (e.g. "/uploads/") this service manages.
func NewAssetService(publicDir, uploadPrefix string, allowedExtensions []string, maxFileSizeMB int64) (*AssetService, error) {
	if strings.TrimSpace(publicDir) == "" {
		return nil, fmt.Errorf("public dir cannot be empty")
	}
	if !strings.HasPrefix(uploadPrefix, "/") || !strings.HasSuffix(uploadPrefix, "/") {
		return nil, fmt.Errorf("upload prefix must start and end with /")
	}

	absPublic, err := filepath.Abs(publicDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(absPublic, filepath.FromSlash(strings.Trim(uploadPrefix, "/"))), 0755); err != nil {
		return nil, err
	}

	extSet := make(map[string]bool)
	if len(allowedExtensions) == 0 {
		for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
			extSet[ext] = true
		}
	} else {
		for _, ext := range allowedExtensions {
			extSet[strings.ToLower(ext)] = true
		}
	}

	return &AssetService{
		publicDir:         absPublic,
		uploadPrefix:      uploadPrefix,
		allowedExtensions: extSet,
		maxFileSizeBytes:  maxFileSizeMB * 1024 * 1024,
	}, nil
}

// StoreDataURI decodes a base64 data-URI and stores the image, returning the
// root-relative public path
func (s *AssetService) StoreDataURI(ctx context.Context, dataURI string) (string, error) {
	matches := dataURIPattern.FindStringSubmatch(dataURI)
	if matches == nil {
		return "", models.ErrInvalidImageData
	}

	data, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return "", models.ErrInvalidImageData
	}

	return s.Store(ctx, data, extensionForMIME(matches[1]))
}

// Store validates and persists image bytes under the managed namespace with
// a generated unique filename, returning the root-relative public path.
// Bytes that do not decode as a recognized image encoding are rejected.
func (s *AssetService) Store(ctx context.Context, data []byte, ext string) (string, error) {
	if int64(len(data)) > s.maxFileSizeBytes {
		return "", models.ErrFileTooLarge
	}

	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if !s.allowedExtensions[ext] {
		return "", models.ErrInvalidExtension
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", models.ErrInvalidImageData
	}

	publicPath := s.uploadPrefix + uuid.New().String() + ext
	fullPath, err := s.fullPath(publicPath)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", err
	}

	// Admin-grid rendition; losing it only degrades the admin UI
	if err := s.writeThumbnail(publicPath, img); err != nil {
		observability.WithContext(ctx).Warnf("Failed to generate thumbnail for %s: %v", publicPath, err)
	}

	observability.WithContext(ctx).Debugf("Stored asset %s (%d bytes)", publicPath, len(data))
	return publicPath, nil
}

// Delete removes the backing file behind publicPath. Paths outside the
// managed namespace are never touched; both that case and an already-absent
// file report false without an error.
func (s *AssetService) Delete(ctx context.Context, publicPath string) bool {
	if !s.Managed(publicPath) {
		return false
	}

	fullPath, err := s.fullPath(publicPath)
	if err != nil {
		observability.WithContext(ctx).Warnf("Refusing to delete %s: %v", publicPath, err)
		return false
	}

	if err := os.Remove(fullPath); err != nil {
		return false
	}

	// Thumbnail rides along; its absence is not a failure
	if thumb, err := s.fullPath(s.thumbPublicPath(publicPath)); err == nil {
		os.Remove(thumb)
	}

	observability.WithContext(ctx).Debugf("Deleted asset %s", publicPath)
	return true
}

// Exists reports whether publicPath still resolves to a real asset. Paths
// outside the managed namespace are assumed externally hosted and valid.
func (s *AssetService) Exists(publicPath string) bool {
	if strings.TrimSpace(publicPath) == "" {
		return false
	}
	if !s.Managed(publicPath) {
		return true
	}

	fullPath, err := s.fullPath(publicPath)
	if err != nil {
		return false
	}

	_, err = os.Stat(fullPath)
	return err == nil
}

// Managed reports whether publicPath falls inside the managed upload
// namespace
func (s *AssetService) Managed(publicPath string) bool {
	return strings.HasPrefix(publicPath, s.uploadPrefix)
}

// PublicDir returns the absolute directory static files are served from
func (s *AssetService) PublicDir() string {
	return s.publicDir
}

// fullPath maps a root-relative public path onto the filesystem, guarding
// against traversal out of the public directory
func (s *AssetService) fullPath(publicPath string) (string, error) {
	cleaned := path.Clean("/" + publicPath)
	fullPath := filepath.Join(s.publicDir, filepath.FromSlash(cleaned))

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(absPath, s.publicDir+string(os.PathSeparator)) {
		return "", models.ErrPathTraversal
	}

	return absPath, nil
}

func (s *AssetService) thumbPublicPath(publicPath string) string {
	base := path.Base(publicPath)
	base = strings.TrimSuffix(base, path.Ext(base)) + ".jpg"
	return s.uploadPrefix + "thumbs/" + base
}

func (s *AssetService) writeThumbnail(publicPath string, img image.Image) error {
	thumbPublic := s.thumbPublicPath(publicPath)
	fullPath, err := s.fullPath(thumbPublic)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	thumb := imaging.Fit(img, thumbMaxDim, thumbMaxDim, imaging.Lanczos)

	out, err := os.OpenFile(fullPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	return jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
}

// extensionForMIME maps an image MIME type to a file extension, defaulting
// to .jpg for unknown subtypes the way the original site did
func extensionForMIME(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		if idx := strings.Index(mimeType, "/"); idx >= 0 {
			return "." + mimeType[idx+1:]
		}
		return ".jpg"
	}
}
