package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/foodgram/pkg/logger"
)

var ErrInvalidImage = errors.New("upload a valid image")

const (
	DirRecipes = "recipes"
	DirAvatars = "avatars"
)

var extByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
}

// Store 保存经 base64 上传的图片，超出尺寸时等比缩小
type Store struct {
	root      string
	baseURL   string
	maxWidth  int
	maxHeight int
}

func NewStore(root, baseURL string, maxWidth, maxHeight int) *Store {
	return &Store{root: root, baseURL: baseURL, maxWidth: maxWidth, maxHeight: maxHeight}
}

// SaveBase64 接受 data URL（data:image/png;base64,...）或裸 base64，返回相对路径
func (s *Store) SaveBase64(dir, data string) (string, error) {
	ext := ".png"
	payload := strings.TrimSpace(data)
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return "", ErrInvalidImage
		}
		mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		e, known := extByMime[strings.ToLower(mime)]
		if !known {
			return "", ErrInvalidImage
		}
		ext, payload = e, body
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrInvalidImage
	}
	b := img.Bounds()
	if s.maxWidth > 0 && s.maxHeight > 0 && (b.Dx() > s.maxWidth || b.Dy() > s.maxHeight) {
		img = imaging.Fit(img, s.maxWidth, s.maxHeight, imaging.Lanczos)
	}

	rel := filepath.ToSlash(filepath.Join(dir, uuid.NewString()+ext))
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := imaging.Save(img, full); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return rel, nil
}

// Delete 删除文件；文件不存在不算错误
func (s *Store) Delete(rel string) {
	if rel == "" {
		return
	}
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("remove media file failed", zap.String("path", full), zap.Error(err))
	}
}

// URL 返回对外地址；空路径返回空串
func (s *Store) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return strings.TrimRight(s.baseURL, "/") + "/" + rel
}

// Root 媒体文件根目录
func (s *Store) Root() string { return s.root }
