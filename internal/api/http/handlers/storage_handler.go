package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-gateway/internal/api/dto"
	"github.com/spec-kit/storage-gateway/internal/cloud"
	apperrors "github.com/spec-kit/storage-gateway/pkg/util"
)

// cloudMaxListKeys is the hard page-size ceiling the upstream API enforces.
const cloudMaxListKeys = 1000

// ObjectLister is the slice of the cloud client the storage endpoints use.
type ObjectLister interface {
	BucketName() string
	ListBuckets(ctx context.Context) ([]cloud.Bucket, error)
	ListObjects(ctx context.Context, prefix string, maxKeys int, continuationToken string) (*cloud.ObjectPage, error)
}

// StorageHandler serves the protected cloud listing endpoints.
type StorageHandler struct {
	lister         ObjectLister
	defaultMaxKeys int
}

// NewStorageHandler constructs handler.
func NewStorageHandler(lister ObjectLister, defaultMaxKeys int) *StorageHandler {
	return &StorageHandler{lister: lister, defaultMaxKeys: defaultMaxKeys}
}

// ListBuckets GET /api/storage/buckets.
func (h *StorageHandler) ListBuckets(c *fiber.Ctx) error {
	buckets, err := h.lister.ListBuckets(c.UserContext())
	if err != nil {
		return apperrors.NewBadGateway("cloud storage request failed", err)
	}

	items := make([]dto.BucketSummary, 0, len(buckets))
	for _, bucket := range buckets {
		items = append(items, dto.BucketSummary{
			Name:      bucket.Name,
			CreatedAt: bucket.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": dto.BucketListResponse{
		Buckets: items,
		Count:   len(items),
	}})
}

// ListObjects GET /api/storage/objects.
func (h *StorageHandler) ListObjects(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), h.defaultMaxKeys)
	if limit > cloudMaxListKeys {
		limit = cloudMaxListKeys
	}
	prefix := c.Query("prefix")

	page, err := h.lister.ListObjects(c.UserContext(), prefix, limit, c.Query("token"))
	if err != nil {
		return apperrors.NewBadGateway("cloud storage request failed", err)
	}

	items := make([]dto.ObjectSummary, 0, len(page.Objects))
	for _, obj := range page.Objects {
		items = append(items, dto.ObjectSummary{
			Key:          obj.Key,
			SizeBytes:    obj.Size,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
		})
	}
	return c.JSON(fiber.Map{"data": dto.ObjectListResponse{
		Bucket:    h.lister.BucketName(),
		Prefix:    prefix,
		Objects:   items,
		Count:     len(items),
		Truncated: page.Truncated,
		NextToken: page.NextToken,
	}})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
