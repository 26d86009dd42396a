package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/spec-kit/storage-gateway/internal/config"
)

const (
	emptyAWSSessionToken      = ""
	errFailedCreateSessionFmt = "failed to create AWS session: %w"
	errFailedListBucketsFmt   = "failed to list buckets: %w"
	errFailedListObjectsFmt   = "failed to list objects: %w"
)

// Bucket is one storage bucket visible to the gateway's credentials.
type Bucket struct {
	Name      string
	CreatedAt time.Time
}

// Object is one stored object within the configured bucket.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// ObjectPage is a single page of a bucket listing.
type ObjectPage struct {
	Objects   []Object
	Truncated bool
	NextToken string
}

// Client wraps the S3 API with the listing calls the gateway exposes. Every
// call runs under its own deadline.
type Client struct {
	svc     *s3.S3
	bucket  string
	timeout time.Duration
}

// NewClient dials S3 with static credentials when both halves are configured,
// otherwise the SDK's default chain (environment, shared config, instance role).
func NewClient(cfg config.CloudConfig) (*Client, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateSessionFmt, err)
	}

	return &Client{
		svc:     s3.New(sess),
		bucket:  cfg.Bucket,
		timeout: cfg.RequestTimeout(),
	}, nil
}

// BucketName returns the bucket object listings are served from.
func (c *Client) BucketName() string {
	return c.bucket
}

// ListBuckets returns every bucket the credentials can see.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.svc.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf(errFailedListBucketsFmt, err)
	}

	buckets := make([]Bucket, 0, len(result.Buckets))
	for _, b := range result.Buckets {
		buckets = append(buckets, Bucket{
			Name:      aws.StringValue(b.Name),
			CreatedAt: aws.TimeValue(b.CreationDate),
		})
	}

	return buckets, nil
}

// ListObjects returns one page of keys under prefix in the configured bucket.
// A continuation token from a previous page resumes the listing.
func (c *Client) ListObjects(ctx context.Context, prefix string, maxKeys int, continuationToken string) (*ObjectPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		MaxKeys: aws.Int64(int64(maxKeys)),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if continuationToken != "" {
		input.ContinuationToken = aws.String(continuationToken)
	}

	result, err := c.svc.ListObjectsV2WithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf(errFailedListObjectsFmt, err)
	}

	page := &ObjectPage{
		Objects:   make([]Object, 0, len(result.Contents)),
		Truncated: aws.BoolValue(result.IsTruncated),
		NextToken: aws.StringValue(result.NextContinuationToken),
	}
	for _, obj := range result.Contents {
		page.Objects = append(page.Objects, Object{
			Key:          aws.StringValue(obj.Key),
			Size:         aws.Int64Value(obj.Size),
			LastModified: aws.TimeValue(obj.LastModified),
			ETag:         strings.Trim(aws.StringValue(obj.ETag), `"`),
		})
	}

	return page, nil
}
