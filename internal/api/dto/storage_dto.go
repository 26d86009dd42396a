package dto

import "time"

// BucketSummary response item.
type BucketSummary struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BucketListResponse for the bucket listing endpoint.
type BucketListResponse struct {
	Buckets []BucketSummary `json:"buckets"`
	Count   int             `json:"count"`
}

// ObjectSummary response item.
type ObjectSummary struct {
	Key          string    `json:"key"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag,omitempty"`
}

// ObjectListResponse for one page of the object listing endpoint.
type ObjectListResponse struct {
	Bucket    string          `json:"bucket"`
	Prefix    string          `json:"prefix,omitempty"`
	Objects   []ObjectSummary `json:"objects"`
	Count     int             `json:"count"`
	Truncated bool            `json:"truncated"`
	NextToken string          `json:"next_token,omitempty"`
}
