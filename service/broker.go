package service

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"video-gateway/apperr"
	"video-gateway/dto"
)

// grantTTL is a property of the issued grant, not a timeout on this process.
const grantTTL = 3600 * time.Second

// Presigner is the slice of the MinIO client the broker needs.
// *minio.Client satisfies it.
type Presigner interface {
	PresignHeader(ctx context.Context, method string, bucketName string, objectName string, expires time.Duration, reqParams url.Values, extraHeaders http.Header) (*url.URL, error)
	PresignedGetObject(ctx context.Context, bucketName string, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type Broker interface {
	IssueUploadGrant(ctx context.Context, filename, contentType string) (*dto.UploadURLResponse, error)
	IssueDownloadGrant(ctx context.Context, objectName string) (*dto.DownloadURLResponse, error)
}

type broker struct {
	signer Presigner
	bucket string
}

func (b *broker) IssueUploadGrant(ctx context.Context, filename, contentType string) (*dto.UploadURLResponse, error) {
	if filename == "" || contentType == "" {
		return nil, apperr.Invalidf("filename and contentType are required")
	}

	// Fresh random prefix keeps object names unique across all uploads.
	objectName := uuid.New().String() + "-" + filename

	headers := http.Header{}
	headers.Set("Content-Type", contentType)
	signed, err := b.signer.PresignHeader(ctx, http.MethodPut, b.bucket, objectName, grantTTL, url.Values{}, headers)
	if err != nil {
		return nil, apperr.Internal("failed to create upload url", err)
	}

	zerolog.Ctx(ctx).Info().Str("object_name", objectName).Msg("issued upload url")
	return &dto.UploadURLResponse{
		UploadUrl: signed.String(),
		Filename:  objectName,
	}, nil
}

func (b *broker) IssueDownloadGrant(ctx context.Context, objectName string) (*dto.DownloadURLResponse, error) {
	if objectName == "" {
		return nil, apperr.Invalidf("filename is required")
	}

	// No existence check: a grant for a missing object fails only when used.
	signed, err := b.signer.PresignedGetObject(ctx, b.bucket, objectName, grantTTL, url.Values{})
	if err != nil {
		return nil, apperr.Internal("failed to create download url", err)
	}

	return &dto.DownloadURLResponse{
		DownloadUrl: signed.String(),
	}, nil
}

func NewBroker(signer Presigner, bucket string) Broker {
	return &broker{
		signer: signer,
		bucket: bucket,
	}
}
