// Package mint issues one-time S3 write URLs. It serves the same contract
// as the remote put-objects endpoint, so a local deployment can point the
// presign route at itself.
package mint

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/moyoez/uploadkit/tool"
	"github.com/moyoez/uploadkit/types"
)

// Presigner signs object URLs for a single bucket.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	// Location is the durable reference of key once written.
	Location(key string, access types.FileAccess) string
}

type S3Presigner struct {
	client     *s3.PresignClient
	bucket     string
	region     string
	endpoint   string
	publicBase string
}

// NewS3Presigner builds a presigner from the mint configuration. Static
// credentials are used when given, the default AWS chain otherwise. A custom
// endpoint switches to path-style addressing.
func NewS3Presigner(ctx context.Context, cfg types.MintConfig) (*S3Presigner, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("mint bucket must not be empty")
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	tool.DefaultLogger.Infof("[Mint] Presigning for bucket %s (region %s)", cfg.Bucket, cfg.Region)
	return &S3Presigner{
		client:     s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		endpoint:   cfg.Endpoint,
		publicBase: cfg.PublicBaseURL,
	}, nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := p.client.PresignPutObject(ctx, input, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// Location returns the public object URL for public files and an s3 URI
// for private ones.
func (p *S3Presigner) Location(key string, access types.FileAccess) string {
	if access != types.FileAccessPublic {
		return fmt.Sprintf("s3://%s/%s", p.bucket, key)
	}
	if p.publicBase != "" {
		return tool.BuildObjectURL(p.publicBase, key)
	}
	escaped := (&url.URL{Path: key}).EscapedPath()
	if p.endpoint != "" {
		return tool.BuildObjectURL(strings.TrimRight(p.endpoint, "/")+"/"+p.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, escaped)
}
