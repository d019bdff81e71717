// Package archive uploads rendered insight reports to S3.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/de-tools/doc-insights/pkg/models/api"
	"github.com/rs/zerolog"
)

const (
	DefaultRegion = "us-east-1"
	DefaultPrefix = "insights"
)

// PutObjectAPI is the part of the S3 client the archiver needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
}

func NewArchiver(client PutObjectAPI, bucket, prefix string) (*Archiver, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Archiver{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewS3Archiver builds an Archiver from the shared AWS config of profile.
// An empty profile uses the default credential chain.
func NewS3Archiver(ctx context.Context, profile, bucket string) (*Archiver, error) {
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(DefaultRegion)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return NewArchiver(s3.NewFromConfig(cfg), bucket, DefaultPrefix)
}

// Key returns <prefix>/<report type>/<timestamp>.json for a report.
func (a *Archiver) Key(report api.InsightReport) string {
	return fmt.Sprintf("%s/%s/%s.json", a.prefix, report.ReportType, report.GeneratedAt.UTC().Format("20060102T150405Z"))
}

// Archive uploads report and returns the object key.
func (a *Archiver) Archive(ctx context.Context, report api.InsightReport) (string, error) {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}
	key := a.Key(report)

	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      awssdk.String(a.bucket),
		Key:         awssdk.String(key),
		Body:        bytes.NewReader(body),
		ContentType: awssdk.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, a.bucket, err)
	}

	zerolog.Ctx(ctx).Info().Str("bucket", a.bucket).Str("key", key).Int("bytes", len(body)).Msg("insight report archived")
	return key, nil
}
