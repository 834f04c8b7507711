package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Timi16/dehug-go/internal/common"
)

const (
	// DefaultFilebaseEndpoint is the S3-compatible API of the Filebase
	// IPFS pinning service.
	DefaultFilebaseEndpoint = "https://s3.filebase.com"

	// DefaultFilebaseGateway serves content pinned through Filebase.
	DefaultFilebaseGateway = "https://ipfs.filebase.io/ipfs/"

	// cidMetadataKey is where Filebase reports the content reference of
	// a stored object.
	cidMetadataKey = "cid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// objectStore is the slice of the S3 API the backend uses.
type objectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// FilebaseOptions configures the S3-compatible pinning backend.
type FilebaseOptions struct {
	AccessKey  string
	SecretKey  string
	Bucket     string
	Region     string
	Endpoint   string
	GatewayURL string
}

// Filebase stores objects through the Filebase S3-compatible API. Filebase
// pins every object to IPFS and reports the resulting reference as object
// metadata, which HeadObject reads back after the write.
type Filebase struct {
	client     objectStore
	bucket     string
	gatewayURL string
}

func NewFilebase(ctx context.Context, opts FilebaseOptions) (*Filebase, error) {
	if opts.AccessKey == "" || opts.SecretKey == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("filebase credentials: %w", common.ErrorInvalidSource)
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultFilebaseEndpoint
	}
	gateway := opts.GatewayURL
	if gateway == "" {
		gateway = DefaultFilebaseGateway
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &Filebase{client: client, bucket: opts.Bucket, gatewayURL: gateway}, nil
}

// Store writes a named object and returns the gateway URL of its pinned
// content reference.
func (f *Filebase) Store(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(f.bucket),
		Key:           aws.String(name),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("filebase: put %q: %w", name, err)
	}

	head, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("filebase: head %q: %w", name, err)
	}

	cid := head.Metadata[cidMetadataKey]
	if cid == "" {
		return "", fmt.Errorf("filebase: object %q has no content reference yet: %w", name, common.ErrorInternal)
	}
	return f.gatewayURL + cid, nil
}

// StoreJSON serializes v and stores it as a JSON document.
func (f *Filebase) StoreJSON(ctx context.Context, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("filebase: marshal json document: %w", err)
	}
	return f.Store(ctx, MetadataObjectName, strings.NewReader(string(data)), int64(len(data)))
}

// RefOf normalizes a gateway URL into the bare content reference.
func (f *Filebase) RefOf(url string) string {
	return RefFromURL(url)
}
