package r2

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/url"
	"path"
	"strings"

	appconfig "brainifi/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// objectAPI is the part of the S3 client the bucket operations use.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Client stores original uploads in a Cloudflare R2 bucket.
type Client struct {
	s3         objectAPI
	bucketName string
	publicURL  *url.URL // Base public URL for the bucket (e.g., https://pub-xxxxxxxx.r2.dev)
}

// NewClient creates an R2 client from cfg. It returns (nil, nil) when R2 is
// not fully configured, so the server runs with storage disabled.
func NewClient(ctx context.Context, cfg appconfig.R2Config) (*Client, error) {
	if !cfg.Enabled() {
		log.Println("WARN: Cloudflare R2 environment variables not fully configured (CLOUDFLARE_ACCOUNT_ID, R2_BUCKET_NAME, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_PUBLIC_URL). Original files will not be stored.")
		return nil, nil
	}

	publicURL, err := url.Parse(cfg.PublicURL)
	if err != nil {
		return nil, fmt.Errorf("invalid R2_PUBLIC_URL %q: %w", cfg.PublicURL, err)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"), // R2 is region-agnostic
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for R2: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// R2 endpoint format: https://<ACCOUNT_ID>.r2.cloudflarestorage.com
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})

	log.Printf("INFO: R2 Client initialized for bucket '%s'", cfg.BucketName)
	return newClient(s3Client, cfg.BucketName, publicURL), nil
}

func newClient(api objectAPI, bucket string, publicURL *url.URL) *Client {
	return &Client{s3: api, bucketName: bucket, publicURL: publicURL}
}

// Enabled reports whether uploads go anywhere. Safe on a nil client.
func (c *Client) Enabled() bool {
	return c != nil && c.s3 != nil
}

// ObjectKey is documents/<userID>/<documentID>/<filename>. Only the base name
// of filename is kept.
func ObjectKey(userID, documentID uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "document.pdf"
	}
	return fmt.Sprintf("documents/%s/%s/%s", userID, documentID, name)
}

// UploadDocument stores an original upload and returns its public URL.
func (c *Client) UploadDocument(ctx context.Context, userID, documentID uuid.UUID, filename string, body io.Reader) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("R2 client not initialized, skipping upload")
	}

	key := ObjectKey(userID, documentID, filename)
	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to R2 (key: %s): %w", key, err)
	}

	publicFileURL := c.URL(key)
	log.Printf("INFO: Successfully uploaded file to R2: %s", publicFileURL)
	return publicFileURL, nil
}

// DeleteDocument removes a stored upload. Deleting a missing key is not an error in R2.
func (c *Client) DeleteDocument(ctx context.Context, userID, documentID uuid.UUID, filename string) error {
	if !c.Enabled() {
		return nil
	}
	key := ObjectKey(userID, documentID, filename)
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete R2 object %s: %w", key, err)
	}
	log.Printf("INFO: Deleted R2 object %s", key)
	return nil
}

// URL returns the public URL of key.
func (c *Client) URL(key string) string {
	u := *c.publicURL
	u.Path = path.Join("/", u.Path, key)
	return u.String()
}
