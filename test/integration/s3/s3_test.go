//go:build integration

package s3_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/marmos91/docroots/pkg/config"
)

// localstackEndpoint returns the S3-compatible endpoint used by the tests.
func localstackEndpoint() string {
	if endpoint := os.Getenv("LOCALSTACK_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	return "http://localhost:4566"
}

// setupTestS3 creates an S3 client and test bucket for integration tests.
//
// It connects to Localstack (or other S3-compatible endpoint) and creates a
// test bucket that is emptied and deleted when the test ends.
func setupTestS3(t *testing.T, bucketName string) *s3.Client {
	t.Helper()
	ctx := context.Background()

	cfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion("us-east-1"),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			"test", // AccessKeyID
			"test", // SecretAccessKey
			"",     // SessionToken
		)),
	)
	if err != nil {
		t.Fatalf("Failed to load AWS config: %v", err)
	}

	// Path-style URLs are required for Localstack
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(localstackEndpoint())
		o.UsePathStyle = true
	})

	if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}); err != nil {
		t.Fatalf("Failed to create test bucket: %v", err)
	}

	t.Cleanup(func() {
		listResp, _ := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket: aws.String(bucketName),
		})
		if listResp != nil {
			for _, obj := range listResp.Contents {
				_, _ = client.DeleteObject(ctx, &s3.DeleteObjectInput{
					Bucket: aws.String(bucketName),
					Key:    obj.Key,
				})
			}
		}
		_, _ = client.DeleteBucket(ctx, &s3.DeleteBucketInput{
			Bucket: aws.String(bucketName),
		})
	})

	return client
}

// TestS3ConfigSource_Integration loads configuration from a real
// S3-compatible service (Localstack).
//
// Prerequisites:
//   - Localstack running on localhost:4566
//   - Run with: go test -tags=integration ./test/integration/s3/...
//
// To start Localstack:
//
//	docker run --rm -p 4566:4566 localstack/localstack
func TestS3ConfigSource_Integration(t *testing.T) {
	ctx := context.Background()

	bucketName := "docroots-test-config"
	client := setupTestS3(t, bucketName)

	t.Setenv("DOCROOTS_S3_ACCESS_KEY_ID", "test")
	t.Setenv("DOCROOTS_S3_SECRET_ACCESS_KEY", "test")

	url := func(key string) string {
		return "s3://" + bucketName + "/" + key + "?region=us-east-1&endpoint=" + localstackEndpoint()
	}

	t.Run("LoadsObject", func(t *testing.T) {
		body := "roots:\n  - tag: remote\n    path: /srv/remote\n    read_only: true\n"
		if _, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucketName),
			Key:    aws.String("docroots/config.yaml"),
			Body:   strings.NewReader(body),
		}); err != nil {
			t.Fatalf("Failed to upload config: %v", err)
		}

		cfg, err := config.LoadContext(ctx, url("docroots/config.yaml"))
		if err != nil {
			t.Fatalf("Failed to load config from S3: %v", err)
		}
		if len(cfg.Roots) != 1 || cfg.Roots[0].Tag != "remote" || !cfg.Roots[0].ReadOnly {
			t.Errorf("Unexpected roots: %+v", cfg.Roots)
		}
	})

	t.Run("MissingObjectYieldsDefaults", func(t *testing.T) {
		cfg, err := config.LoadContext(ctx, url("absent.yaml"))
		if err != nil {
			t.Fatalf("Expected defaults for missing object, got: %v", err)
		}
		if len(cfg.Roots) != 0 {
			t.Errorf("Expected zero roots, got %d", len(cfg.Roots))
		}
	})
}
