package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/marmos91/docroots/internal/logger"
)

// Remote configuration
//
// A configuration path of the form
//
//	s3://bucket/path/to/config.yaml?region=eu-west-1&endpoint=http://localhost:9000
//
// is fetched with a single GetObject call. Credentials come from the default
// AWS chain unless DOCROOTS_S3_ACCESS_KEY_ID and DOCROOTS_S3_SECRET_ACCESS_KEY
// are both set. A custom endpoint (MinIO, Localstack) switches the client to
// path-style addressing.

const s3Scheme = "s3://"

// objectGetter is the subset of the S3 client used to read configuration.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Location is a parsed s3:// configuration URL.
type s3Location struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string
}

// newObjectGetter builds the S3 client. Tests replace it.
var newObjectGetter = newS3Client

func isS3URL(path string) bool {
	return strings.HasPrefix(path, s3Scheme)
}

func parseS3URL(raw string) (s3Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return s3Location{}, fmt.Errorf("invalid s3 url %q: %w", raw, err)
	}
	if u.Scheme != "s3" {
		return s3Location{}, fmt.Errorf("invalid s3 url %q: scheme must be s3", raw)
	}

	loc := s3Location{
		Bucket:   u.Host,
		Key:      strings.TrimPrefix(u.Path, "/"),
		Region:   u.Query().Get("region"),
		Endpoint: u.Query().Get("endpoint"),
	}
	if loc.Bucket == "" {
		return s3Location{}, fmt.Errorf("invalid s3 url %q: bucket is required", raw)
	}
	if loc.Key == "" {
		return s3Location{}, fmt.Errorf("invalid s3 url %q: key is required", raw)
	}
	return loc, nil
}

// newS3Client builds an S3 client for loc.
func newS3Client(ctx context.Context, loc s3Location) (objectGetter, error) {
	var configOptions []func(*awsConfig.LoadOptions) error

	if loc.Region != "" {
		configOptions = append(configOptions, awsConfig.WithRegion(loc.Region))
	}

	// Set credentials if provided, otherwise use default credential chain
	accessKey := os.Getenv("DOCROOTS_S3_ACCESS_KEY_ID")
	secretKey := os.Getenv("DOCROOTS_S3_SECRET_ACCESS_KEY")
	if accessKey != "" && secretKey != "" {
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	// Configuration is read once at startup and never retried
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = 1
		})
	}))

	cfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if loc.Endpoint != "" {
			o.BaseEndpoint = aws.String(loc.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// fetchS3Object downloads the configuration object. found is false when the
// object does not exist.
func fetchS3Object(ctx context.Context, raw string) (data []byte, found bool, err error) {
	loc, err := parseS3URL(raw)
	if err != nil {
		return nil, false, err
	}

	client, err := newObjectGetter(ctx, loc)
	if err != nil {
		return nil, false, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			logger.Debug("No configuration object at %s", raw)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to fetch %s: %w", raw, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err = io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", raw, err)
	}

	logger.Debug("Fetched configuration from %s (%d bytes)", raw, len(data))
	return data, true, nil
}
