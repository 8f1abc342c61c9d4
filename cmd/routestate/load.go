package main

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/routestate/internal/dev"
	"github.com/vango-dev/routestate/internal/errors"
	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// source picks the route configuration named by args[i], falling back to
// the configured routes.
func (a *app) source(args []string, i int) (string, error) {
	if i < len(args) && args[i] != "" {
		return args[i], nil
	}
	if a.cfg.Routes != "" {
		return a.cfg.Routes, nil
	}
	return "", errors.New("E100").
		WithDetail("no route configuration given").
		WithSuggestion("Pass a file or set routes in routestate.yaml")
}

// loadRoutes reads and validates a route configuration from a file or an
// s3://bucket/key URI.
func (a *app) loadRoutes(ctx context.Context, source string) (routeconfig.Node, error) {
	if !strings.HasPrefix(source, "s3://") {
		return dev.Load(source)
	}

	bucket, key, ok := routeconfig.ParseS3URI(source)
	if !ok {
		return nil, errors.New("E109").At(source).WithDetail("expected s3://bucket/key")
	}
	root, err := routeconfig.LoadS3(ctx, a.s3Client(), bucket, key)
	if err != nil {
		return nil, err
	}
	if err := routeconfig.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

func (a *app) s3Client() *s3.Client {
	opts := s3.Options{
		Region:       a.cfg.S3.Region,
		Credentials:  envCredentials(),
		UsePathStyle: a.cfg.S3.PathStyle,
	}
	if a.cfg.S3.Endpoint != "" {
		opts.BaseEndpoint = aws.String(a.cfg.S3.Endpoint)
	}
	return s3.New(opts)
}

// envCredentials reads static credentials from the AWS_* variables. Without
// them requests go out unsigned, which public buckets accept.
func envCredentials() aws.CredentialsProvider {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "EnvironmentVariables",
		}, nil
	}))
}
