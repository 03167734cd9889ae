// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// cover images. It wraps the AWS SDK v2 and is configured for path-style
// access so it works against MinIO, CEPH, and similar self-hosted stores.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// coverPrefix is the key prefix for uploaded cover images.
const coverPrefix = "cover-images/"

// Client wraps an S3 client for cover image operations on one
// public-read bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates an S3 storage client with static credentials and
// path-style addressing. Returns (nil, nil) if endpoint or credentials
// are empty, allowing the app to start without storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// UploadCover stores a cover image under a generated key and returns its
// publicly retrievable URL. Objects get a public-read ACL so the browser
// can load them directly.
func (c *Client) UploadCover(ctx context.Context, originalName, contentType string, body io.Reader, size int64) (string, error) {
	key, err := coverKey(originalName)
	if err != nil {
		return "", fmt.Errorf("s3 cover key: %w", err)
	}

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}

	return c.FileURL(key), nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for a key in the bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// ExtractKey extracts the object key from a public file URL previously
// produced by FileURL. Returns ("", false) if the URL doesn't belong to
// this storage — external cover URLs are left alone.
func (c *Client) ExtractKey(fileURL string) (string, bool) {
	for _, base := range []string{c.publicURL + "/", c.endpoint + "/" + c.bucket + "/"} {
		if base != "/" && strings.HasPrefix(fileURL, base) {
			return strings.TrimPrefix(fileURL, base), true
		}
	}
	return "", false
}

// coverKey builds a collision-resistant object key preserving the
// original file extension, e.g. cover-images/1756380000-d1c3b2a1.png.
func coverKey(originalName string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(originalName))
	return fmt.Sprintf("%s%d-%s%s", coverPrefix, time.Now().Unix(), hex.EncodeToString(suffix), ext), nil
}
