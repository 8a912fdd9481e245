// Package objstore backs document storage with an S3-compatible bucket.
package objstore

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/academiadanas/inscripciones/core"
	"github.com/academiadanas/inscripciones/core/registro"
)

type s3Store struct {
	client *s3.Client
	bucket string
}

var _ registro.FileStore = (*s3Store)(nil)

func NewS3Store(ctx context.Context, conf *core.Config) (*s3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Storage.Region),
	}
	if conf.Storage.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.Storage.AccessKey, conf.Storage.SecretKey, ""),
		))
	}

	awsConf, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading storage config")
	}

	client := s3.NewFromConfig(awsConf, func(o *s3.Options) {
		if conf.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Storage.Endpoint)
			o.UsePathStyle = true // MinIO and friends
		}
	})
	return &s3Store{client: client, bucket: conf.Storage.Bucket}, nil
}

func (st *s3Store) Upload(ctx context.Context, key, contentType string, content []byte) error {
	_, err := st.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(st.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	return errors.Wrapf(err, "uploading %s", key)
}

func (st *s3Store) Delete(ctx context.Context, key string) error {
	_, err := st.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrapf(err, "deleting %s", key)
}
