// Package storage adapta el almacén de blobs de firmas a un servicio
// S3-compatible. El núcleo solo conoce el puerto Put(path, bytes) -> URL.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/jhoicas/facturacion-api/internal/application/invoicing"
	"github.com/jhoicas/facturacion-api/pkg/config"
)

var _ invoicing.SignatureStore = (*S3SignatureStore)(nil)

// S3SignatureStore sube imágenes de firma a un bucket S3-compatible y
// devuelve la URL pública de descarga.
type S3SignatureStore struct {
	client   *s3.S3
	bucket   string
	endpoint string
}

// NewS3SignatureStore construye el adaptador. Falla si faltan credenciales:
// mejor un error claro al arrancar que subidas rotas en runtime.
func NewS3SignatureStore(cfg config.StorageConfig) (*S3SignatureStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, fmt.Errorf("configuración de storage incompleta")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket de storage no configurado")
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Endpoint:         aws.String(cfg.Endpoint),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	}))

	return &S3SignatureStore{
		client:   s3.New(sess),
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
	}, nil
}

// Put sube los bytes bajo path y devuelve la URL pública del objeto.
func (s *S3SignatureStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("subir a S3: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, path), nil
}
