// Package minio archives generated intelligence reports as JSON objects so
// they survive cache eviction and graph-store compaction.
package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// objectAPI is the slice of the minio client the archive actually uses.
// GetObject returns an io.ReadCloser rather than *minio.Object so tests can
// stand in for the store.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
}

// clientAdapter narrows *minio.Client to objectAPI.
type clientAdapter struct {
	*minio.Client
}

func (c clientAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

// Archive stores report JSON in object storage under
// reports/{product_id}/{report_id}.json.
type Archive struct {
	client objectAPI
	bucket string
	logger logging.Logger
}

// NewArchive connects to the object store and ensures the bucket exists.
func NewArchive(cfg config.MinIOConfig, log logging.Logger) (*Archive, error) {
	if cfg.Endpoint == "" {
		return nil, errors.NewValidation("minio endpoint is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "medge-reports"
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &Archive{client: clientAdapter{mc}, bucket: cfg.Bucket, logger: log}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("Report archive connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return a, nil
}

// NewArchiveWithClient wraps an existing client, used by tests.
func NewArchiveWithClient(client objectAPI, bucket string, log logging.Logger) *Archive {
	return &Archive{client: client, bucket: bucket, logger: log}
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to check report bucket")
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrapf(err, errors.ErrCodeExternalService, "failed to create bucket %s", a.bucket)
	}
	return nil
}

// StoreReport archives one report and returns its object key.
func (a *Archive) StoreReport(ctx context.Context, report *analysis.ProductIntelligenceReport) (string, error) {
	if report == nil || report.ID == "" {
		return "", errors.NewValidation("report with an id is required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to serialize report")
	}

	key := reportKey(report.ProductID, report.ID)
	_, err = a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: "application/json",
			UserMetadata: map[string]string{
				"product-id":   report.ProductID,
				"generated-at": report.GeneratedAt.UTC().Format(time.RFC3339Nano),
			},
		})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCodeExternalService, "failed to archive report %s", report.ID)
	}

	a.logger.Debug("Report archived",
		logging.String("key", key),
		logging.Int("bytes", len(payload)))
	return key, nil
}

// FetchReport loads an archived report by product and report id.
func (a *Archive) FetchReport(ctx context.Context, productID, reportID string) (*analysis.ProductIntelligenceReport, error) {
	key := reportKey(productID, reportID)

	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeExternalService, "failed to fetch archived report %s", reportID)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, errors.Newf(errors.ErrCodeReportNotFound, "archived report %s not found", reportID)
		}
		return nil, errors.Wrapf(err, errors.ErrCodeExternalService, "failed to read archived report %s", reportID)
	}

	var report analysis.ProductIntelligenceReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeSerialization, "archived report %s is corrupt", reportID)
	}
	return &report, nil
}

// HasReport reports whether an archived copy exists.
func (a *Archive) HasReport(ctx context.Context, productID, reportID string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.bucket, reportKey(productID, reportID), minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeExternalService, "failed to stat archived report")
	}
	return true, nil
}

// Ping reports archive reachability.
func (a *Archive) Ping(ctx context.Context) error {
	if _, err := a.client.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
	}
	return nil
}

func reportKey(productID, reportID string) string {
	return fmt.Sprintf("reports/%s/%s.json", productID, reportID)
}

// NopArchive satisfies the archive contract when object storage is disabled.
type NopArchive struct{}

func (NopArchive) StoreReport(context.Context, *analysis.ProductIntelligenceReport) (string, error) {
	return "", nil
}

func (NopArchive) FetchReport(_ context.Context, _, reportID string) (*analysis.ProductIntelligenceReport, error) {
	return nil, errors.Newf(errors.ErrCodeReportNotFound, "archived report %s not found", reportID)
}

func (NopArchive) HasReport(context.Context, string, string) (bool, error) { return false, nil }

func (NopArchive) Ping(context.Context) error { return nil }
