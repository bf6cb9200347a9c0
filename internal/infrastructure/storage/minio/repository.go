package minio

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/lawsuit-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

var (
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid archive request")
)

const markdownContentType = "text/markdown; charset=utf-8"

// ReportArchive stores rendered reports.  It never reads them back.
type ReportArchive interface {
	Archive(ctx context.Context, req *ArchiveRequest) (*UploadResult, error)
	Exists(ctx context.Context, objectKey string) (bool, error)
}

// ArchiveRequest is one rendered report.
type ArchiveRequest struct {
	Markdown    string
	IssueTitle  string
	IssueNumber int
	RunAt       time.Time
}

type UploadResult struct {
	Bucket     string
	ObjectKey  string
	ETag       string
	Size       int64
	UploadedAt time.Time
}

type minioArchive struct {
	client *MinIOClient
	logger logging.Logger
}

func NewReportArchive(client *MinIOClient, log logging.Logger) ReportArchive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &minioArchive{client: client, logger: log}
}

// ObjectKey lays reports out as reports/YYYY/MM/DD/HHMMSS-issue<n>.md in the
// run's own time zone.
func ObjectKey(runAt time.Time, issueNumber int) string {
	return fmt.Sprintf("reports/%s/%s-issue%d.md", runAt.Format("2006/01/02"), runAt.Format("150405"), issueNumber)
}

func (r *minioArchive) Archive(ctx context.Context, req *ArchiveRequest) (*UploadResult, error) {
	if req == nil || req.Markdown == "" || req.RunAt.IsZero() {
		return nil, ErrInvalidRequest
	}
	if r.client.isClosed() {
		return nil, ErrMinIOClientClosed
	}

	key := ObjectKey(req.RunAt, req.IssueNumber)
	data := []byte(req.Markdown)
	opts := minio.PutObjectOptions{
		ContentType: markdownContentType,
		UserMetadata: map[string]string{
			"issue-title":  req.IssueTitle,
			"issue-number": strconv.Itoa(req.IssueNumber),
		},
	}

	info, err := r.client.GetClient().PutObject(ctx, r.client.Bucket(), key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArchiveFailed, "upload failed").WithDetail(key)
	}
	r.logger.Info("Report archived", logging.String("bucket", r.client.Bucket()), logging.String("key", key))

	return &UploadResult{
		Bucket:     r.client.Bucket(),
		ObjectKey:  key,
		ETag:       info.ETag,
		Size:       info.Size,
		UploadedAt: time.Now(),
	}, nil
}

func (r *minioArchive) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := r.client.GetClient().StatObject(ctx, r.client.Bucket(), objectKey, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeArchiveFailed, "stat failed").WithDetail(objectKey)
}

//Personal.AI order the ending
