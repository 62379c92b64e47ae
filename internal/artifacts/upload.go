package artifacts

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// uploadWorkers bounds concurrent uploads in UploadDir.
const uploadWorkers = 4

// Uploader pushes local artifact files to remote storage.
type Uploader interface {
	UploadFile(ctx context.Context, localPath, objectName string) error
	Close() error
}

// NopUploader is used when no bucket is configured.
type NopUploader struct{}

func (NopUploader) UploadFile(context.Context, string, string) error { return nil }
func (NopUploader) Close() error                                    { return nil }

type GCSUploader struct {
	client *storage.Client
	Bucket string
	Prefix string
	logger *zap.Logger
}

// NewGCSUploader connects with the service account key at credentialsFile, or
// with application default credentials when it is empty. A non-empty project
// is billed as the quota project.
func NewGCSUploader(ctx context.Context, bucket, prefix, project, credentialsFile string, logger *zap.Logger) (*GCSUploader, error) {
	opts, err := clientOptions(project, credentialsFile)
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create GCS storage client")
	}
	return &GCSUploader{client: client, Bucket: bucket, Prefix: prefix, logger: logger}, nil
}

func clientOptions(project, credentialsFile string) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, errors.Wrapf(err, "service account key %s", credentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	if project != "" {
		opts = append(opts, option.WithQuotaProject(project))
	}
	return opts, nil
}

func (u *GCSUploader) UploadFile(ctx context.Context, localPath, objectName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return errors.Wrapf(err, "open %s", localPath)
	}
	defer f.Close()

	name := path.Join(u.Prefix, objectName)
	w := u.client.Bucket(u.Bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	w.CacheControl = "no-cache, no-store, must-revalidate"
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "copy %s to gs://%s/%s", localPath, u.Bucket, name)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "finalize gs://%s/%s", u.Bucket, name)
	}
	u.logger.Info("uploaded artifact", zap.String("file", localPath), zap.String("uri", "gs://"+u.Bucket+"/"+name))
	return nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

// UploadDir uploads every regular file under dir, keeping relative paths.
// Uploads run concurrently; the first failure cancels the rest.
func UploadDir(ctx context.Context, u Uploader, dir string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadWorkers)
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		g.Go(func() error { return u.UploadFile(ctx, p, filepath.ToSlash(rel)) })
		return nil
	})
	if werr := g.Wait(); werr != nil {
		return werr
	}
	return errors.Wrapf(err, "walk %s", dir)
}
