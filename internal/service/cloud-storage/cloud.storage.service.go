package cloudstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"uploadkit-go/internal/common/enum"
	types "uploadkit-go/internal/common/type"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/jwt"
	"uploadkit-go/internal/pkg/logger"
	"uploadkit-go/internal/pkg/redis"
	"uploadkit-go/internal/service/cloud-storage/model"

	"cloud.google.com/go/storage"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"google.golang.org/api/option"
)

const (
	signedURLTTL    = 15 * time.Minute
	signedURLCached = 10 * time.Minute
)

type Service struct {
	ctx    context.Context
	client *storage.Client
	redis  redis.IRedis
	auth   jwt.IDownloadAuth
}

type IService interface {
	Upload(bucket, filename string, buffer []byte, metaData map[string]string, mimeType string) error
	CheckBucket(bucket string) bool
	CreateBucket(name string) error
	SignedURL(bucket, filename string) (string, error)
	Read(bucket, filename string) ([]byte, error)
	Delete(bucket, filename string) error
	SetPublic(bucketName string)
	UploadSingle(mediaID string, file *types.BufferedFile, data model.UploadPost) (model.ResultDownload, error)
}

func NewService(ctx context.Context, rds redis.IRedis, auth jwt.IDownloadAuth) (IService, error) {
	var client *storage.Client
	var err error

	credentials := map[string]string{
		"type":         "service_account",
		"project_id":   helper.GetEnv("CS_PROJECT_ID"),
		"client_email": helper.GetEnv("CS_ACCESS_KEY"),
		"private_key":  strings.ReplaceAll(helper.GetEnv("CS_SECRET_KEY"), "\\n", "\n"),
	}

	credentialsJSON, _ := json.Marshal(credentials)

	for retries := 0; retries < 5; retries++ {
		client, err = storage.NewClient(ctx, option.WithCredentialsJSON(credentialsJSON))

		if err == nil {
			break
		}

		logger.Warning.Println(fmt.Errorf("retry %d: failed to connect to storage Service: %w", retries+1, err))
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		logger.Error.Println(fmt.Errorf("failed to connect to storage Service after retries: %w", err))
		return nil, err
	}

	return &Service{
		client: client,
		ctx:    ctx,
		redis:  rds,
		auth:   auth,
	}, nil
}

func (s *Service) Upload(bucket, filename string, buffer []byte, metaData map[string]string, mimeType string) error {
	file := s.client.Bucket(bucket).Object(filename)
	stream := file.NewWriter(s.ctx)

	if _, err := stream.Write(buffer); err != nil {
		return err
	}
	if err := stream.Close(); err != nil {
		return err
	}

	if _, err := file.Update(s.ctx, storage.ObjectAttrsToUpdate{
		ContentType: mimeType,
		Metadata:    metaData,
	}); err != nil {
		return err
	}

	return nil
}

func (s *Service) CheckBucket(bucket string) bool {
	b, err := s.client.Bucket(bucket).Attrs(s.ctx)
	return err == nil && b.Name == bucket
}

func (s *Service) CreateBucket(name string) error {
	checkBucket := s.CheckBucket(name)
	if !checkBucket {
		if err := s.client.Bucket(name).Create(s.ctx, helper.GetEnv("CS_PROJECT_ID"), &storage.BucketAttrs{
			Location: helper.GetEnvOrDefault("CS_LOCATION", "asia-southeast2"),
		}); err != nil {
			return err
		}
	}
	return nil
}

// SignedURL returns a short-lived download URL for the object. URLs are
// cached in redis a bit shorter than their lifetime, so a cached hit can
// never hand out an expired link.
func (s *Service) SignedURL(bucket, filename string) (string, error) {
	cacheKey := "url:" + bucket + ":" + filename
	if cached, err := s.redis.Get(cacheKey); err == nil && cached != "" {
		var url string
		if err := helper.StringToStruct(cached, &url); err == nil {
			return url, nil
		}
	}

	url, err := s.client.Bucket(bucket).SignedURL(filename, &storage.SignedURLOptions{
		GoogleAccessID: helper.GetEnv("CS_ACCESS_KEY"),
		PrivateKey:     []byte(strings.ReplaceAll(helper.GetEnv("CS_SECRET_KEY"), "\\n", "\n")),
		Method:         "GET",
		Expires:        time.Now().Add(signedURLTTL),
	})
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(cacheKey, url, signedURLCached); err != nil {
		logger.Warning.Println("failed caching signed url:", err)
	}

	return url, nil
}

func (s *Service) Read(bucket, filename string) ([]byte, error) {
	reader, err := s.client.Bucket(bucket).Object(filename).NewReader(s.ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func (s *Service) Delete(bucket, filename string) error {
	file := s.client.Bucket(bucket).Object(filename)
	if err := file.Delete(s.ctx); err != nil {
		return err
	}
	return nil
}

func (s *Service) SetPublic(bucketName string) {
	bucket := s.client.Bucket(bucketName)
	if err := bucket.ACL().Set(s.ctx, storage.AllUsers, storage.RoleReader); err != nil {
		logger.Error.Println(fmt.Errorf("failed to set public access to bucket %s: %w", bucketName, err))
	}
}

// UploadSingle stores one validated file. The object lands in a bucket named
// after the slugified folder (suffixed with APP_ENV outside production),
// under a slugified, nanoid-tagged name, and the result carries a signed
// download token bound to mediaID.
func (s *Service) UploadSingle(mediaID string, file *types.BufferedFile, data model.UploadPost) (model.ResultDownload, error) {
	folder := helper.Slugify(data.Folder)
	if folder == "" {
		return model.ResultDownload{}, errors.New("folder resolves to an empty slug")
	}

	if file.OriginalName == "" {
		nanoid, _ := gonanoid.Generate("1234567890abcdefghijklmnopqrstuvwxyz", 10)
		file.OriginalName = nanoid
	}

	baseBucket := folder
	if env := enum.EnvEnum(helper.GetEnv("APP_ENV")); env.IsValid() && env != enum.PRODUCTION {
		baseBucket = fmt.Sprintf("%s-%s", baseBucket, env.ToString())
	}

	if err := s.CreateBucket(baseBucket); err != nil {
		logger.Error.Println(fmt.Errorf("failed to create bucket: %w", err))
		return model.ResultDownload{}, err
	}

	ext := path.Ext(file.OriginalName)
	base := helper.Slugify(strings.TrimSuffix(file.OriginalName, ext))
	if base == "" {
		base = "file"
	}

	randTag, _ := gonanoid.Generate("1234567890", 4)
	storedName := base + "_" + randTag + ext
	objectPath := path.Join(helper.Slugify(data.Directory), storedName)

	metaData := map[string]string{
		"Content-type": file.MimeType,
		"Media-id":     mediaID,
	}

	if err := s.Upload(baseBucket, objectPath, file.Buffer, metaData, file.MimeType); err != nil {
		logger.Error.Println(err)
		return model.ResultDownload{}, err
	}

	url, err := s.SignedURL(baseBucket, objectPath)
	if err != nil {
		logger.Error.Println(err)
		return model.ResultDownload{}, err
	}

	token, _ := s.auth.GenerateToken(&jwt.DownloadGrant{
		MediaID:  mediaID,
		Bucket:   baseBucket,
		Object:   objectPath,
		FileName: storedName,
		MimeType: file.MimeType,
	})
	if token == "" {
		return model.ResultDownload{}, errors.New("failed to mint download token")
	}

	return model.ResultDownload{
		URL:            url,
		OriginFileName: file.OriginalName,
		FileName:       storedName,
		Bucket:         baseBucket,
		Object:         objectPath,
		MimeType:       file.MimeType,
		Size:           file.Size,
		Token:          token,
	}, nil
}
