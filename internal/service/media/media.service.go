package media

import (
	"context"
	"crypto/md5"
	"fmt"
	types "uploadkit-go/internal/common/type"
	database "uploadkit-go/internal/pkg/db"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/jwt"
	"uploadkit-go/internal/pkg/rabbitmq"
	cloudstorage "uploadkit-go/internal/service/cloud-storage"
	csmodel "uploadkit-go/internal/service/cloud-storage/model"
	"uploadkit-go/internal/service/media/model"

	"gorm.io/gorm"
)

const QueueMediaUploaded = "media.uploaded"

type Service struct {
	ctx     context.Context
	db      *database.Database
	storage cloudstorage.IService
	auth    jwt.IDownloadAuth
	events  rabbitmq.IPublisher
}

type IService interface {
	Upload(files []types.BufferedFile, data csmodel.UploadPost) ([]csmodel.ResultDownload, error)
	Download(grant *jwt.DownloadGrant) ([]byte, *model.Media, error)
	List(query database.PaginationQuery) (*database.PaginationResult, error)
	ListCursor(cursor string, limit int) (*database.CursorResult, error)
	Get(id string) (*model.Media, error)
	MarkProcessed(id string) error
	Delete(id string) error
}

func NewService(ctx context.Context, db *database.Database, storage cloudstorage.IService, auth jwt.IDownloadAuth, events rabbitmq.IPublisher) IService {
	return &Service{
		ctx:     ctx,
		db:      db,
		storage: storage,
		auth:    auth,
		events:  events,
	}
}

// Upload stores every validated file, records it and announces it on the
// media.uploaded queue. Files come straight from the multipart middleware,
// so every one of them already passed the field spec.
func (s *Service) Upload(files []types.BufferedFile, data csmodel.UploadPost) ([]csmodel.ResultDownload, error) {
	results := make([]csmodel.ResultDownload, 0, len(files))

	for i := range files {
		file := &files[i]

		mediaID, err := helper.GenerateID()
		if err != nil {
			return nil, err
		}

		result, err := s.storage.UploadSingle(mediaID, file, data)
		if err != nil {
			return nil, err
		}

		record := model.Media{
			ID:           mediaID,
			Field:        file.MediaType,
			Folder:       helper.Slugify(data.Folder),
			OriginalName: result.OriginFileName,
			StoredName:   result.FileName,
			Bucket:       result.Bucket,
			Object:       result.Object,
			MimeType:     result.MimeType,
			Size:         result.Size,
			Checksum:     fmt.Sprintf("%x", md5.Sum(file.Buffer)),
		}

		if err := s.db.Create(&record).Error; err != nil {
			helper.HandleAppError(s.storage.Delete(result.Bucket, result.Object), "media.Upload", "cleanup object")
			return nil, err
		}

		s.publishUploaded(record, data.Silent.ToBool())
		results = append(results, result)
	}

	return results, nil
}

func (s *Service) publishUploaded(record model.Media, silent bool) {
	msg, err := rabbitmq.NewMessage(model.MediaUploadedEvent{
		MediaID:  record.ID,
		Folder:   record.Folder,
		Bucket:   record.Bucket,
		Object:   record.Object,
		MimeType: record.MimeType,
		Size:     record.Size,
		Silent:   silent,
	}, nil)
	if err != nil {
		helper.HandleAppError(err, "media.publishUploaded", "build message")
		return
	}

	// the object and record exist either way, a lost event only delays
	// processing
	err = s.events.PublishWithContext(s.ctx, msg, rabbitmq.DefaultPublishOptions(QueueMediaUploaded))
	helper.HandleAppError(err, "media.publishUploaded", "publish")
}

// Download fetches the object a validated grant points at, together with
// its record.
func (s *Service) Download(grant *jwt.DownloadGrant) ([]byte, *model.Media, error) {
	record, err := s.Get(grant.MediaID)
	if err != nil {
		return nil, nil, err
	}

	buffer, err := s.storage.Read(grant.Bucket, grant.Object)
	if err != nil {
		return nil, nil, err
	}

	return buffer, record, nil
}

func (s *Service) List(query database.PaginationQuery) (*database.PaginationResult, error) {
	var items []model.Media
	return s.db.FindWithPagination(query, &items)
}

func (s *Service) ListCursor(cursor string, limit int) (*database.CursorResult, error) {
	var items []model.Media
	return s.db.FindWithCursor(cursor, limit, &items, database.OrderField{
		Field:     "id",
		Direction: database.DESC,
	})
}

func (s *Service) Get(id string) (*model.Media, error) {
	var record model.Media
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) MarkProcessed(id string) error {
	result := s.db.Model(&model.Media{}).Where("id = ?", id).Update("processed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the stored object, revokes outstanding download grants and
// drops the record. Object and grant cleanup failures are logged but do not
// keep the record alive.
func (s *Service) Delete(id string) error {
	record, err := s.Get(id)
	if err != nil {
		return err
	}

	helper.HandleAppError(s.storage.Delete(record.Bucket, record.Object), "media.Delete", "remove object")
	helper.HandleAppError(s.auth.RevokeGrant(id), "media.Delete", "revoke grant")

	return s.db.Delete(&model.Media{}, "id = ?", id).Error
}
