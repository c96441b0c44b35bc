package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/repositories"
	"github.com/dykim-dev/matchboard/storage"
	"github.com/dykim-dev/matchboard/utils"
)

type NoticeInput struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	Published bool      `json:"published"`
}

type NoticeService interface {
	Create(ctx context.Context, authorID int, input NoticeInput) (*models.Notice, error)
	GetByID(ctx context.Context, id int) (*models.Notice, error)
	// List returns published notices; includeDrafts widens it for admins.
	List(ctx context.Context, includeDrafts bool) ([]*models.Notice, error)
	Update(ctx context.Context, id int, input NoticeInput) (*models.Notice, error)
	Delete(ctx context.Context, id int) error
	UploadImage(ctx context.Context, id int, contentType string, body io.Reader) (*models.Notice, error)
}

type noticeService struct {
	noticeRepo repositories.NoticeRepository
	uploader   storage.FileUploader
}

func NewNoticeService(noticeRepo repositories.NoticeRepository, uploader storage.FileUploader) NoticeService {
	return &noticeService{noticeRepo: noticeRepo, uploader: uploader}
}

func (s *noticeService) Create(ctx context.Context, authorID int, input NoticeInput) (*models.Notice, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: notice title is required", ErrValidationFailed)
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	notice := &models.Notice{
		Title:     input.Title,
		Content:   input.Content,
		Date:      input.Date,
		Published: input.Published,
		AuthorID:  authorID,
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("failed to create notice: %w", err)
	}
	return notice, nil
}

func (s *noticeService) GetByID(ctx context.Context, id int) (*models.Notice, error) {
	notice, err := s.noticeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNoticeNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}
	s.populate(notice)
	return notice, nil
}

func (s *noticeService) List(ctx context.Context, includeDrafts bool) ([]*models.Notice, error) {
	notices, err := s.noticeRepo.List(ctx, !includeDrafts)
	if err != nil {
		return nil, err
	}
	for _, notice := range notices {
		s.populate(notice)
	}
	return notices, nil
}

func (s *noticeService) Update(ctx context.Context, id int, input NoticeInput) (*models.Notice, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: notice title is required", ErrValidationFailed)
	}

	notice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notice.Title = input.Title
	notice.Content = input.Content
	if !input.Date.IsZero() {
		notice.Date = input.Date
	}
	notice.Published = input.Published

	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		if errors.Is(err, repositories.ErrNoticeNotFound) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}
	return notice, nil
}

func (s *noticeService) Delete(ctx context.Context, id int) error {
	notice, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notice.ImageKey != nil && s.uploader != nil {
		// Best effort; a dangling object is preferable to a stuck delete.
		_ = s.uploader.Delete(ctx, *notice.ImageKey)
	}

	if err := s.noticeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNoticeNotFound) {
			return ErrNoticeNotFound
		}
		return err
	}
	return nil
}

func (s *noticeService) UploadImage(ctx context.Context, id int, contentType string, body io.Reader) (*models.Notice, error) {
	notice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := utils.ExtensionForImage(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("notices/notice_%d%s", id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload notice image: %w", err)
	}

	if err := s.noticeRepo.UpdateImageKey(ctx, id, &key); err != nil {
		return nil, err
	}

	notice.ImageKey = &key
	s.populate(notice)
	return notice, nil
}

func (s *noticeService) populate(notice *models.Notice) {
	if notice.ImageKey != nil && *notice.ImageKey != "" && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*notice.ImageKey); url != "" {
			notice.ImageURL = &url
		}
	}
}
