package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"video-gateway/apperr"
	"video-gateway/dto"
	"video-gateway/entities"
	"video-gateway/repository"
)

// UploadEventPublisher notifies downstream workers that an upload finished.
type UploadEventPublisher interface {
	PublishVideoUploaded(ctx context.Context, message dto.VideoUploadedMessage) error
}

type Recorder interface {
	Create(ctx context.Context, req dto.CreateVideoRequest) (*entities.Video, error)
	List(ctx context.Context) ([]*entities.Video, error)
}

type recorder struct {
	repo      repository.VideoRepository
	publisher UploadEventPublisher
}

func (r *recorder) Create(ctx context.Context, req dto.CreateVideoRequest) (*entities.Video, error) {
	if req.Filename == "" || req.OriginalName == "" {
		return nil, apperr.Invalidf("filename and original_name are required")
	}

	video := &entities.Video{
		ID:           uuid.New(),
		Filename:     req.Filename,
		OriginalName: req.OriginalName,
		FileSize:     req.FileSize,
		Description:  req.Description,
		EventName:    req.EventName,
	}
	if err := r.repo.CreateVideo(ctx, video); err != nil {
		return nil, apperr.Internal("failed to save video", err)
	}

	// Best effort: the insert is the authoritative call, a broker outage
	// must not fail the request.
	if r.publisher != nil {
		message := dto.VideoUploadedMessage{
			VideoId:    video.ID,
			ObjectName: video.Filename,
		}
		if err := r.publisher.PublishVideoUploaded(ctx, message); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("video_id", video.ID.String()).Msg("failed to publish video uploaded event")
		}
	}

	zerolog.Ctx(ctx).Info().Str("video_id", video.ID.String()).Str("filename", video.Filename).Msg("video recorded")
	return video, nil
}

func (r *recorder) List(ctx context.Context) ([]*entities.Video, error) {
	videos, err := r.repo.ListVideos(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list videos", err)
	}
	return videos, nil
}

func NewRecorder(repo repository.VideoRepository, publisher UploadEventPublisher) Recorder {
	return &recorder{
		repo:      repo,
		publisher: publisher,
	}
}
