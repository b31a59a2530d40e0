package repository

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"video-gateway/entities"
)

type VideoRepository interface {
	CreateVideo(ctx context.Context, video *entities.Video) error
	ListVideos(ctx context.Context) ([]*entities.Video, error)
}

type repo struct {
	db *gorm.DB
}

func (r *repo) CreateVideo(ctx context.Context, video *entities.Video) error {
	err := r.db.WithContext(ctx).Create(video).Error
	if err != nil {
		return err
	}

	return nil
}

func (r *repo) ListVideos(ctx context.Context) ([]*entities.Video, error) {
	videos := make([]*entities.Video, 0)
	err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func NewRepo(db *sql.DB) VideoRepository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		},
	)
	return &repo{
		db: gormDB,
	}
}
