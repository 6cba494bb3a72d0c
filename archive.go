package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ArchiveClient persists posted articles for later inspection. Archiving is
// optional and never blocks the posting pipeline.
type ArchiveClient interface {
	SaveArticle(item NewsItem, outcome *PostOutcome) (*PostedArticle, error)
	IsArchived(link string) (bool, error)
}

// PostedArticle mirrors one successfully published news item.
type PostedArticle struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key"`
	Title         string         `gorm:"not null;type:text"`
	Body          string         `gorm:"not null;type:text"`
	SourceLink    string         `gorm:"column:sourceLink;uniqueIndex;not null"`
	ImageUrl      *string        `gorm:"column:imageUrl"`
	Labels        pq.StringArray `gorm:"type:text[]"`
	BloggerPostID string         `gorm:"column:bloggerPostId"`
	BloggerURL    string         `gorm:"column:bloggerUrl"`
	PublishedAt   string         `gorm:"column:publishedAt"`
	CreatedAt     time.Time      `gorm:"column:createdAt"`
}

func (PostedArticle) TableName() string {
	return "posted_article"
}

// PostgresArchive implementation
type PostgresArchive struct {
	db *gorm.DB
}

func NewPostgresArchive(dsn string) (*PostgresArchive, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %v", err)
	}
	if err := db.AutoMigrate(&PostedArticle{}); err != nil {
		return nil, fmt.Errorf("migrating archive schema: %v", err)
	}
	return &PostgresArchive{db: db}, nil
}

func (a *PostgresArchive) SaveArticle(item NewsItem, outcome *PostOutcome) (*PostedArticle, error) {
	labels := outcome.Labels
	if labels == nil {
		labels = []string{}
	}

	row := &PostedArticle{
		ID:            uuid.New(),
		Title:         item.Title,
		Body:          item.FullContent,
		SourceLink:    item.Link,
		ImageUrl:      item.ImageURL,
		Labels:        pq.StringArray(labels),
		BloggerPostID: outcome.PostID,
		BloggerURL:    outcome.URL,
		PublishedAt:   item.Date,
	}

	if err := a.db.Create(row).Error; err != nil {
		return nil, fmt.Errorf("error saving to archive database: %v", err)
	}
	return row, nil
}

func (a *PostgresArchive) IsArchived(link string) (bool, error) {
	var count int64
	err := a.db.Model(&PostedArticle{}).
		Where(`"sourceLink" = ?`, link).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("error checking archive: %v", err)
	}
	return count > 0, nil
}
