package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/repository/dberr"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return NewRepository(db)
}

// NewRepository migrates the schema on an already opened connection.
func NewRepository(db *gorm.DB) (*PostgresRepository, error) {
	if err := db.AutoMigrate(&UserModel{}, &LinkModel{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- Account Store ---

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	m := UserModel{
		UserID:       user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
		IsPro:        user.IsPro,
		CreatedAt:    user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return fmt.Errorf("create user: %w", dberr.Classify(err))
	}
	return nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dberr.Classify(err)
	}
	return m.toEntity(), nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB { return db.Order("link_id") }).
		Where("user_id = ?", userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dberr.Classify(err)
	}
	if m.Links == nil {
		m.Links = []LinkModel{}
	}
	return m.toEntity(), nil
}

func (r *PostgresRepository) SetFlags(ctx context.Context, userID string, isAdmin, isPro bool) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"is_admin": isAdmin, "is_pro": isPro})
	if res.Error != nil {
		return dberr.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --- Link Store ---

func (r *PostgresRepository) CreateLink(ctx context.Context, link *domain.Link) error {
	m := LinkModel{
		LinkID:         link.ID,
		OriginalURL:    link.OriginalURL,
		NumHits:        link.NumHits,
		LastAccessedOn: link.LastAccessedOn,
		UserID:         link.Owner.ID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return fmt.Errorf("create link: %w", dberr.Classify(err))
	}
	return nil
}

func (r *PostgresRepository) FindLinkByID(ctx context.Context, linkID string) (*domain.Link, error) {
	var m LinkModel
	if err := r.db.WithContext(ctx).Preload("User").Where("link_id = ?", linkID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dberr.Classify(err)
	}
	link := m.toEntity(m.ownerOf())
	return &link, nil
}

func (r *PostgresRepository) RecordVisit(ctx context.Context, linkID string, at time.Time) (*domain.Link, error) {
	res := r.db.WithContext(ctx).Model(&LinkModel{}).
		Where("link_id = ?", linkID).
		Updates(map[string]interface{}{
			"num_hits":         gorm.Expr("num_hits + 1"),
			"last_accessed_on": at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("record visit: %w", dberr.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindLinkByID(ctx, linkID)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error) {
	return r.findLinks(ctx, r.db.Where("user_id = ?", ownerID).Order("link_id"))
}

func (r *PostgresRepository) DeleteLink(ctx context.Context, linkID string) error {
	res := r.db.WithContext(ctx).Where("link_id = ?", linkID).Delete(&LinkModel{})
	if res.Error != nil {
		return fmt.Errorf("delete link: %w", dberr.Classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Dump(ctx context.Context) ([]domain.Link, error) {
	return r.findLinks(ctx, r.db.Order("user_id").Order("link_id"))
}

func (r *PostgresRepository) findLinks(ctx context.Context, q *gorm.DB) ([]domain.Link, error) {
	var models []LinkModel
	if err := q.WithContext(ctx).Preload("User").Find(&models).Error; err != nil {
		return nil, dberr.Classify(err)
	}

	links := make([]domain.Link, 0, len(models))
	for i := range models {
		links = append(links, models[i].toEntity(models[i].ownerOf()))
	}
	return links, nil
}

// Ensure interface compliance
var _ ports.Store = (*PostgresRepository)(nil)
