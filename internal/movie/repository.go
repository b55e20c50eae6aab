package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 表示指定ID的电影不存在
	ErrNotFound = errors.New("movie not found")
	// ErrDuplicateTitle 表示已有同名电影
	ErrDuplicateTitle = errors.New("movie title already exists")
)

// Store 是电影表的数据访问接口
type Store interface {
	// List 按评分降序返回全部电影，评分相同时按ID升序
	List(ctx context.Context) ([]Movie, error)
	Get(ctx context.Context, id uint) (*Movie, error)
	// Create 插入一条新记录并直接返回数据库分配的ID
	Create(ctx context.Context, m *Movie) (uint, error)
	UpdateReview(ctx context.Context, id uint, rating float64, review string) (*Movie, error)
	Delete(ctx context.Context, id uint) error
	FindIDByTitle(ctx context.Context, title string) (uint, bool, error)
	// SaveRankings 在同一个事务内把 id -> 排名 写回数据库
	SaveRankings(ctx context.Context, rankings map[uint]int) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore 基于 gorm 创建 Store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) List(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := s.db.WithContext(ctx).Order("rating desc").Order("id asc").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("无法读取电影列表: %w", err)
	}
	return movies, nil
}

func (s *gormStore) Get(ctx context.Context, id uint) (*Movie, error) {
	var m Movie
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("无法读取电影 %d: %w", id, err)
	}
	return &m, nil
}

func (s *gormStore) Create(ctx context.Context, m *Movie) (uint, error) {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateTitle, m.Title)
		}
		return 0, fmt.Errorf("无法创建电影 %q: %w", m.Title, err)
	}
	return m.ID, nil
}

func (s *gormStore) UpdateReview(ctx context.Context, id uint, rating float64, review string) (*Movie, error) {
	var updated Movie
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&updated).Updates(map[string]any{
			"rating": rating,
			"review": review,
		}).Error; err != nil {
			return err
		}
		updated.Rating = rating
		updated.Review = review
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("无法更新电影 %d: %w", id, err)
	}
	return &updated, nil
}

func (s *gormStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Movie{}, id)
	if result.Error != nil {
		return fmt.Errorf("无法删除电影 %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) FindIDByTitle(ctx context.Context, title string) (uint, bool, error) {
	var m Movie
	err := s.db.WithContext(ctx).Select("id").Where("title = ?", title).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("无法按标题查找电影 %q: %w", title, err)
	}
	return m.ID, true, nil
}

func (s *gormStore) SaveRankings(ctx context.Context, rankings map[uint]int) error {
	if len(rankings) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, rank := range rankings {
			if err := tx.Model(&Movie{}).Where("id = ?", id).Update("ranking", rank).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("无法写回排名: %w", err)
	}
	return nil
}

// isUniqueViolation 识别各驱动的唯一约束冲突
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
