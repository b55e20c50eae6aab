package movie

import (
	"context"
	"fmt"
	"log/slog"
)

// Service 封装电影相关的业务逻辑
type Service struct {
	store          Store
	persistRanking bool
	imageBaseURL   string
}

// NewService 创建电影服务。persistRanking 为 true 时，列表读取会把排名写回数据库。
func NewService(store Store, imageBaseURL string, persistRanking bool) *Service {
	return &Service{
		store:          store,
		persistRanking: persistRanking,
		imageBaseURL:   imageBaseURL,
	}
}

// ListRanked 返回按评分降序排列的电影，Ranking 字段被设置为从1开始的名次。
// 名次只存在于返回值中，除非开启了 persistRanking。
func (s *Service) ListRanked(ctx context.Context) ([]Movie, error) {
	movies, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range movies {
		movies[i].Ranking = i + 1
	}

	if s.persistRanking {
		rankings := make(map[uint]int, len(movies))
		for _, m := range movies {
			rankings[m.ID] = m.Ranking
		}
		if err := s.store.SaveRankings(ctx, rankings); err != nil {
			return nil, err
		}
	}
	return movies, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Movie, error) {
	return s.store.Get(ctx, id)
}

// UpdateReview 只修改评分和评论，其它字段保持不变
func (s *Service) UpdateReview(ctx context.Context, id uint, rating float64, review string) (*Movie, error) {
	m, err := s.store.UpdateReview(ctx, id, rating, review)
	if err != nil {
		return nil, err
	}
	slog.Info("电影评分已更新", "id", id, "rating", rating)
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("电影已删除", "id", id)
	return nil
}

// AddDraft 根据搜索结果创建草稿记录，返回新记录的ID
func (s *Service) AddDraft(ctx context.Context, title string, year int, overview, imagePath string) (uint, error) {
	id, err := s.store.Create(ctx, NewDraft(title, year, overview, s.imageBaseURL, imagePath))
	if err != nil {
		return 0, err
	}
	slog.Info("已添加新电影", "id", id, "title", title, "year", year)
	return id, nil
}

// ExistingID 返回同名电影的ID，用于标题冲突时指向已有条目
func (s *Service) ExistingID(ctx context.Context, title string) (uint, bool, error) {
	id, ok, err := s.store.FindIDByTitle(ctx, title)
	if err != nil {
		return 0, false, fmt.Errorf("检查标题失败: %w", err)
	}
	return id, ok, nil
}
