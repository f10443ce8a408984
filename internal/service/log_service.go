package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

// LogService чтение и очистка журнала действий. Записи создаёт только audit.Recorder.
type LogService struct {
	repo repository.LogRepository
}

func NewLogService(repo repository.LogRepository) *LogService {
	return &LogService{repo: repo}
}

func (s *LogService) List(ctx context.Context) ([]domain.Log, error) {
	return s.repo.List(ctx)
}

func (s *LogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id.IsZero() {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// Clear удаляет все записи и возвращает их количество
func (s *LogService) Clear(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}
