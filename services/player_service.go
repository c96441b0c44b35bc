package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/repositories"
	"github.com/dykim-dev/matchboard/storage"
	"github.com/dykim-dev/matchboard/utils"
)

type PlayerService interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	// ListRanking returns non-dummy players ordered by points.
	ListRanking(ctx context.Context, activeOnly bool) ([]*models.Player, error)
	RatingHistory(ctx context.Context, playerID, limit int) ([]models.RatingHistory, error)
	// UploadAvatar stores the image and records its key. Only the player
	// themselves or an admin may change an avatar.
	UploadAvatar(ctx context.Context, actorID, playerID int, contentType string, body io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo  repositories.PlayerRepository
	historyRepo repositories.RatingHistoryRepository
	uploader    storage.FileUploader
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	historyRepo repositories.RatingHistoryRepository,
	uploader storage.FileUploader,
) PlayerService {
	return &playerService{
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
		uploader:    uploader,
	}
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	s.populate(player)
	return player, nil
}

func (s *playerService) ListRanking(ctx context.Context, activeOnly bool) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	for _, player := range players {
		s.populate(player)
	}
	return players, nil
}

func (s *playerService) RatingHistory(ctx context.Context, playerID, limit int) ([]models.RatingHistory, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if _, err := s.GetByID(ctx, playerID); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByPlayer(ctx, playerID, limit)
}

func (s *playerService) UploadAvatar(ctx context.Context, actorID, playerID int, contentType string, body io.Reader) (*models.Player, error) {
	actor, err := s.playerRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if actorID != playerID && !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}

	player, err := s.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	ext, err := utils.ExtensionForImage(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("avatars/player_%d%s", playerID, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &key); err != nil {
		return nil, err
	}

	player.AvatarKey = &key
	s.populate(player)
	return player, nil
}

func (s *playerService) populate(player *models.Player) {
	player.PasswordHash = ""
	if player.AvatarKey != nil && *player.AvatarKey != "" && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*player.AvatarKey); url != "" {
			player.AvatarURL = &url
		}
	}
}
