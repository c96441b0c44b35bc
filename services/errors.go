package services

import "errors"

// Shared errors across services, mapped to HTTP statuses in the handler layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrSelfMatch             = errors.New("a player cannot play against themselves")
	ErrScoreInvalid          = errors.New("loser score must be lower than winner score")
	ErrMatchModeInvalid      = errors.New("match must reference either two players or two teams")
	ErrFinishReasonInvalid   = errors.New("invalid finish reason")
	ErrSlotInvalid           = errors.New("round and slot numbers must be positive")
	ErrMatchFormatInvalid    = errors.New("invalid match format")
	ErrBonusFactorInvalid    = errors.New("tournament bonus factor must be positive")
	ErrTournamentInactive    = errors.New("tournament is not active")
	ErrPlayerInactive        = errors.New("player is not active")

	// Conflicts
	ErrPlayerEmailConflict = errors.New("email address is already in use")
	ErrPlayerNameConflict  = errors.New("player name is already in use")
	ErrTeamNameConflict    = errors.New("team name is already in use")
	ErrMemberConflict      = errors.New("player is already a member of this team")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrPlayerNotFound      = errors.New("player not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrBracketNotFound     = errors.New("final bracket not found")
	ErrFinalSlotNotFound   = errors.New("final slot not found")
	ErrLeagueBlockNotFound = errors.New("league block not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrNoticeNotFound      = errors.New("notice not found")
	ErrMemberNotFound      = errors.New("team membership not found")
)
