package services

import (
	"context"

	"github.com/dykim-dev/matchboard/brackets"
	"github.com/dykim-dev/matchboard/models"
	"github.com/dykim-dev/matchboard/repositories"
)

// fakeTxRunner runs the callback without a real transaction.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type appliedResult struct {
	playerID int
	points   int
	handicap int
	won      bool
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	applied []appliedResult
}

func newFakePlayerRepo(players ...*models.Player) *fakePlayerRepo {
	repo := &fakePlayerRepo{players: make(map[int]*models.Player)}
	for _, p := range players {
		repo.players[p.ID] = p
	}
	return repo
}

func (f *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	player.ID = len(f.players) + 1
	f.players[player.ID] = player
	return nil
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := f.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (f *fakePlayerRepo) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	for _, p := range f.players {
		if p.Email == email {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) List(ctx context.Context, activeOnly bool) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range f.players {
		if activeOnly && !p.Active {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if _, ok := f.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	f.players[player.ID] = player
	return nil
}

func (f *fakePlayerRepo) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	player, ok := f.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.AvatarKey = avatarKey
	return nil
}

func (f *fakePlayerRepo) ApplyResult(ctx context.Context, exec repositories.SQLExecutor, id, points, handicap int, won bool) error {
	player, ok := f.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Points = points
	player.Handicap = handicap
	player.MatchCount++
	if won {
		player.Wins++
	} else {
		player.Losses++
	}
	f.applied = append(f.applied, appliedResult{playerID: id, points: points, handicap: handicap, won: won})
	return nil
}

func (f *fakePlayerRepo) Count(ctx context.Context) (int, error) {
	return len(f.players), nil
}

type fakeMatchRepo struct {
	matches []*models.Match
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = len(f.matches) + 1
	f.matches = append(f.matches, match)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	for _, m := range f.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListRecent(ctx context.Context, limit int) ([]*models.Match, error) {
	if limit > len(f.matches) {
		limit = len(f.matches)
	}
	return f.matches[:limit], nil
}

func (f *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.TournamentID != nil && *m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) Count(ctx context.Context) (int, error) {
	return len(f.matches), nil
}

type fakeTeamRepo struct {
	teams   map[int]*models.Team
	members map[int][]int // teamID -> playerIDs
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), members: make(map[int][]int)}
}

func (f *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	team.ID = len(f.teams) + 1
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) List(ctx context.Context) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range f.teams {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamRepo) AddMember(ctx context.Context, teamID, playerID int) error {
	f.members[teamID] = append(f.members[teamID], playerID)
	return nil
}

func (f *fakeTeamRepo) RemoveMember(ctx context.Context, teamID, playerID int) error {
	ids := f.members[teamID]
	for i, id := range ids {
		if id == playerID {
			f.members[teamID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMemberNotFound
}

func (f *fakeTeamRepo) ListMembers(ctx context.Context, teamID int) ([]models.Player, error) {
	return nil, nil
}

func (f *fakeTeamRepo) IsMember(ctx context.Context, teamID, playerID int) (bool, error) {
	for _, id := range f.members[teamID] {
		if id == playerID {
			return true, nil
		}
	}
	return false, nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range tournaments {
		repo.tournaments[t.ID] = t
	}
	return repo
}

func (f *fakeTournamentRepo) Create(ctx context.Context, tournament *models.Tournament) error {
	tournament.ID = len(f.tournaments) + 1
	f.tournaments[tournament.ID] = tournament
	return nil
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return tournament, nil
}

func (f *fakeTournamentRepo) List(ctx context.Context, activeOnly bool) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range f.tournaments {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTournamentRepo) Update(ctx context.Context, tournament *models.Tournament) error {
	if _, ok := f.tournaments[tournament.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	f.tournaments[tournament.ID] = tournament
	return nil
}

func (f *fakeTournamentRepo) DeactivatePast(ctx context.Context) (int, error) {
	return 0, nil
}

func (f *fakeTournamentRepo) Count(ctx context.Context) (int, error) {
	return len(f.tournaments), nil
}

func (f *fakeTournamentRepo) CountActive(ctx context.Context) (int, error) {
	count := 0
	for _, t := range f.tournaments {
		if t.Active {
			count++
		}
	}
	return count, nil
}

type fakeHistoryRepo struct {
	entries []*models.RatingHistory
}

func (f *fakeHistoryRepo) Create(ctx context.Context, exec repositories.SQLExecutor, entry *models.RatingHistory) error {
	entry.ID = len(f.entries) + 1
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryRepo) ListByPlayer(ctx context.Context, playerID int, limit int) ([]models.RatingHistory, error) {
	var out []models.RatingHistory
	for _, e := range f.entries {
		if e.PlayerID == playerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeBracketRepo struct {
	brackets map[int]*models.FinalBracket
}

func newFakeBracketRepo(bs ...*models.FinalBracket) *fakeBracketRepo {
	repo := &fakeBracketRepo{brackets: make(map[int]*models.FinalBracket)}
	for _, b := range bs {
		repo.brackets[b.ID] = b
	}
	return repo
}

func (f *fakeBracketRepo) Create(ctx context.Context, bracket *models.FinalBracket) error {
	bracket.ID = len(f.brackets) + 1
	f.brackets[bracket.ID] = bracket
	return nil
}

func (f *fakeBracketRepo) GetByID(ctx context.Context, id int) (*models.FinalBracket, error) {
	bracket, ok := f.brackets[id]
	if !ok {
		return nil, repositories.ErrBracketNotFound
	}
	return bracket, nil
}

func (f *fakeBracketRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.FinalBracket, error) {
	var out []*models.FinalBracket
	for _, b := range f.brackets {
		if b.TournamentID == tournamentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBracketRepo) UpdateConfig(ctx context.Context, id int, matchFormat models.MatchFormat, visibleRounds int) error {
	bracket, ok := f.brackets[id]
	if !ok {
		return repositories.ErrBracketNotFound
	}
	bracket.MatchFormat = matchFormat
	bracket.VisibleRounds = visibleRounds
	return nil
}

func (f *fakeBracketRepo) Delete(ctx context.Context, id int) error {
	delete(f.brackets, id)
	return nil
}

type slotKey struct {
	round, slot int
}

type fakeSlotRepo struct {
	slots map[slotKey]*models.FinalSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[slotKey]*models.FinalSlot)}
}

func (f *fakeSlotRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, slot *models.FinalSlot) error {
	f.slots[slotKey{slot.Round, slot.Slot}] = slot
	return nil
}

func (f *fakeSlotRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, bracketID, round, slotNo int) error {
	delete(f.slots, slotKey{round, slotNo})
	return nil
}

func (f *fakeSlotRepo) ListByBracket(ctx context.Context, bracketID int) ([]models.FinalSlot, error) {
	var out []models.FinalSlot
	for _, s := range f.slots {
		out = append(out, *s)
	}
	return out, nil
}

type matchKey struct {
	round, matchNo int
}

type fakeFinalMatchRepo struct {
	matches map[matchKey]*models.FinalMatch

	clearedFrom  []int // rounds passed to ClearFromRound
	clearedAfter []int // rounds passed to ClearAfterRound
}

func newFakeFinalMatchRepo() *fakeFinalMatchRepo {
	return &fakeFinalMatchRepo{matches: make(map[matchKey]*models.FinalMatch)}
}

func (f *fakeFinalMatchRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, match *models.FinalMatch) error {
	f.matches[matchKey{match.Round, match.MatchNo}] = match
	return nil
}

func (f *fakeFinalMatchRepo) ListByBracket(ctx context.Context, bracketID int) ([]models.FinalMatch, error) {
	var out []models.FinalMatch
	for _, m := range f.matches {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeFinalMatchRepo) ClearFromRound(ctx context.Context, exec repositories.SQLExecutor, bracketID, round int) error {
	f.clearedFrom = append(f.clearedFrom, round)
	for key, m := range f.matches {
		if key.round >= round {
			f.clearResult(m)
		}
	}
	return nil
}

func (f *fakeFinalMatchRepo) ClearAfterRound(ctx context.Context, exec repositories.SQLExecutor, bracketID, round int) error {
	f.clearedAfter = append(f.clearedAfter, round)
	for key, m := range f.matches {
		if key.round > round {
			f.clearResult(m)
		}
	}
	return nil
}

func (f *fakeFinalMatchRepo) clearResult(m *models.FinalMatch) {
	m.SetsJSON = nil
	m.Sets = nil
	m.WinnerPlayerID = nil
	m.LoserPlayerID = nil
	m.FinishReason = nil
	m.Advantage = 0
}

// fakeNotifier records broadcast events instead of pushing to sockets.
type fakeNotifier struct {
	events []brackets.Event
}

func (f *fakeNotifier) BroadcastToRoom(roomID string, event brackets.Event) {
	f.events = append(f.events, event)
}
