package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore keeps players and matches in memory and computes standings the
// way the SQL does: two aggregates joined to every player, absent rows as zero.
type memStore struct {
	mu      sync.Mutex
	nextID  int
	players []models.Player
	matches []models.Match
	failOn  map[string]error
}

func newMemStore() *memStore {
	return &memStore{failOn: map[string]error{}}
}

func (s *memStore) fail(op string) error {
	if err, ok := s.failOn[op]; ok {
		return fmt.Errorf("%w: %s: %w", repositories.ErrStorage, op, err)
	}
	return nil
}

type memPlayers struct{ *memStore }
type memMatches struct{ *memStore }
type memStandings struct{ *memStore }

func (s memPlayers) Create(ctx context.Context, name string) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("register player"); err != nil {
		return nil, err
	}
	s.nextID++
	p := models.Player{ID: s.nextID, Name: name}
	s.players = append(s.players, p)
	return &p, nil
}

func (s memPlayers) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players), s.fail("count players")
}

func (s memPlayers) List(ctx context.Context) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Player{}, s.players...), nil
}

func (s memPlayers) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete players"); err != nil {
		return err
	}
	if len(s.matches) > 0 {
		return fmt.Errorf("%w: delete players: foreign_key_violation", repositories.ErrStorage)
	}
	s.players = nil
	return nil
}

func (s memMatches) Create(ctx context.Context, winner, loser int) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("report match"); err != nil {
		return nil, err
	}
	m := models.Match{Host: winner, Guest: loser, Winner: winner}
	s.matches = append(s.matches, m)
	return &m, nil
}

func (s memMatches) List(ctx context.Context) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("list matches"); err != nil {
		return nil, err
	}
	return append([]models.Match{}, s.matches...), nil
}

func (s memMatches) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("delete matches"); err != nil {
		return err
	}
	s.matches = nil
	return nil
}

func (s memStandings) List(ctx context.Context) ([]models.PlayerStanding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("player standings"); err != nil {
		return nil, err
	}
	return s.standings(), nil
}

func (s memStandings) Snapshot(ctx context.Context) ([]models.PlayerStanding, []models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("standings snapshot"); err != nil {
		return nil, nil, err
	}
	return s.standings(), append([]models.Match{}, s.matches...), nil
}

// standings aggregates with the store lock held.
func (s memStandings) standings() []models.PlayerStanding {
	wins := make(map[int]int)
	played := make(map[int]int)
	for _, m := range s.matches {
		wins[m.Winner]++
		for _, p := range s.players {
			if p.ID == m.Host || p.ID == m.Guest {
				played[p.ID]++
			}
		}
	}

	out := make([]models.PlayerStanding, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, models.PlayerStanding{ID: p.ID, Name: p.Name, Wins: wins[p.ID], Matches: played[p.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type memPosts struct {
	mu    sync.Mutex
	clock time.Time
	posts []models.Post
}

func (r *memPosts) List(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Post, 0, len(r.posts))
	for i := len(r.posts) - 1; i >= 0; i-- {
		out = append(out, r.posts[i])
	}
	return out, nil
}

func (r *memPosts) Create(ctx context.Context, content string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Second)
	p := models.Post{Content: content, PostedAt: r.clock}
	r.posts = append(r.posts, p)
	return &p, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
	err      error
}

func (p *recordingPublisher) BroadcastToRoom(roomID string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg, ok := message.(brackets.WebSocketMessage); ok {
		p.messages = append(p.messages, msg)
	}
	return p.err
}

type memUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (u *memUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, err
	}
	u.key, u.contentType, u.body = key, contentType, buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key), ETag: "etag"}, nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func newTestTournament(pub Publisher) (TournamentService, *memStore) {
	store := newMemStore()
	svc := NewTournamentService(
		memPlayers{store},
		memMatches{store},
		memStandings{store},
		brackets.NewSwissGenerator(),
		pub,
		discardLogger(),
	)
	return svc, store
}
