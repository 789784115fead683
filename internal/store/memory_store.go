// internal/store/memory_store.go
package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"film-service/internal/domain"
)

// MemoryStore реализует Store на картах в памяти. Используется в тестах
// и для локального запуска без базы данных. Наружу всегда отдаются копии.
type MemoryStore struct {
	mu     sync.RWMutex
	logger *slog.Logger

	users     map[int64]*domain.User
	films     map[int64]*domain.Film
	directors map[int64]*domain.Director
	genres    map[int64]domain.Genre
	mpa       map[int64]domain.MPA
	reviews   map[int64]*domain.Review

	likes   map[int64]map[int64]struct{}                // filmID -> userIDs
	edges   map[int64]map[int64]domain.FriendshipStatus // from -> to -> status
	ratings map[int64]map[int64]bool                    // reviewID -> userID -> isLike
	feed    []domain.FeedEvent

	nextUserID     int64
	nextFilmID     int64
	nextDirectorID int64
	nextReviewID   int64
	nextEventID    int64

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore создает пустое хранилище с заполненными справочниками жанров и рейтингов.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	m := &MemoryStore{
		logger:    logger,
		users:     make(map[int64]*domain.User),
		films:     make(map[int64]*domain.Film),
		directors: make(map[int64]*domain.Director),
		genres:    make(map[int64]domain.Genre),
		mpa:       make(map[int64]domain.MPA),
		reviews:   make(map[int64]*domain.Review),
		likes:     make(map[int64]map[int64]struct{}),
		edges:     make(map[int64]map[int64]domain.FriendshipStatus),
		ratings:   make(map[int64]map[int64]bool),
		now:       time.Now,
	}
	for _, g := range domain.DefaultGenres {
		m.genres[g.ID] = g
	}
	for _, r := range domain.DefaultMPA {
		m.mpa[r.ID] = r
	}
	return m
}

func sortedKeys[V any](set map[int64]V) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// --- Пользователи ---

func (m *MemoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextUserID++
	user.ID = m.nextUserID
	userCopy := *user
	m.users[user.ID] = &userCopy
	m.logger.DebugContext(ctx, "Memory store: user created", slog.Int64("userID", user.ID))
	return nil
}

func (m *MemoryStore) UpdateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return notFound(ErrUserNotFound, user.ID)
	}
	userCopy := *user
	m.users[user.ID] = &userCopy
	return nil
}

func (m *MemoryStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, notFound(ErrUserNotFound, id)
	}
	userCopy := *u
	return &userCopy, nil
}

func (m *MemoryStore) GetUsers(_ context.Context, ids []int64) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := m.users[id]; ok {
			wanted[id] = struct{}{}
		}
	}
	users := make([]*domain.User, 0, len(wanted))
	for _, id := range sortedKeys(wanted) {
		userCopy := *m.users[id]
		users = append(users, &userCopy)
	}
	return users, nil
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, id := range sortedKeys(m.users) {
		userCopy := *m.users[id]
		users = append(users, &userCopy)
	}
	return users, nil
}

// DeleteUser удаляет пользователя вместе с его лайками, ребрами дружбы в обе
// стороны, отзывами, оценками отзывов и лентой.
func (m *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return notFound(ErrUserNotFound, id)
	}
	delete(m.users, id)
	for _, set := range m.likes {
		delete(set, id)
	}
	delete(m.edges, id)
	for _, out := range m.edges {
		delete(out, id)
	}
	for reviewID, r := range m.reviews {
		if r.UserID == id {
			m.deleteReviewLocked(reviewID)
		}
	}
	for _, byUser := range m.ratings {
		delete(byUser, id)
	}
	kept := m.feed[:0]
	for _, e := range m.feed {
		if e.UserID != id {
			kept = append(kept, e)
		}
	}
	m.feed = kept
	m.logger.DebugContext(ctx, "Memory store: user deleted", slog.Int64("userID", id))
	return nil
}

func (m *MemoryStore) UserExists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[id]
	return ok, nil
}

// --- Фильмы ---

func (m *MemoryStore) checkFilmRefsLocked(film *domain.Film) error {
	if _, ok := m.mpa[film.MPA.ID]; !ok {
		return notFound(ErrMPANotFound, film.MPA.ID)
	}
	for _, g := range film.Genres {
		if _, ok := m.genres[g.ID]; !ok {
			return notFound(ErrGenreNotFound, g.ID)
		}
	}
	for _, d := range film.Directors {
		if _, ok := m.directors[d.ID]; !ok {
			return notFound(ErrDirectorNotFound, d.ID)
		}
	}
	return nil
}

// storedFilm хранит только идентификаторы связей, имена подставляются при чтении.
func storedFilm(film *domain.Film) *domain.Film {
	f := film.Clone()
	f.Likes = nil
	f.MPA = domain.MPA{ID: film.MPA.ID}
	for i := range f.Genres {
		f.Genres[i].Name = ""
	}
	for i := range f.Directors {
		f.Directors[i].Name = ""
	}
	return f
}

func (m *MemoryStore) CreateFilm(ctx context.Context, film *domain.Film) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFilmRefsLocked(film); err != nil {
		return err
	}
	m.nextFilmID++
	film.ID = m.nextFilmID
	m.films[film.ID] = storedFilm(film)
	m.logger.DebugContext(ctx, "Memory store: film created", slog.Int64("filmID", film.ID))
	return nil
}

func (m *MemoryStore) UpdateFilm(_ context.Context, film *domain.Film) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.films[film.ID]; !ok {
		return notFound(ErrFilmNotFound, film.ID)
	}
	if err := m.checkFilmRefsLocked(film); err != nil {
		return err
	}
	m.films[film.ID] = storedFilm(film)
	return nil
}

// filmLocked собирает фильм через ту же строку-представление, что и PostgreSQL.
func (m *MemoryStore) filmLocked(id int64) *domain.Film {
	f := m.films[id]
	mpa := m.mpa[f.MPA.ID]
	row := filmRow{
		ID:             f.ID,
		Name:           f.Name,
		Description:    f.Description,
		ReleaseDate:    f.ReleaseDate,
		Duration:       f.Duration,
		MPAID:          mpa.ID,
		MPAName:        mpa.Name,
		MPADescription: mpa.Description,
		Likes:          sortedKeys(m.likes[id]),
	}
	for _, g := range f.Genres {
		row.GenreIDs = append(row.GenreIDs, g.ID)
		row.GenreNames = append(row.GenreNames, m.genres[g.ID].Name)
	}
	for _, d := range f.Directors {
		if dir, ok := m.directors[d.ID]; ok {
			row.DirectorIDs = append(row.DirectorIDs, dir.ID)
			row.DirectorNames = append(row.DirectorNames, dir.Name)
		}
	}
	return row.toFilm()
}

func (m *MemoryStore) GetFilm(_ context.Context, id int64) (*domain.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.films[id]; !ok {
		return nil, notFound(ErrFilmNotFound, id)
	}
	return m.filmLocked(id), nil
}

func (m *MemoryStore) ListFilms(_ context.Context) ([]*domain.Film, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	films := make([]*domain.Film, 0, len(m.films))
	for _, id := range sortedKeys(m.films) {
		films = append(films, m.filmLocked(id))
	}
	return films, nil
}

// DeleteFilm удаляет фильм вместе с лайками и отзывами.
func (m *MemoryStore) DeleteFilm(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.films[id]; !ok {
		return notFound(ErrFilmNotFound, id)
	}
	delete(m.films, id)
	delete(m.likes, id)
	for reviewID, r := range m.reviews {
		if r.FilmID == id {
			m.deleteReviewLocked(reviewID)
		}
	}
	m.logger.DebugContext(ctx, "Memory store: film deleted", slog.Int64("filmID", id))
	return nil
}

func (m *MemoryStore) FilmExists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.films[id]
	return ok, nil
}

// --- Лайки ---

func (m *MemoryStore) AddLike(_ context.Context, filmID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.films[filmID]; !ok {
		return notFound(ErrFilmNotFound, filmID)
	}
	if _, ok := m.users[userID]; !ok {
		return notFound(ErrUserNotFound, userID)
	}
	set, ok := m.likes[filmID]
	if !ok {
		set = make(map[int64]struct{})
		m.likes[filmID] = set
	}
	set[userID] = struct{}{}
	return nil
}

func (m *MemoryStore) RemoveLike(_ context.Context, filmID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.films[filmID]; !ok {
		return notFound(ErrFilmNotFound, filmID)
	}
	if set, ok := m.likes[filmID]; ok {
		delete(set, userID)
	}
	return nil
}

func (m *MemoryStore) LikesOf(_ context.Context, filmID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.films[filmID]; !ok {
		return nil, notFound(ErrFilmNotFound, filmID)
	}
	return sortedKeys(m.likes[filmID]), nil
}

func (m *MemoryStore) FilmsLikedBy(_ context.Context, userID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	liked := make(map[int64]struct{})
	for filmID, set := range m.likes {
		if _, ok := set[userID]; ok {
			liked[filmID] = struct{}{}
		}
	}
	return sortedKeys(liked), nil
}

func (m *MemoryStore) LikeSets(_ context.Context) (map[int64][]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sets := make(map[int64][]int64)
	for _, filmID := range sortedKeys(m.likes) {
		for _, userID := range sortedKeys(m.likes[filmID]) {
			sets[userID] = append(sets[userID], filmID)
		}
	}
	return sets, nil
}

// --- Дружба ---

// memoryEdges работает с картами без блокировки. Вызывающий держит m.mu.
type memoryEdges struct {
	m *MemoryStore
}

func (e memoryEdges) Edge(_ context.Context, from, to int64) (domain.FriendshipStatus, bool, error) {
	status, ok := e.m.edges[from][to]
	return status, ok, nil
}

func (e memoryEdges) UpsertEdge(_ context.Context, from, to int64, status domain.FriendshipStatus) error {
	if _, ok := e.m.users[from]; !ok {
		return notFound(ErrUserNotFound, from)
	}
	if _, ok := e.m.users[to]; !ok {
		return notFound(ErrUserNotFound, to)
	}
	out, ok := e.m.edges[from]
	if !ok {
		out = make(map[int64]domain.FriendshipStatus)
		e.m.edges[from] = out
	}
	out[to] = status
	return nil
}

func (e memoryEdges) DeleteEdge(_ context.Context, from, to int64) error {
	delete(e.m.edges[from], to)
	return nil
}

func (m *MemoryStore) Edge(ctx context.Context, from, to int64) (domain.FriendshipStatus, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memoryEdges{m}.Edge(ctx, from, to)
}

func (m *MemoryStore) UpsertEdge(ctx context.Context, from, to int64, status domain.FriendshipStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memoryEdges{m}.UpsertEdge(ctx, from, to, status)
}

func (m *MemoryStore) DeleteEdge(ctx context.Context, from, to int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memoryEdges{m}.DeleteEdge(ctx, from, to)
}

func (m *MemoryStore) FriendIDs(_ context.Context, userID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.edges[userID]), nil
}

// WithPair держит эксклюзивную блокировку хранилища на время fn.
func (m *MemoryStore) WithPair(ctx context.Context, _, _ int64, fn func(EdgeStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(memoryEdges{m})
}

// --- Режиссеры ---

func (m *MemoryStore) CreateDirector(_ context.Context, director *domain.Director) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextDirectorID++
	director.ID = m.nextDirectorID
	directorCopy := *director
	m.directors[director.ID] = &directorCopy
	return nil
}

func (m *MemoryStore) UpdateDirector(_ context.Context, director *domain.Director) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.directors[director.ID]; !ok {
		return notFound(ErrDirectorNotFound, director.ID)
	}
	directorCopy := *director
	m.directors[director.ID] = &directorCopy
	return nil
}

func (m *MemoryStore) GetDirector(_ context.Context, id int64) (*domain.Director, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.directors[id]
	if !ok {
		return nil, notFound(ErrDirectorNotFound, id)
	}
	directorCopy := *d
	return &directorCopy, nil
}

func (m *MemoryStore) ListDirectors(_ context.Context) ([]*domain.Director, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	directors := make([]*domain.Director, 0, len(m.directors))
	for _, id := range sortedKeys(m.directors) {
		directorCopy := *m.directors[id]
		directors = append(directors, &directorCopy)
	}
	return directors, nil
}

// DeleteDirector удаляет режиссера и отвязывает его от фильмов.
func (m *MemoryStore) DeleteDirector(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.directors[id]; !ok {
		return notFound(ErrDirectorNotFound, id)
	}
	delete(m.directors, id)
	for _, f := range m.films {
		kept := f.Directors[:0]
		for _, d := range f.Directors {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		f.Directors = kept
	}
	return nil
}

// --- Справочники ---

func (m *MemoryStore) ListGenres(_ context.Context) ([]domain.Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	genres := make([]domain.Genre, 0, len(m.genres))
	for _, id := range sortedKeys(m.genres) {
		genres = append(genres, m.genres[id])
	}
	return genres, nil
}

func (m *MemoryStore) GetGenre(_ context.Context, id int64) (*domain.Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.genres[id]
	if !ok {
		return nil, notFound(ErrGenreNotFound, id)
	}
	return &g, nil
}

func (m *MemoryStore) ListMPA(_ context.Context) ([]domain.MPA, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ratings := make([]domain.MPA, 0, len(m.mpa))
	for _, id := range sortedKeys(m.mpa) {
		ratings = append(ratings, m.mpa[id])
	}
	return ratings, nil
}

func (m *MemoryStore) GetMPA(_ context.Context, id int64) (*domain.MPA, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.mpa[id]
	if !ok {
		return nil, notFound(ErrMPANotFound, id)
	}
	return &r, nil
}

// --- Отзывы ---

func (m *MemoryStore) reviewLocked(id int64) *domain.Review {
	r := *m.reviews[id]
	r.Useful = 0
	for _, isLike := range m.ratings[id] {
		if isLike {
			r.Useful++
		} else {
			r.Useful--
		}
	}
	return &r
}

func (m *MemoryStore) deleteReviewLocked(id int64) {
	delete(m.reviews, id)
	delete(m.ratings, id)
}

func (m *MemoryStore) CreateReview(_ context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[review.UserID]; !ok {
		return notFound(ErrUserNotFound, review.UserID)
	}
	if _, ok := m.films[review.FilmID]; !ok {
		return notFound(ErrFilmNotFound, review.FilmID)
	}
	m.nextReviewID++
	review.ID = m.nextReviewID
	review.Useful = 0
	reviewCopy := *review
	m.reviews[review.ID] = &reviewCopy
	return nil
}

func (m *MemoryStore) UpdateReview(_ context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reviews[review.ID]
	if !ok {
		return notFound(ErrReviewNotFound, review.ID)
	}
	stored.Content = review.Content
	stored.IsPositive = review.IsPositive
	return nil
}

func (m *MemoryStore) GetReview(_ context.Context, id int64) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.reviews[id]; !ok {
		return nil, notFound(ErrReviewNotFound, id)
	}
	return m.reviewLocked(id), nil
}

func (m *MemoryStore) ListReviews(_ context.Context, filmID int64, limit int) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reviews := make([]*domain.Review, 0)
	for _, id := range sortedKeys(m.reviews) {
		if filmID != 0 && m.reviews[id].FilmID != filmID {
			continue
		}
		reviews = append(reviews, m.reviewLocked(id))
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Useful > reviews[j].Useful
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (m *MemoryStore) DeleteReview(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return notFound(ErrReviewNotFound, id)
	}
	m.deleteReviewLocked(id)
	return nil
}

func (m *MemoryStore) SetRating(_ context.Context, reviewID, userID int64, isLike bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return notFound(ErrReviewNotFound, reviewID)
	}
	if _, ok := m.users[userID]; !ok {
		return notFound(ErrUserNotFound, userID)
	}
	byUser, ok := m.ratings[reviewID]
	if !ok {
		byUser = make(map[int64]bool)
		m.ratings[reviewID] = byUser
	}
	byUser[userID] = isLike
	return nil
}

func (m *MemoryStore) RemoveRating(_ context.Context, reviewID, userID int64, isLike bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[reviewID]; !ok {
		return notFound(ErrReviewNotFound, reviewID)
	}
	if current, ok := m.ratings[reviewID][userID]; ok && current == isLike {
		delete(m.ratings[reviewID], userID)
	}
	return nil
}

// --- Лента ---

func (m *MemoryStore) AddEvent(_ context.Context, event *domain.FeedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[event.UserID]; !ok {
		return notFound(ErrUserNotFound, event.UserID)
	}
	m.nextEventID++
	event.EventID = m.nextEventID
	if event.Timestamp == 0 {
		event.Timestamp = m.now().UnixMilli()
	}
	m.feed = append(m.feed, *event)
	return nil
}

func (m *MemoryStore) ListEvents(_ context.Context, userID int64) ([]domain.FeedEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]domain.FeedEvent, 0)
	for _, e := range m.feed {
		if e.UserID == userID {
			events = append(events, e)
		}
	}
	return events, nil
}
