package storage

import (
	"context"
	"sort"
	"sync"

	"campusbot/internal/models"
)

// Memory is an in-memory store with the same surface as Postgres. It backs
// the dispatcher tests, so its ordering and update semantics must match the
// SQL implementation.
type Memory struct {
	mu     sync.RWMutex
	users  map[int64]models.TGUser
	course map[int64]models.Course
	places []models.Place
	phones []models.PhoneNumber
	links  []models.Link
	texts  map[memTextKey]string

	// Fail, when set, is returned by every read; tests use it to simulate
	// a backing-store outage.
	Fail error
}

type memTextKey struct {
	name     string
	isButton bool
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[int64]models.TGUser),
		course: make(map[int64]models.Course),
		texts:  make(map[memTextKey]string),
	}
}

// AddCourse seeds a course row.
func (m *Memory) AddCourse(c models.Course) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.course[c.ID] = c
}

// AddPlace seeds a place row.
func (m *Memory) AddPlace(p models.Place) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.places = append(m.places, p)
}

// AddPhone seeds a phone directory row.
func (m *Memory) AddPhone(p models.PhoneNumber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phones = append(m.phones, p)
}

// AddLink seeds a link row.
func (m *Memory) AddLink(l models.Link) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, l)
}

// SetText seeds a template row.
func (m *Memory) SetText(name string, isButton bool, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[memTextKey{name, isButton}] = text
}

// UserCount reports how many users are registered.
func (m *Memory) UserCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// User returns a registered user by id.
func (m *Memory) User(id int64) (models.TGUser, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *Memory) UpsertUser(_ context.Context, user models.TGUser) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return false, m.Fail
	}
	_, existed := m.users[user.ID]
	m.users[user.ID] = user
	return !existed, nil
}

func (m *Memory) CountUsers(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return 0, m.Fail
	}
	return int64(len(m.users)), nil
}

func (m *Memory) CoursesBySemester(_ context.Context, semester int) ([]models.Course, error) {
	return m.selectCourses(func(c models.Course) bool {
		return c.OfferingSemester.Valid && c.OfferingSemester.Int64 == int64(semester)
	})
}

func (m *Memory) CoursesByType(_ context.Context, code int) ([]models.Course, error) {
	return m.selectCourses(func(c models.Course) bool {
		return int(c.CourseType) == code
	})
}

func (m *Memory) selectCourses(keep func(models.Course) bool) ([]models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	var out []models.Course
	for _, c := range m.course {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CourseByID(_ context.Context, id int64) (models.Course, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return models.Course{}, false, m.Fail
	}
	c, ok := m.course[id]
	return c, ok, nil
}

func (m *Memory) PlacesByGroup(_ context.Context, group int) ([]models.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	var out []models.Place
	for _, p := range m.places {
		if int(p.Group) == group {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) Phones(_ context.Context) ([]models.PhoneNumber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	return append([]models.PhoneNumber(nil), m.phones...), nil
}

func (m *Memory) Links(_ context.Context) ([]models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	return append([]models.Link(nil), m.links...), nil
}

func (m *Memory) TextByName(_ context.Context, name string, isButton bool) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail != nil {
		return "", false, m.Fail
	}
	text, ok := m.texts[memTextKey{name, isButton}]
	return text, ok, nil
}
