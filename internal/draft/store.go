package draft

import (
	"sync"

	"github.com/google/uuid"
)

// Store хранит черновики по id в памяти процесса. Никакой живучести:
// перезапуск сервиса или отмена диалога их стирает, это ожидаемо.
type Store struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

func NewStore() *Store {
	return &Store{drafts: map[string]*Draft{}}
}

func (s *Store) Create(flow Flow, destinationWarehouseID string) (*Draft, error) {
	d, err := New(uuid.NewString(), flow, destinationWarehouseID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()
	return d, nil
}

// With выполняет fn над черновиком под общим замком. Все мутации черновика
// идут только через With, поэтому операции применяются в порядке вызова.
func (s *Store) With(id string, fn func(*Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return ErrNotFound
	}
	return fn(d)
}

// Snapshot возвращает копию черновика для чтения.
func (s *Store) Snapshot(id string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return Draft{}, false
	}
	cp := *d
	cp.Items = append([]Item(nil), d.Items...)
	return cp, true
}

// Abandon удаляет черновик (закрытие диалога без проведения).
func (s *Store) Abandon(id string) {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
}
