package catalog

import (
	"botanicaltour/internal/domain"
)

// Service is a read-only view over the tour graph.
type Service struct {
	locations []domain.Location
	byID      map[string]int
}

func NewService() *Service {
	return newService(tourLocations)
}

func newService(locations []domain.Location) *Service {
	s := &Service{locations: locations, byID: make(map[string]int, len(locations))}
	for i, l := range locations {
		s.byID[l.ID] = i
	}
	return s
}

func (s *Service) List() []domain.Location {
	out := make([]domain.Location, len(s.locations))
	copy(out, s.locations)
	return out
}

func (s *Service) Get(id string) (*domain.Location, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	l := s.locations[i]
	return &l, nil
}

func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

func (s *Service) StartPoint() string {
	return StartPoint
}

// Neighbor returns the location reached by moving in dir from id.
func (s *Service) Neighbor(id string, dir domain.Direction) (*domain.Location, error) {
	switch dir {
	case domain.DirectionLeft, domain.DirectionRight, domain.DirectionUp, domain.DirectionDown:
	default:
		return nil, ErrInvalidDirection
	}

	from, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	next, ok := from.Connections[dir]
	if !ok {
		return nil, ErrNoConnection
	}
	return s.Get(next)
}
