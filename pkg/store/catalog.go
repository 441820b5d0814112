package store

import (
	"context"
	"fmt"
)

// Functions returns the distinct job function names in the dataset.
func (s *Store) Functions(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		"SELECT DISTINCT job_function FROM job_positions WHERE job_function IS NOT NULL ORDER BY job_function")
	if err != nil {
		return nil, fmt.Errorf("list functions: %w", err)
	}
	return names, nil
}

// Modules returns the distinct job module names in the dataset.
func (s *Store) Modules(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		"SELECT DISTINCT job_module FROM job_positions WHERE job_module IS NOT NULL ORDER BY job_module")
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return names, nil
}

// Levels returns the distinct job level names in the dataset.
func (s *Store) Levels(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		"SELECT DISTINCT job_level FROM job_positions WHERE job_level IS NOT NULL ORDER BY job_level")
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	return names, nil
}
