package postgres

import "fmt"

// RepositoryError wraps a failed store operation with what was being done to which entity.
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

func wrap(operation, entity string, err error) error {
	if err == nil {
		return nil
	}
	return &RepositoryError{Operation: operation, Entity: entity, Err: err}
}
