package storage

import (
	"context"
	"errors"
)

// ProfileStore loads the serialized user profile the planner runs against.
type ProfileStore interface {
	Load(ctx context.Context) ([]byte, error)
}

// PlanStore persists serialized meal plans and grocery lists. The planner
// core never touches storage itself; callers serialize and hand bytes here.
type PlanStore interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// TestProfileStore is a simple in-memory implementation for testing
type TestProfileStore struct {
	data []byte
	err  error
}

func NewTestProfileStore(data []byte) *TestProfileStore {
	return &TestProfileStore{data: data}
}

func NewTestProfileStoreWithError() *TestProfileStore {
	return &TestProfileStore{err: errors.New("not found")}
}

func (t *TestProfileStore) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}

// TestPlanStore is a simple in-memory implementation for testing
type TestPlanStore struct {
	data []byte
	err  error
}

func NewTestPlanStore() *TestPlanStore {
	return &TestPlanStore{}
}

func NewTestPlanStoreWithError() *TestPlanStore {
	return &TestPlanStore{err: errors.New("not found")}
}

func (t *TestPlanStore) Save(ctx context.Context, data []byte) error {
	if t.err != nil {
		return t.err
	}
	t.data = data
	return nil
}

func (t *TestPlanStore) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}
