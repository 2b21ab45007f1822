package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/sessionauth/errors"
)

// MemoryStore keeps users in process memory, in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	users []*User
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) AddUser(_ context.Context, email, hashedPassword string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, apperrors.DuplicateEmail(email)
		}
	}
	now := s.now()
	u := &User{Email: email, HashedPassword: hashedPassword}
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users = append(s.users, u)
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) FindUserBy(ctx context.Context, criteria Criteria) (*User, error) {
	found, err := s.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperrors.NotFound("user", "")
	}
	return &found[0], nil
}

func (s *MemoryStore) Search(_ context.Context, criteria Criteria) ([]User, error) {
	if err := checkKeys(criteria); err != nil {
		return nil, err
	}
	want := make(map[string]*string, len(criteria))
	for k, v := range criteria {
		val, err := normalize(v)
		if err != nil {
			return nil, err
		}
		want[k] = val
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []User
	for _, u := range s.users {
		if matches(u, want) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id string, fields Fields) error {
	if err := checkUpdate(fields); err != nil {
		return err
	}
	values := make(map[string]*string, len(fields))
	for k, v := range fields {
		val, err := normalize(v)
		if err != nil {
			return err
		}
		values[k] = val
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var target *User
	for _, u := range s.users {
		if u.ID == id {
			target = u
			break
		}
	}
	if target == nil {
		return apperrors.NotFound("user", id)
	}
	if email, ok := values[FieldEmail]; ok {
		for _, u := range s.users {
			if u != target && u.Email == *email {
				return apperrors.DuplicateEmail(*email)
			}
		}
	}

	for k, v := range values {
		switch k {
		case FieldEmail:
			target.Email = *v
		case FieldHashedPassword:
			target.HashedPassword = *v
		case FieldSessionID:
			target.SessionID = copyString(v)
		case FieldResetToken:
			target.ResetToken = copyString(v)
		}
	}
	target.UpdatedAt = s.now()
	return nil
}

func matches(u *User, want map[string]*string) bool {
	for k, v := range want {
		got := u.field(k)
		switch {
		case v == nil && got == nil:
		case v == nil || got == nil:
			return false
		case *v != *got:
			return false
		}
	}
	return true
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
