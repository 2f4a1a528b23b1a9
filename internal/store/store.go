package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool

	users *UsersRepo
	keys  *UserKeysRepo
	msgs  *MessagesRepo
	cnt   *CountersRepo
}

func New(pool *pgxpool.Pool) *Store {
	s := &Store{pool: pool}
	s.users = &UsersRepo{pool: pool}
	s.keys = &UserKeysRepo{pool: pool}
	s.msgs = &MessagesRepo{pool: pool}
	s.cnt = &CountersRepo{pool: pool}
	return s
}

func (s *Store) Users() *UsersRepo       { return s.users }
func (s *Store) UserKeys() *UserKeysRepo { return s.keys }
func (s *Store) Messages() *MessagesRepo { return s.msgs }
func (s *Store) Counters() *CountersRepo { return s.cnt }
