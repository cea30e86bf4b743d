package postgres

import (
	"database/sql"

	"github.com/AnkitDhruva08/bookrent/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.BookRepository
	repository.StudentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		RentalRepository:  NewRentalRepository(db),
		BookRepository:    NewBookRepository(db),
		StudentRepository: NewStudentRepository(db),
	}
}
