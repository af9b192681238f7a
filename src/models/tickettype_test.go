package models

import (
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB, mock
}

func expectSoldCount(mock sqlmock.Sqlmock, sold int64) {
	rows := sqlmock.NewRows([]string{"count"}).AddRow(sold)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tickets"`).WillReturnRows(rows)
}

func TestTicketCapacityOracle(t *testing.T) {
	db, mock := newMockDB()

	t.Run("uncapped types report the sentinel without counting", func(t *testing.T) {
		tt := TicketType{ID: 1, MaxTicketsAvailable: 0}
		remaining, err := tt.Remaining(db)
		assert.Nil(t, err)
		assert.Equal(t, UnlimitedTickets, remaining)
	})

	t.Run("remaining is the cap minus confirmed tickets", func(t *testing.T) {
		tt := TicketType{ID: 1, MaxTicketsAvailable: 10}
		expectSoldCount(mock, 3)
		remaining, err := tt.Remaining(db)
		assert.Nil(t, err)
		assert.Equal(t, int64(7), remaining)
	})

	t.Run("availability shrinks as tickets sell", func(t *testing.T) {
		tt := TicketType{ID: 1, MaxTicketsAvailable: 2}

		expectSoldCount(mock, 0)
		ok, err := tt.AreTicketsAvailable(db, 2)
		assert.Nil(t, err)
		assert.True(t, ok)

		expectSoldCount(mock, 1)
		ok, err = tt.AreTicketsAvailable(db, 2)
		assert.Nil(t, err)
		assert.False(t, ok)

		expectSoldCount(mock, 1)
		ok, err = tt.AreTicketsAvailable(db, 1)
		assert.Nil(t, err)
		assert.True(t, ok)

		expectSoldCount(mock, 2)
		ok, err = tt.AreTicketsAvailable(db, 1)
		assert.Nil(t, err)
		assert.False(t, ok)
	})

	t.Run("uncapped types always have availability", func(t *testing.T) {
		tt := TicketType{ID: 1}
		ok, err := tt.AreTicketsAvailable(db, 1_000_000)
		assert.Nil(t, err)
		assert.True(t, ok)
	})

	assert.Nil(t, mock.ExpectationsWereMet())
}
