package utils

import (
	"ems/src/db"
	"ems/src/types"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB, mock
}

func expectSettings(mock sqlmock.Sqlmock, transferCutoff int) {
	rows := sqlmock.
		NewRows([]string{"id", "allow_transfer_ticket_before_days"}).
		AddRow(1, transferCutoff)
	mock.ExpectQuery(`SELECT (.+) FROM "settings"`).WillReturnRows(rows)
}

func expectTicketWithRelations(mock sqlmock.Sqlmock, startDate time.Time) {
	tickets := sqlmock.
		NewRows([]string{"id", "booking_id", "event_id", "status", "attendee_name", "email"}).
		AddRow(1, 9, 5, "confirmed", "Old Attendee", "old@example.com")
	mock.ExpectQuery(`SELECT (.+) FROM "tickets"`).WillReturnRows(tickets)
	bookings := sqlmock.NewRows([]string{"id", "user_id"}).AddRow(9, 42)
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).WillReturnRows(bookings)
	events := sqlmock.NewRows([]string{"id", "start_date"}).AddRow(5, startDate)
	mock.ExpectQuery(`SELECT (.+) FROM "events"`).WillReturnRows(events)
}

func TestTransferTicket(t *testing.T) {
	t.Run("rewrites only the attendee identity", func(t *testing.T) {
		gormDB, mock := newMockDB()
		db.NewDB(gormDB)

		expectSettings(mock, 7)
		mock.ExpectBegin()
		expectTicketWithRelations(mock, time.Now().AddDate(0, 0, 30))
		mock.
			ExpectExec(`UPDATE "tickets" SET "attendee_name"=\$1,"email"=\$2,"updated_at"=\$3`).
			WithArgs("New Attendee", "new@example.com", sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ticket, err := TransferTicket(42, 1, "New Attendee", "new@example.com")
		assert.Nil(t, err)
		assert.Equal(t, "New Attendee", ticket.AttendeeName)
		assert.Equal(t, "new@example.com", ticket.Email)
		assert.Equal(t, types.TICKET_CONFIRMED, ticket.Status)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("issues no update once the window has closed", func(t *testing.T) {
		gormDB, mock := newMockDB()
		db.NewDB(gormDB)

		expectSettings(mock, 60)
		mock.ExpectBegin()
		expectTicketWithRelations(mock, time.Now().AddDate(0, 0, 30))
		mock.ExpectRollback()

		_, err := TransferTicket(42, 1, "New Attendee", "new@example.com")
		var verr *types.ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a ticket the caller does not own", func(t *testing.T) {
		gormDB, mock := newMockDB()
		db.NewDB(gormDB)

		expectSettings(mock, 7)
		mock.ExpectBegin()
		expectTicketWithRelations(mock, time.Now().AddDate(0, 0, 30))
		mock.ExpectRollback()

		_, err := TransferTicket(77, 1, "New Attendee", "new@example.com")
		var perr *types.PermissionError
		assert.True(t, errors.As(err, &perr))
		assert.Nil(t, mock.ExpectationsWereMet())
	})
}

func TestConfirmBookingRepeatCall(t *testing.T) {
	gormDB, mock := newMockDB()
	db.NewDB(gormDB)

	bookings := sqlmock.
		NewRows([]string{"id", "user_id", "event_id", "status"}).
		AddRow(7, 42, 5, "confirmed")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"(.+)FOR UPDATE`).WillReturnRows(bookings)
	mock.ExpectQuery(`SELECT (.+) FROM "attendees"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	booking, confirmedNow, err := ConfirmBooking(7)
	assert.Nil(t, err)
	assert.False(t, confirmedNow)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Nil(t, mock.ExpectationsWereMet())
}
