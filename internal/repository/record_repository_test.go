package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

func TestRecordRepositoryNextSequence(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT nextval($1::regclass)")).
		WithArgs("inward_no_seq").
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(42))

	n, err := repo.NextInwardSequence(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryCreateInward(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO inward_records") + ".*" + regexp.QuoteMeta("RETURNING s_no")).
		WillReturnRows(sqlmock.NewRows([]string{"s_no"}).AddRow(7))

	rec := &models.InwardRecord{
		InwardNo:      "INW/2024/000042",
		DateOfReceipt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		NameOfSender:  "Ravi Kumar",
		SenderState:   "Bihar",
		SenderRegion:  region.A,
		Language:      models.LanguageHindi,
		ReplyMetadata: models.ReplyMetadata{ReplyRequired: models.ReplyRequiredNo},
	}
	require.NoError(t, repo.CreateInward(context.Background(), rec))
	assert.Equal(t, int64(7), rec.SNo)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryCreateOutwardDuplicateLink(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO outward_records")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "outward_records_inward_s_no_key"})

	sNo := int64(7)
	err := repo.CreateOutward(context.Background(), &models.OutwardRecord{OutwardNo: "OUT/2024/000001", InwardSNo: &sNo})
	assert.ErrorIs(t, err, ErrInwardAlreadyLinked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryFindInwardByNoMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM inward_records WHERE inward_no = $1 LIMIT 1")).
		WithArgs("INW/2024/000001").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindInwardByNo(context.Background(), "INW/2024/000001")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordRepositorySyncInwardReply(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	despatched := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE inward_records SET reply_required = $2, reply_sent_date = $3")).
		WithArgs(int64(7), "Yes", despatched, "OUT/2024/000003", "Meena", "Hindi", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE inward_records SET reply_required = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	sync := models.InwardReplySync{
		InwardSNo:     7,
		ReplyRequired: models.ReplyRequiredYes,
		ReplySentDate: despatched,
		ReplyRefNo:    "OUT/2024/000003",
		ReplySentBy:   "Meena",
		ReplySentIn:   models.LanguageHindi,
		ReplyCount:    2,
	}
	require.NoError(t, repo.SyncInwardReply(context.Background(), sync))

	err := repo.SyncInwardReply(context.Background(), sync)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositorySearchInwardEscapesPrefix(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM inward_records WHERE inward_no LIKE $1 AND group_name = $2 ORDER BY inward_no DESC LIMIT 10")).
		WithArgs(`INW/2024/\_%`, "HR").
		WillReturnRows(sqlmock.NewRows([]string{"s_no", "inward_no"}).AddRow(1, "INW/2024/_01"))

	rows, err := repo.SearchInward(context.Background(), "INW/2024/_", models.RecordScope{Group: "HR"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "INW/2024/_01", rows[0].InwardNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryRecentOutward(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM outward_records ORDER BY created_at DESC, s_no DESC LIMIT 5")).
		WillReturnRows(sqlmock.NewRows([]string{"s_no", "outward_no", "receiver_region"}).AddRow(3, "OUT/2024/000003", "C"))

	rows, err := repo.RecentOutward(context.Background(), models.RecordScope{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, region.C, rows[0].ReceiverRegion)
	assert.NoError(t, mock.ExpectationsWereMet())
}
