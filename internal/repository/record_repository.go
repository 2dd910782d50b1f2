package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/rajbhasha-api/internal/models"
)

// ErrInwardAlreadyLinked is returned when an inward record already has an outward reply.
var ErrInwardAlreadyLinked = errors.New("inward record already linked to an outward record")

const uniqueViolation = "23505"

const inwardColumns = `s_no, inward_no, date_of_receipt, office, group_name, name_of_sender, address_of_sender,
sender_city, sender_state, sender_pin, sender_region, sender_org_type, type_of_document, language_of_document,
count, remarks, reply_required, reply_sent_date, reply_ref_no, reply_sent_by, reply_sent_in, reply_count,
created_by, created_at`

const outwardColumns = `s_no, outward_no, date_of_despatch, office, group_name, name_of_receiver, address_of_receiver,
receiver_city, receiver_state, receiver_pin, receiver_region, receiver_org_type, type_of_document,
language_of_document, original_language, count, remarks, reply_required, reply_sent_date, reply_ref_no,
reply_sent_by, reply_sent_in, reply_count, reply_issued_by, inward_no, inward_s_no, created_by, created_at`

// RecordRepository stores inward and outward register entries.
type RecordRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewRecordRepository constructs the repository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// NextInwardSequence reserves the next inward number.
func (r *RecordRepository) NextInwardSequence(ctx context.Context) (int64, error) {
	return r.nextval(ctx, "inward_no_seq")
}

// NextOutwardSequence reserves the next outward number.
func (r *RecordRepository) NextOutwardSequence(ctx context.Context) (int64, error) {
	return r.nextval(ctx, "outward_no_seq")
}

func (r *RecordRepository) nextval(ctx context.Context, seq string) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT nextval($1::regclass)", seq); err != nil {
		return 0, fmt.Errorf("next %s: %w", seq, err)
	}
	return n, nil
}

// CreateInward inserts an inward row and fills its serial number and timestamp.
func (r *RecordRepository) CreateInward(ctx context.Context, rec *models.InwardRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO inward_records (inward_no, date_of_receipt, office, group_name, name_of_sender,
address_of_sender, sender_city, sender_state, sender_pin, sender_region, sender_org_type, type_of_document,
language_of_document, count, remarks, reply_required, reply_sent_date, reply_ref_no, reply_sent_by, reply_sent_in,
reply_count, created_by, created_at)
VALUES (:inward_no, :date_of_receipt, :office, :group_name, :name_of_sender, :address_of_sender, :sender_city,
:sender_state, :sender_pin, :sender_region, :sender_org_type, :type_of_document, :language_of_document, :count,
:remarks, :reply_required, :reply_sent_date, :reply_ref_no, :reply_sent_by, :reply_sent_in, :reply_count,
:created_by, :created_at)
RETURNING s_no`
	id, err := r.insertReturning(ctx, query, rec)
	if err != nil {
		return fmt.Errorf("create inward record: %w", err)
	}
	rec.SNo = id
	return nil
}

// CreateOutward inserts an outward row. A second outward for the same inward
// fails with ErrInwardAlreadyLinked.
func (r *RecordRepository) CreateOutward(ctx context.Context, rec *models.OutwardRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO outward_records (outward_no, date_of_despatch, office, group_name, name_of_receiver,
address_of_receiver, receiver_city, receiver_state, receiver_pin, receiver_region, receiver_org_type,
type_of_document, language_of_document, original_language, count, remarks, reply_required, reply_sent_date,
reply_ref_no, reply_sent_by, reply_sent_in, reply_count, reply_issued_by, inward_no, inward_s_no, created_by,
created_at)
VALUES (:outward_no, :date_of_despatch, :office, :group_name, :name_of_receiver, :address_of_receiver,
:receiver_city, :receiver_state, :receiver_pin, :receiver_region, :receiver_org_type, :type_of_document,
:language_of_document, :original_language, :count, :remarks, :reply_required, :reply_sent_date, :reply_ref_no,
:reply_sent_by, :reply_sent_in, :reply_count, :reply_issued_by, :inward_no, :inward_s_no, :created_by,
:created_at)
RETURNING s_no`
	id, err := r.insertReturning(ctx, query, rec)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation && strings.Contains(pqErr.Constraint, "inward_s_no") {
			return ErrInwardAlreadyLinked
		}
		return fmt.Errorf("create outward record: %w", err)
	}
	rec.SNo = id
	return nil
}

func (r *RecordRepository) insertReturning(ctx context.Context, query string, arg interface{}) (int64, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, sql.ErrNoRows
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, rows.Err()
}

// FindInwardByNo returns the inward row with the given number.
func (r *RecordRepository) FindInwardByNo(ctx context.Context, inwardNo string) (*models.InwardRecord, error) {
	query := `SELECT ` + inwardColumns + ` FROM inward_records WHERE inward_no = $1 LIMIT 1`
	var rec models.InwardRecord
	if err := r.db.GetContext(ctx, &rec, query, inwardNo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find inward record: %w", err)
	}
	return &rec, nil
}

// IsInwardLinked reports whether an outward record already answers the inward row.
func (r *RecordRepository) IsInwardLinked(ctx context.Context, inwardSNo int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM outward_records WHERE inward_s_no = $1)`
	var linked bool
	if err := r.db.GetContext(ctx, &linked, query, inwardSNo); err != nil {
		return false, fmt.Errorf("check inward link: %w", err)
	}
	return linked, nil
}

// SyncInwardReply copies reply metadata onto an inward row.
func (r *RecordRepository) SyncInwardReply(ctx context.Context, sync models.InwardReplySync) error {
	const query = `UPDATE inward_records SET reply_required = $2, reply_sent_date = $3, reply_ref_no = $4,
reply_sent_by = $5, reply_sent_in = $6, reply_count = $7 WHERE s_no = $1`
	res, err := r.db.ExecContext(ctx, query,
		sync.InwardSNo,
		sync.ReplyRequired,
		sync.ReplySentDate,
		sync.ReplyRefNo,
		sync.ReplySentBy,
		string(sync.ReplySentIn),
		sync.ReplyCount,
	)
	if err != nil {
		return fmt.Errorf("sync inward reply: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sync inward reply: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sync inward reply: %w", sql.ErrNoRows)
	}
	return nil
}

// SearchInward lists inward rows whose number starts with prefix.
func (r *RecordRepository) SearchInward(ctx context.Context, prefix string, scope models.RecordScope) ([]models.InwardRecord, error) {
	b := r.sb.Select(inwardColumns).
		From("inward_records").
		Where(sq.Like{"inward_no": escapeLike(prefix) + "%"}).
		OrderBy("inward_no DESC").
		Limit(limitOrDefault(scope.Limit, 10))
	if scope.Group != "" {
		b = b.Where(sq.Eq{"group_name": scope.Group})
	}
	var rows []models.InwardRecord
	if err := r.selectBuilt(ctx, &rows, b); err != nil {
		return nil, fmt.Errorf("search inward records: %w", err)
	}
	return rows, nil
}

// RecentInward lists the newest inward rows.
func (r *RecordRepository) RecentInward(ctx context.Context, scope models.RecordScope) ([]models.InwardRecord, error) {
	b := r.sb.Select(inwardColumns).
		From("inward_records").
		OrderBy("created_at DESC", "s_no DESC").
		Limit(limitOrDefault(scope.Limit, 5))
	if scope.Group != "" {
		b = b.Where(sq.Eq{"group_name": scope.Group})
	}
	var rows []models.InwardRecord
	if err := r.selectBuilt(ctx, &rows, b); err != nil {
		return nil, fmt.Errorf("recent inward records: %w", err)
	}
	return rows, nil
}

// RecentOutward lists the newest outward rows.
func (r *RecordRepository) RecentOutward(ctx context.Context, scope models.RecordScope) ([]models.OutwardRecord, error) {
	b := r.sb.Select(outwardColumns).
		From("outward_records").
		OrderBy("created_at DESC", "s_no DESC").
		Limit(limitOrDefault(scope.Limit, 5))
	if scope.Group != "" {
		b = b.Where(sq.Eq{"group_name": scope.Group})
	}
	var rows []models.OutwardRecord
	if err := r.selectBuilt(ctx, &rows, b); err != nil {
		return nil, fmt.Errorf("recent outward records: %w", err)
	}
	return rows, nil
}

func (r *RecordRepository) selectBuilt(ctx context.Context, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}

func limitOrDefault(limit, def int) uint64 {
	if limit <= 0 || limit > 100 {
		return uint64(def)
	}
	return uint64(limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
