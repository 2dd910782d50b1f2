package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/rajbhasha-api/internal/models"
)

const userColumns = `id, name, email, mobile, password_hash, role, group_name, active, created_at, updated_at`

var userSortColumns = map[string]bool{
	"name":       true,
	"email":      true,
	"group_name": true,
	"created_at": true,
	"updated_at": true,
}

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// FindByEmail returns a user by email address. Matching ignores case.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `INSERT INTO users (` + userColumns + `) VALUES (:id, :name, :email, :mobile, :password_hash, :role, :group_name, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// List returns one page of users matching filter and the total match count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	where := sq.And{}
	if filter.Role != nil {
		where = append(where, sq.Eq{"role": string(*filter.Role)})
	}
	if filter.Active != nil {
		where = append(where, sq.Eq{"active": *filter.Active})
	}
	if filter.Group != "" {
		where = append(where, sq.Eq{"group_name": filter.Group})
	}
	if filter.Search != "" {
		term := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		where = append(where, sq.Or{sq.Like{"LOWER(email)": term}, sq.Like{"LOWER(name)": term}})
	}

	sortBy := filter.SortBy
	if !userSortColumns[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	listQuery, args, err := r.sb.Select(userColumns).From("users").Where(where).
		OrderBy(sortBy + " " + sortOrder).
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users: %w", err)
	}
	users := make([]models.User, 0)
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery, args, err := r.sb.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count users: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// Update writes the editable account fields. The password is not touched.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now().UTC()
	}
	const query = `UPDATE users SET name = :name, email = :email, mobile = :mobile, role = :role,
group_name = :group_name, active = :active, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete deactivates an account. Records keep pointing at it.
func (r *UserRepository) Delete(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountAdmins returns the number of active admin accounts.
func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role = $1 AND active = TRUE`
	var n int
	if err := r.db.GetContext(ctx, &n, query, models.RoleAdmin); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// ListGroups returns the distinct non-empty group names, sorted.
func (r *UserRepository) ListGroups(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT group_name FROM users WHERE group_name <> '' ORDER BY group_name ASC`
	groups := make([]string, 0)
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}
