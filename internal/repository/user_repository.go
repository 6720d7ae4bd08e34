package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/fitness-tracker/internal/model"
)

const userColumns = "id,email,password_hash,github_id,github_username,first_name,last_name," +
	"date_of_birth,gender,height_cm,weight_kg,role,is_active,email_verified,is_test,created_at,updated_at"

// UserRepo provides access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  The email is normalized to
// lowercase before insert; the unique index maps collisions to
// ErrEmailExists regardless of which caller wins a concurrent race.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	role := u.Role
	if role == "" {
		role = model.RoleUser
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users
			(email, password_hash, github_id, github_username, first_name, last_name,
			 date_of_birth, gender, height_cm, weight_kg, role, is_active, email_verified, is_test)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		email, u.PasswordHash, u.GitHubID, u.GitHubUsername, u.FirstName, u.LastName,
		u.DateOfBirth, u.Gender, u.HeightCm, u.WeightKg, role, u.IsActive, u.EmailVerified, u.IsTest)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByGitHubID fetches a user by linked GitHub account id.
func (r *UserRepo) GetByGitHubID(ctx context.Context, ghID int64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE github_id=? LIMIT 1", ghID)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.GitHubID, &u.GitHubUsername,
		&u.FirstName, &u.LastName, &u.DateOfBirth, &u.Gender, &u.HeightCm, &u.WeightKg,
		&u.Role, &u.IsActive, &u.EmailVerified, &u.IsTest, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// LinkGitHub attaches a GitHub identity to an existing account.  Used when
// a federated login resolves to an account created by password with the
// same email.
func (r *UserRepo) LinkGitHub(ctx context.Context, userID uint64, ghID int64, login string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET github_id=?, github_username=?, updated_at=NOW() WHERE id=?",
		ghID, login, userID)
	if isDuplicateKey(err) {
		// github_id already linked elsewhere; the caller re-resolves by id.
		return ErrEmailExists
	}
	return err
}

// UpdateProfile persists email and profile fields of u.  Role, activity and
// credential columns are intentionally not touched here.
func (r *UserRepo) UpdateProfile(ctx context.Context, u model.User) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email=?, first_name=?, last_name=?, date_of_birth=?, gender=?,
			height_cm=?, weight_kg=?, updated_at=NOW() WHERE id=?`,
		email, u.FirstName, u.LastName, u.DateOfBirth, u.Gender, u.HeightCm, u.WeightKg, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero affected rows may also mean a no-op update; confirm existence.
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateRole sets the role column for a user.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=NOW() WHERE id=?", role, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a user row.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PublicUserRow is the public-safe projection returned when listing users.
// Listing is open to any authenticated caller, so only non-sensitive fields
// are selected at the query level.
type PublicUserRow struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Gender    string    `json:"gender"`
	IsTest    bool      `json:"isTest"`
	CreatedAt time.Time `json:"createdAt"`
}

// List returns one page of the public user projection plus the total count.
func (r *UserRepo) List(ctx context.Context, page, pageSize int) ([]PublicUserRow, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := pageSize
	offset := (page - 1) * pageSize
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, first_name, last_name, gender, is_test, created_at
		 FROM users ORDER BY id ASC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicUserRow, 0, limit)
	for rows.Next() {
		var p PublicUserRow
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Gender, &p.IsTest, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
