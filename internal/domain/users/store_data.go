package users

import (
	"context"

	"github.com/jackc/pgx/v5"

	"appraisal/internal/apperror"
)

const userColumns = `
    u.id, u.email, u.name, u.password_hash, u.role, u.department,
    COALESCE(u.manager_id::text, ''), COALESCE(m.name, ''), COALESCE(u.profile_picture, ''),
    u.created_at, u.updated_at
  `

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &user.Department,
		&user.ManagerID, &user.ManagerName, &user.ProfilePicture, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (s *Store) CreateUser(ctx context.Context, in NewUser) (User, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, name, password_hash, role, department, manager_id)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, in.Email, in.Name, in.PasswordHash, string(in.Role), in.Department, nullIfEmpty(in.ManagerID)).Scan(&id)
	if err != nil {
		return User{}, translate(err, "create user")
	}
	return s.UserByID(ctx, id)
}

func (s *Store) UserByID(ctx context.Context, id string) (User, error) {
	user, err := scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users u
    LEFT JOIN users m ON m.id = u.manager_id
    WHERE u.id::text = $1
  `, id))
	if err != nil {
		return User{}, translate(err, "load user")
	}
	return user, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	user, err := scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users u
    LEFT JOIN users m ON m.id = u.manager_id
    WHERE u.email = $1
  `, email))
	if err != nil {
		return User{}, translate(err, "load user by email")
	}
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	return s.listUsers(ctx, "", nil)
}

func (s *Store) ListDirectReports(ctx context.Context, managerID string) ([]User, error) {
	return s.listUsers(ctx, "WHERE u.manager_id::text = $1", []any{managerID})
}

func (s *Store) listUsers(ctx context.Context, where string, args []any) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users u
    LEFT JOIN users m ON m.id = u.manager_id
    `+where+`
    ORDER BY u.created_at
  `, args...)
	if err != nil {
		return nil, translate(err, "list users")
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, translate(err, "scan user")
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list users")
	}
	return out, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (User, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET name = COALESCE(NULLIF($2, ''), name),
        department = COALESCE(NULLIF($3, ''), department),
        profile_picture = COALESCE(NULLIF($4, ''), profile_picture),
        password_hash = COALESCE(NULLIF($5, ''), password_hash),
        updated_at = now()
    WHERE id::text = $1
  `, id, changes.Name, changes.Department, changes.ProfilePicture, changes.PasswordHash)
	if err != nil {
		return User{}, translate(err, "update profile")
	}
	if tag.RowsAffected() == 0 {
		return User{}, apperror.NotFound("user")
	}
	return s.UserByID(ctx, id)
}

func (s *Store) UpdateAssignment(ctx context.Context, id string, assignment Assignment) (User, error) {
	setManager := assignment.ManagerID != nil
	var managerID any
	if setManager {
		managerID = nullIfEmpty(*assignment.ManagerID)
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET role = COALESCE(NULLIF($2, ''), role),
        manager_id = CASE WHEN $3 THEN $4::uuid ELSE manager_id END,
        updated_at = now()
    WHERE id::text = $1
  `, id, string(assignment.Role), setManager, managerID)
	if err != nil {
		return User{}, translate(err, "update user assignment")
	}
	if tag.RowsAffected() == 0 {
		return User{}, apperror.NotFound("user")
	}
	return s.UserByID(ctx, id)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id::text = $1", id)
	if err != nil {
		return translate(err, "delete user")
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users").Scan(&total); err != nil {
		return 0, translate(err, "count users")
	}
	return total, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
