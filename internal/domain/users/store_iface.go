package users

import "context"

type StoreAPI interface {
	CreateUser(ctx context.Context, in NewUser) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListDirectReports(ctx context.Context, managerID string) ([]User, error)
	UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (User, error)
	UpdateAssignment(ctx context.Context, id string, assignment Assignment) (User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}
