package entity

import "context"


const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleMarketer = "marketer"
	RoleBDSales  = "bd_sales"
)


type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}


type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*User, error)

	// EligibleIDs retorna os ids dos usuários ativos de um papel, ordenados
	// por id. A ordem estável é o que dá sentido ao cursor do round-robin.
	EligibleIDs(ctx context.Context, role string) ([]string, error)
}
