package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios y roles.
type UserUseCase struct {
	repo   repository.UserRepository
	roles  repository.RoleRepository
	stores repository.StoreRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, roles repository.RoleRepository, stores repository.StoreRepository) *UserUseCase {
	return &UserUseCase{repo: repo, roles: roles, stores: stores}
}

// Create crea un usuario: username único, rol existente, tienda existente si se indica.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	existing, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkRole(ctx, in.RoleCode); err != nil {
		return nil, err
	}
	if err := uc.checkStore(ctx, in.StoreID); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.RoleCode,
		StoreID:      in.StoreID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return entityToUserResponse(user), nil
}

// Update modifica nombre, rol, tienda, estado y opcionalmente el password.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.RoleCode != nil {
		if err := uc.checkRole(ctx, *in.RoleCode); err != nil {
			return nil, err
		}
		user.Role = *in.RoleCode
	}
	if in.StoreID != nil {
		if err := uc.checkStore(ctx, *in.StoreID); err != nil {
			return nil, err
		}
		user.StoreID = *in.StoreID
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *entityToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListRoles devuelve todos los roles.
func (uc *UserUseCase) ListRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRoleResponse(r))
	}
	return out, nil
}

// GetRole obtiene un rol por ID.
func (uc *UserUseCase) GetRole(ctx context.Context, id string) (*dto.RoleResponse, error) {
	role, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	out := toRoleResponse(role)
	return &out, nil
}

// CreateRole crea un rol con código único.
func (uc *UserUseCase) CreateRole(ctx context.Context, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	existing, err := uc.roles.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	role := &entity.Role{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	out := toRoleResponse(role)
	return &out, nil
}

func (uc *UserUseCase) checkRole(ctx context.Context, code string) error {
	role, err := uc.roles.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("%w: rol %q no existe", domain.ErrInvalidInput, code)
	}
	return nil
}

func (uc *UserUseCase) checkStore(ctx context.Context, storeID string) error {
	if storeID == "" {
		return nil
	}
	store, err := uc.stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("%w: tienda %s no existe", domain.ErrInvalidInput, storeID)
	}
	return nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		StoreID:   u.StoreID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toRoleResponse(r *entity.Role) dto.RoleResponse {
	return dto.RoleResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}
