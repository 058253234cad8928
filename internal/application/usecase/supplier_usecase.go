package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

var maxReliability = decimal.NewFromInt(100)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor con nombre único (sin distinguir mayúsculas).
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateSupplierFields(name, in.Phone, in.LeadTimeDays, in.ReliabilityScore); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	reliability := decimal.Zero
	if in.ReliabilityScore != nil {
		reliability = *in.ReliabilityScore
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:               uuid.New().String(),
		Name:             name,
		ContactPerson:    in.ContactPerson,
		Email:            in.Email,
		Phone:            in.Phone,
		Address:          in.Address,
		LeadTimeDays:     in.LeadTimeDays,
		ReliabilityScore: reliability,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// Update actualiza los campos enviados.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !strings.EqualFold(name, s.Name) {
			other, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != s.ID {
				return nil, domain.ErrDuplicate
			}
		}
		s.Name = name
	}
	if in.ContactPerson != nil {
		s.ContactPerson = *in.ContactPerson
	}
	if in.Email != nil {
		s.Email = *in.Email
	}
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.Address != nil {
		s.Address = *in.Address
	}
	if in.LeadTimeDays != nil {
		s.LeadTimeDays = *in.LeadTimeDays
	}
	if in.ReliabilityScore != nil {
		s.ReliabilityScore = *in.ReliabilityScore
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if err := validateSupplierFields(s.Name, s.Phone, s.LeadTimeDays, &s.ReliabilityScore); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores con paginación.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete desactiva el proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	s.IsActive = false
	s.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, s)
}

func validateSupplierFields(name, phone string, leadTime int, reliability *decimal.Decimal) error {
	if len([]rune(name)) < 2 {
		return fmt.Errorf("%w: el nombre debe tener al menos 2 caracteres", domain.ErrInvalidInput)
	}
	if phone != "" && !entity.PhonePattern.MatchString(phone) {
		return fmt.Errorf("%w: teléfono con formato inválido", domain.ErrInvalidInput)
	}
	if leadTime < 0 {
		return fmt.Errorf("%w: lead_time_days no puede ser negativo", domain.ErrInvalidInput)
	}
	if reliability != nil && (reliability.IsNegative() || reliability.GreaterThan(maxReliability)) {
		return fmt.Errorf("%w: reliability_score debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:               s.ID,
		Name:             s.Name,
		ContactPerson:    s.ContactPerson,
		Email:            s.Email,
		Phone:            s.Phone,
		Address:          s.Address,
		LeadTimeDays:     s.LeadTimeDays,
		ReliabilityScore: s.ReliabilityScore,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
