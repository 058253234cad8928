package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/application/inventory"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	"github.com/jhoicas/supply-chain-api/internal/testutil/memrepo"
)

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios y roles
// ──────────────────────────────────────────────────────────────────────────────

func newUserUC(t *testing.T) (*UserUseCase, *memrepo.DB, *entity.Store) {
	t.Helper()
	db := memrepo.New()
	ctx := context.Background()
	require.NoError(t, db.Roles().Create(ctx, &entity.Role{ID: "r-1", Code: entity.RoleInventoryStaff, Name: "Inventario"}))
	require.NoError(t, db.Roles().Create(ctx, &entity.Role{ID: "r-2", Code: entity.RoleStoreManager, Name: "Gerente"}))
	store := &entity.Store{ID: "0b6a3c2e-8f64-4c55-9d1c-3a1f6c5b2e10", Code: "S1", Name: "Centro", IsActive: true}
	require.NoError(t, db.Stores().Create(ctx, store))
	return NewUserUseCase(db.Users(), db.Roles(), db.Stores()), db, store
}

func TestUserCreate(t *testing.T) {
	uc, db, store := newUserUC(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateUserRequest{
		Username: "bodega", Password: "secreta1", FullName: "Luis Bodega",
		RoleCode: entity.RoleInventoryStaff, StoreID: store.ID,
	})
	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Equal(t, store.ID, out.StoreID)

	saved, err := db.Users().GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreta1", saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secreta1")))

	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "bodega", Password: "x12345", FullName: "Otro", RoleCode: entity.RoleInventoryStaff})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Username: "nuevo", Password: "x12345", FullName: "Otro", RoleCode: "CEO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateUserRequest{
		Username: "nuevo", Password: "x12345", FullName: "Otro",
		RoleCode: entity.RoleInventoryStaff, StoreID: "7d0e2a51-1111-4c55-9d1c-3a1f6c5b2e10",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUpdate(t *testing.T) {
	uc, _, _ := newUserUC(t)
	ctx := context.Background()
	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: "ana", Password: "secreta1", FullName: "Ana", RoleCode: entity.RoleInventoryStaff})
	require.NoError(t, err)

	out, err := uc.Update(ctx, u.ID, dto.UpdateUserRequest{RoleCode: ptr(entity.RoleStoreManager), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStoreManager, out.Role)
	assert.False(t, out.IsActive)
	assert.Equal(t, "Ana", out.FullName)

	_, err = uc.Update(ctx, u.ID, dto.UpdateUserRequest{RoleCode: ptr("CEO")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "u-404", dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserList_Paginacion(t *testing.T) {
	uc, _, _ := newUserUC(t)
	ctx := context.Background()
	for _, name := range []string{"carla", "ana", "beto"} {
		_, err := uc.Create(ctx, dto.CreateUserRequest{Username: name, Password: "secreta1", FullName: name, RoleCode: entity.RoleInventoryStaff})
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, dto.PageRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "beto", page.Items[0].Username)
	assert.Equal(t, dto.PageResponse{Limit: 2, Offset: 1}, page.Page)

	def, err := uc.List(ctx, dto.PageRequest{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, dto.MaxLimit, def.Page.Limit)
}

func TestRoles(t *testing.T) {
	uc, _, _ := newUserUC(t)
	ctx := context.Background()

	r, err := uc.CreateRole(ctx, dto.CreateRoleRequest{Code: "AUDITOR", Name: "Auditor"})
	require.NoError(t, err)

	got, err := uc.GetRole(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "AUDITOR", got.Code)

	_, err = uc.CreateRole(ctx, dto.CreateRoleRequest{Code: "AUDITOR", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, "AUDITOR", list[0].Code)

	_, err = uc.GetRole(ctx, "r-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tiendas y proveedores
// ──────────────────────────────────────────────────────────────────────────────

func TestStoreCRUD(t *testing.T) {
	db := memrepo.New()
	uc := NewStoreUseCase(db.Stores())
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.CreateStoreRequest{Code: "S1", Name: "Centro", Location: "Calle 1"})
	require.NoError(t, err)
	assert.True(t, s.IsActive)

	_, err = uc.Create(ctx, dto.CreateStoreRequest{Code: "S1", Name: "Repetida"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	up, err := uc.Update(ctx, s.ID, dto.UpdateStoreRequest{Name: ptr("Centro Histórico")})
	require.NoError(t, err)
	assert.Equal(t, "Centro Histórico", up.Name)
	assert.Equal(t, "Calle 1", up.Location)

	require.NoError(t, uc.Delete(ctx, s.ID))
	got, err := uc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "el borrado es lógico")

	assert.ErrorIs(t, uc.Delete(ctx, "s-404"), domain.ErrNotFound)
}

func TestSupplierCreate_Validaciones(t *testing.T) {
	db := memrepo.New()
	uc := NewSupplierUseCase(db.Suppliers())
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "  Lácteos del Valle ", Phone: "+57 300 123 4567", LeadTimeDays: 3})
	require.NoError(t, err)
	assert.Equal(t, "Lácteos del Valle", s.Name)
	assert.True(t, s.ReliabilityScore.IsZero())

	_, err = uc.Create(ctx, dto.CreateSupplierRequest{Name: "LÁCTEOS DEL VALLE"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el nombre no distingue mayúsculas")

	bad := []dto.CreateSupplierRequest{
		{Name: "X"},
		{Name: "Frigo", Phone: "abc"},
		{Name: "Frigo", LeadTimeDays: -1},
		{Name: "Frigo", ReliabilityScore: ptr(decimal.NewFromInt(101))},
	}
	for _, in := range bad {
		_, err := uc.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, in.Name)
	}
}

func TestSupplierUpdate(t *testing.T) {
	db := memrepo.New()
	uc := NewSupplierUseCase(db.Suppliers())
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Frigo Norte"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateSupplierRequest{Name: "Frigo Sur"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, a.ID, dto.UpdateSupplierRequest{Name: ptr("frigo sur")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	out, err := uc.Update(ctx, a.ID, dto.UpdateSupplierRequest{
		Name: ptr("FRIGO NORTE"), ReliabilityScore: ptr(decimal.NewFromInt(95)),
	})
	require.NoError(t, err)
	assert.Equal(t, "FRIGO NORTE", out.Name, "renombrar el mismo proveedor no es duplicado")
	assert.Equal(t, "95", out.ReliabilityScore.String())

	require.NoError(t, uc.Delete(ctx, a.ID))
	got, err := uc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems y mapeos proveedor-ítem
// ──────────────────────────────────────────────────────────────────────────────

func newItemUC(db *memrepo.DB) *ItemUseCase {
	calc := inventory.NewStockCalculator(db.Batches(), db.Sales(), db.SupplierItems(), db.Suppliers(), 7)
	return NewItemUseCase(db.Items(), calc)
}

func TestItemCreate(t *testing.T) {
	db := memrepo.New()
	uc := newItemUC(db)
	ctx := context.Background()

	it, err := uc.Create(ctx, dto.CreateItemRequest{ItemName: "Leche", SKU: "LEC-1", Unit: "litro", StorageType: entity.StorageCold})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultMinStockLevel, it.MinStockLevel)
	assert.Equal(t, defaultMaxStockLevel, it.MaxStockLevel)

	_, err = uc.Create(ctx, dto.CreateItemRequest{ItemName: "Otra", SKU: "LEC-1", Unit: "litro", StorageType: entity.StorageCold})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateItemRequest{
		ItemName: "Helado", SKU: "HEL-1", Unit: "caja", StorageType: entity.StorageFrozen,
		MinTemperature: ptr(-10.0), MaxTemperature: ptr(-18.0),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateItemRequest{
		ItemName: "Queso", SKU: "QUE-1", Unit: "kg", StorageType: entity.StorageCold,
		MinStockLevel: ptr(50), MaxStockLevel: ptr(20),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUpdateYDelete(t *testing.T) {
	db := memrepo.New()
	uc := newItemUC(db)
	ctx := context.Background()
	it, err := uc.Create(ctx, dto.CreateItemRequest{ItemName: "Leche", SKU: "LEC-1", Unit: "litro", StorageType: entity.StorageCold})
	require.NoError(t, err)

	out, err := uc.Update(ctx, it.ID, dto.UpdateItemRequest{SafetyStock: ptr(30), StorageType: ptr(entity.StorageFrozen)})
	require.NoError(t, err)
	require.NotNil(t, out.SafetyStock)
	assert.Equal(t, 30, *out.SafetyStock)
	assert.Equal(t, "LEC-1", out.SKU)

	_, err = uc.Update(ctx, it.ID, dto.UpdateItemRequest{StorageType: ptr("ambient")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.Delete(ctx, it.ID))
	got, err := uc.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = uc.GetByID(ctx, "i-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStockYSafetyStock(t *testing.T) {
	db := memrepo.New()
	uc := newItemUC(db)
	ctx := context.Background()
	it, err := uc.Create(ctx, dto.CreateItemRequest{
		ItemName: "Leche", SKU: "LEC-1", Unit: "litro", StorageType: entity.StorageCold,
		MinStockLevel: ptr(12),
	})
	require.NoError(t, err)
	for i, qty := range []int{4, 3} {
		require.NoError(t, db.Batches().Create(ctx, &entity.InventoryBatch{
			ID: "b-" + string(rune('a'+i)), ItemID: it.ID, StoreID: "s-" + string(rune('a'+i)),
			BatchNo: "L-1", QuantityOnHand: qty, Status: entity.BatchLowStock,
			ExpiryDate: time.Now().AddDate(0, 1, 0),
		}))
	}

	stock, err := uc.CurrentStock(ctx, it.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 7, stock.CurrentStock)

	one, err := uc.CurrentStock(ctx, it.ID, "s-a")
	require.NoError(t, err)
	assert.Equal(t, 4, one.CurrentStock)

	safety, err := uc.SafetyStock(ctx, it.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 12, safety.SafetyStock, "sin ventas se usa el stock mínimo")
	assert.Equal(t, inventory.SourceMinStock, safety.Source)
	assert.True(t, safety.BelowSafety)
}

func newMappingFixture(t *testing.T) (*SupplierItemUseCase, *memrepo.DB, *entity.Supplier, *entity.Supplier, *entity.Item) {
	t.Helper()
	db := memrepo.New()
	ctx := context.Background()
	a := &entity.Supplier{ID: "sup-a", Name: "Frigo Norte", IsActive: true}
	b := &entity.Supplier{ID: "sup-b", Name: "Frigo Sur", IsActive: true}
	require.NoError(t, db.Suppliers().Create(ctx, a))
	require.NoError(t, db.Suppliers().Create(ctx, b))
	item := &entity.Item{ID: "item-1", ItemName: "Leche", SKU: "LEC-1", StorageType: entity.StorageCold, IsActive: true}
	require.NoError(t, db.Items().Create(ctx, item))
	uc := NewSupplierItemUseCase(db.SupplierItems(), db.Suppliers(), db.Items())
	uc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return uc, db, a, b, item
}

func TestSupplierItemCreate(t *testing.T) {
	uc, _, a, _, item := newMappingFixture(t)
	ctx := context.Background()

	m, err := uc.Create(ctx, dto.CreateSupplierItemRequest{SupplierID: a.ID, ItemID: item.ID, UnitPrice: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, m.Currency)
	assert.Equal(t, 1, m.MinOrderQty)

	_, err = uc.Create(ctx, dto.CreateSupplierItemRequest{SupplierID: a.ID, ItemID: item.ID, UnitPrice: decimal.NewFromInt(9)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateSupplierItemRequest{SupplierID: "sup-404", ItemID: item.ID, UnitPrice: decimal.NewFromInt(9)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateSupplierItemRequest{SupplierID: a.ID, ItemID: "item-404", UnitPrice: decimal.NewFromInt(9)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplierItemCreate_Validaciones(t *testing.T) {
	uc, _, a, _, item := newMappingFixture(t)
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	bad := map[string]dto.CreateSupplierItemRequest{
		"precio cero":        {SupplierID: a.ID, ItemID: item.ID},
		"lead time negativo": {SupplierID: a.ID, ItemID: item.ID, UnitPrice: decimal.NewFromInt(1), LeadTimeDays: -1},
		"vigencia invertida": {SupplierID: a.ID, ItemID: item.ID, UnitPrice: decimal.NewFromInt(1), EffectiveFrom: &from, EffectiveTo: &to},
	}
	for name, in := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSupplierItemBest(t *testing.T) {
	uc, _, a, b, item := newMappingFixture(t)
	ctx := context.Background()

	_, err := uc.Best(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNoSupplierMapping)

	expired := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	ma, err := uc.Create(ctx, dto.CreateSupplierItemRequest{SupplierID: a.ID, ItemID: item.ID, UnitPrice: decimal.NewFromInt(8)})
	require.NoError(t, err)
	mb, err := uc.Create(ctx, dto.CreateSupplierItemRequest{
		SupplierID: b.ID, ItemID: item.ID, UnitPrice: decimal.NewFromInt(5), EffectiveTo: &expired,
	})
	require.NoError(t, err)

	best, err := uc.Best(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, ma.ID, best.ID, "el más barato está fuera de vigencia")

	_, err = uc.Update(ctx, mb.ID, dto.UpdateSupplierItemRequest{EffectiveTo: ptr(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	best, err = uc.Best(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, mb.ID, best.ID, "vigente y más barato")

	_, err = uc.Update(ctx, ma.ID, dto.UpdateSupplierItemRequest{IsPreferred: ptr(true)})
	require.NoError(t, err)
	best, err = uc.Best(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, ma.ID, best.ID, "el preferido gana al precio")

	require.NoError(t, uc.Delete(ctx, ma.ID))
	assert.ErrorIs(t, uc.Delete(ctx, ma.ID), domain.ErrNotFound)
	list, err := uc.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
