// Package memrepo implementa los puertos de persistencia en memoria para los tests de casos de uso.
// Las entidades se guardan por valor: quien lee recibe una copia y sólo Update cambia el estado.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/supply-chain-api/internal/application/ports"
	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
	domainproc "github.com/jhoicas/supply-chain-api/internal/domain/procurement"
	"github.com/jhoicas/supply-chain-api/internal/domain/repository"
)

// DB conjunto de tablas en memoria.
type DB struct {
	mu sync.Mutex

	users         map[string]entity.User
	roles         map[string]entity.Role
	stores        map[string]entity.Store
	suppliers     map[string]entity.Supplier
	supplierItems map[string]entity.SupplierItem
	items         map[string]entity.Item
	batches       map[string]entity.InventoryBatch
	transactions  map[string]entity.InventoryTransaction
	sales         map[string]entity.SalesTransaction
	requests      map[string]entity.StockRequest
	orders        map[string]entity.PurchaseOrder
	deletedOrders map[string]bool
	receipts      map[string]entity.GoodsReceipt
	deletedGRNs   map[string]bool
	tempLogs      []entity.TemperatureLog

	poSeq int64
	// seq desempata created_at iguales al ordenar.
	seq   int64
	order map[string]int64
}

// New crea una base vacía.
func New() *DB {
	return &DB{
		users:         map[string]entity.User{},
		roles:         map[string]entity.Role{},
		stores:        map[string]entity.Store{},
		suppliers:     map[string]entity.Supplier{},
		supplierItems: map[string]entity.SupplierItem{},
		items:         map[string]entity.Item{},
		batches:       map[string]entity.InventoryBatch{},
		transactions:  map[string]entity.InventoryTransaction{},
		sales:         map[string]entity.SalesTransaction{},
		requests:      map[string]entity.StockRequest{},
		orders:        map[string]entity.PurchaseOrder{},
		deletedOrders: map[string]bool{},
		receipts:      map[string]entity.GoodsReceipt{},
		deletedGRNs:   map[string]bool{},
		order:         map[string]int64{},
	}
}

func (db *DB) track(id string) {
	db.seq++
	db.order[id] = db.seq
}

// before ordena por created_at y, a igual fecha, por orden de inserción.
func (db *DB) before(aID string, a time.Time, bID string, b time.Time) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return db.order[aID] < db.order[bID]
}

func window[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return []T{}
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// Repos repositorios sobre esta base.
func (db *DB) Repos() ports.TxRepos {
	return ports.TxRepos{
		Items:          db.Items(),
		Stores:         db.Stores(),
		SupplierItems:  db.SupplierItems(),
		Batches:        db.Batches(),
		Transactions:   db.Transactions(),
		StockRequests:  db.StockRequests(),
		PurchaseOrders: db.PurchaseOrders(),
		GoodsReceipts:  db.GoodsReceipts(),
		Sales:          db.Sales(),
		TempLogs:       db.TemperatureLogs(),
	}
}

// TxRunner ejecuta fn sobre la base y restaura la foto previa si fn falla.
type TxRunner struct {
	db *DB
	// Runs cantidad de transacciones iniciadas.
	Runs int
}

// TxRunner devuelve el runner transaccional de la base.
func (db *DB) TxRunner() *TxRunner { return &TxRunner{db: db} }

// Run implementa ports.TxRunner.
func (t *TxRunner) Run(_ context.Context, fn func(r ports.TxRepos) error) error {
	t.Runs++
	snap := t.db.snapshot()
	if err := fn(t.db.Repos()); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	batches       map[string]entity.InventoryBatch
	transactions  map[string]entity.InventoryTransaction
	sales         map[string]entity.SalesTransaction
	requests      map[string]entity.StockRequest
	orders        map[string]entity.PurchaseOrder
	deletedOrders map[string]bool
	receipts      map[string]entity.GoodsReceipt
	items         map[string]entity.Item
	supplierItems map[string]entity.SupplierItem
	tempLogs      []entity.TemperatureLog
	poSeq         int64
}

func clone[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *DB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	orders := make(map[string]entity.PurchaseOrder, len(db.orders))
	for k, v := range db.orders {
		orders[k] = copyPO(v)
	}
	return snapshot{
		batches:       clone(db.batches),
		transactions:  clone(db.transactions),
		sales:         clone(db.sales),
		requests:      clone(db.requests),
		orders:        orders,
		deletedOrders: clone(db.deletedOrders),
		receipts:      clone(db.receipts),
		items:         clone(db.items),
		supplierItems: clone(db.supplierItems),
		tempLogs:      append([]entity.TemperatureLog(nil), db.tempLogs...),
		poSeq:         db.poSeq,
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.batches = s.batches
	db.transactions = s.transactions
	db.sales = s.sales
	db.requests = s.requests
	db.orders = s.orders
	db.deletedOrders = s.deletedOrders
	db.receipts = s.receipts
	db.items = s.items
	db.supplierItems = s.supplierItems
	db.tempLogs = s.tempLogs
	db.poSeq = s.poSeq
}

// ── Users / Roles ─────────────────────────────────────────────────────────────

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ db *DB }

// Users repositorio de usuarios.
func (db *DB) Users() *UserRepo { return &UserRepo{db} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	r.db.users[u.ID] = *u
	r.db.track(u.ID)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.users[u.ID] = *u
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return window(out, limit, offset), nil
}

// RoleRepo implementa repository.RoleRepository.
type RoleRepo struct{ db *DB }

// Roles repositorio de roles.
func (db *DB) Roles() *RoleRepo { return &RoleRepo{db} }

func (r *RoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.roles[role.ID] = *role
	return nil
}

func (r *RoleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	role, ok := r.db.roles[id]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (r *RoleRepo) GetByCode(_ context.Context, code string) (*entity.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, role := range r.db.roles {
		if role.Code == code {
			return &role, nil
		}
	}
	return nil, nil
}

func (r *RoleRepo) List(_ context.Context) ([]*entity.Role, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.Role, 0, len(r.db.roles))
	for _, role := range r.db.roles {
		role := role
		out = append(out, &role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ── Stores ────────────────────────────────────────────────────────────────────

// StoreRepo implementa repository.StoreRepository.
type StoreRepo struct{ db *DB }

// Stores repositorio de tiendas.
func (db *DB) Stores() *StoreRepo { return &StoreRepo{db} }

func (r *StoreRepo) Create(_ context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.stores[s.ID] = *s
	r.db.track(s.ID)
	return nil
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *StoreRepo) GetByCode(_ context.Context, code string) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.stores {
		if s.Code == code {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *StoreRepo) Update(_ context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.stores[s.ID] = *s
	return nil
}

func (r *StoreRepo) List(_ context.Context, limit, offset int) ([]*entity.Store, error) {
	return window(r.all(false), limit, offset), nil
}

func (r *StoreRepo) ListActive(_ context.Context) ([]*entity.Store, error) {
	return r.all(true), nil
}

func (r *StoreRepo) all(activeOnly bool) []*entity.Store {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Store{}
	for _, s := range r.db.stores {
		if activeOnly && !s.IsActive {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

// SupplierRepo implementa repository.SupplierRepository.
type SupplierRepo struct{ db *DB }

// Suppliers repositorio de proveedores.
func (db *DB) Suppliers() *SupplierRepo { return &SupplierRepo{db} }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.suppliers[s.ID] = *s
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SupplierRepo) GetByName(_ context.Context, name string) (*entity.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.suppliers {
		if strings.EqualFold(s.Name, name) {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.suppliers[s.ID] = *s
	return nil
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Supplier{}
	for _, s := range r.db.suppliers {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return window(out, limit, offset), nil
}

// SupplierItemRepo implementa repository.SupplierItemRepository.
type SupplierItemRepo struct{ db *DB }

// SupplierItems repositorio de mapeos proveedor-ítem.
func (db *DB) SupplierItems() *SupplierItemRepo { return &SupplierItemRepo{db} }

func (r *SupplierItemRepo) Create(_ context.Context, m *entity.SupplierItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.supplierItems {
		if existing.SupplierID == m.SupplierID && existing.ItemID == m.ItemID {
			return domain.ErrDuplicate
		}
	}
	r.db.supplierItems[m.ID] = *m
	return nil
}

func (r *SupplierItemRepo) GetByID(_ context.Context, id string) (*entity.SupplierItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.supplierItems[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *SupplierItemRepo) GetBySupplierAndItem(_ context.Context, supplierID, itemID string) (*entity.SupplierItem, error) {
	list := r.filter(func(m entity.SupplierItem) bool { return m.SupplierID == supplierID && m.ItemID == itemID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *SupplierItemRepo) Update(_ context.Context, m *entity.SupplierItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.supplierItems[m.ID] = *m
	return nil
}

func (r *SupplierItemRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.supplierItems[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.supplierItems, id)
	return nil
}

func (r *SupplierItemRepo) ListByItem(_ context.Context, itemID string) ([]*entity.SupplierItem, error) {
	return r.filter(func(m entity.SupplierItem) bool { return m.ItemID == itemID }), nil
}

func (r *SupplierItemRepo) ListBySupplier(_ context.Context, supplierID string) ([]*entity.SupplierItem, error) {
	return r.filter(func(m entity.SupplierItem) bool { return m.SupplierID == supplierID }), nil
}

func (r *SupplierItemRepo) ListByItems(_ context.Context, itemIDs []string) ([]*entity.SupplierItem, error) {
	set := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		set[id] = true
	}
	return r.filter(func(m entity.SupplierItem) bool { return set[m.ItemID] }), nil
}

// filter preferidos primero y luego por precio, como la consulta SQL.
func (r *SupplierItemRepo) filter(keep func(entity.SupplierItem) bool) []*entity.SupplierItem {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.SupplierItem{}
	for _, m := range r.db.supplierItems {
		if keep(m) {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPreferred != out[j].IsPreferred {
			return out[i].IsPreferred
		}
		if !out[i].UnitPrice.Equal(out[j].UnitPrice) {
			return out[i].UnitPrice.LessThan(out[j].UnitPrice)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ── Items ─────────────────────────────────────────────────────────────────────

// ItemRepo implementa repository.ItemRepository.
type ItemRepo struct{ db *DB }

// Items repositorio de ítems.
func (db *DB) Items() *ItemRepo { return &ItemRepo{db} }

func (r *ItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.items {
		if existing.SKU == it.SKU {
			return domain.ErrDuplicate
		}
	}
	r.db.items[it.ID] = *it
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	it, ok := r.db.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *ItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, it := range r.db.items {
		if it.SKU == sku {
			return &it, nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) Update(_ context.Context, it *entity.Item) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.items[it.ID] = *it
	return nil
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	search := strings.ToLower(f.Search)
	out := r.filter(func(it entity.Item) bool {
		if f.ActiveOnly && !it.IsActive {
			return false
		}
		if f.Category != "" && it.Category != f.Category {
			return false
		}
		if f.StorageType != "" && it.StorageType != f.StorageType {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(it.ItemName), search) && !strings.Contains(strings.ToLower(it.SKU), search) {
			return false
		}
		return true
	})
	return window(out, f.Limit, f.Offset), nil
}

func (r *ItemRepo) ListActive(_ context.Context) ([]*entity.Item, error) {
	return r.filter(func(it entity.Item) bool { return it.IsActive }), nil
}

func (r *ItemRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[string]*entity.Item, len(ids))
	for _, id := range ids {
		if it, ok := r.db.items[id]; ok {
			it := it
			out[id] = &it
		}
	}
	return out, nil
}

func (r *ItemRepo) filter(keep func(entity.Item) bool) []*entity.Item {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Item{}
	for _, it := range r.db.items {
		if keep(it) {
			it := it
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out
}

// ── Inventory batches ─────────────────────────────────────────────────────────

// BatchRepo implementa repository.InventoryBatchRepository.
type BatchRepo struct{ db *DB }

// Batches repositorio de lotes.
func (db *DB) Batches() *BatchRepo { return &BatchRepo{db} }

func (r *BatchRepo) Create(_ context.Context, b *entity.InventoryBatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.batches {
		if existing.StoreID == b.StoreID && existing.BatchNo == b.BatchNo {
			return domain.ErrDuplicate
		}
	}
	r.db.batches[b.ID] = *b
	r.db.track(b.ID)
	return nil
}

func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.InventoryBatch, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryBatch, error) {
	return r.GetByID(ctx, id)
}

func (r *BatchRepo) FindByStoreAndBatchNo(_ context.Context, storeID, batchNo string) (*entity.InventoryBatch, error) {
	list := r.filter(func(b entity.InventoryBatch) bool { return b.StoreID == storeID && b.BatchNo == batchNo }, false)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *BatchRepo) FindForUpdate(_ context.Context, storeID, itemID, batchNo string) (*entity.InventoryBatch, error) {
	list := r.filter(func(b entity.InventoryBatch) bool {
		return b.StoreID == storeID && b.ItemID == itemID && b.BatchNo == batchNo
	}, false)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *BatchRepo) Update(_ context.Context, b *entity.InventoryBatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.batches[b.ID] = *b
	return nil
}

func (r *BatchRepo) UpdateTemperature(_ context.Context, id string, temperature float64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	t := temperature
	b.Temperature = &t
	r.db.batches[id] = b
	return nil
}

// Delete falla con ErrConflict si el lote tiene movimientos, como la FK en Postgres.
func (r *BatchRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.batches[id]; !ok {
		return domain.ErrNotFound
	}
	for _, tx := range r.db.transactions {
		if tx.BatchID == id {
			return fmt.Errorf("%w: el lote tiene movimientos", domain.ErrConflict)
		}
	}
	delete(r.db.batches, id)
	return nil
}

func (r *BatchRepo) List(_ context.Context, f repository.BatchFilter) ([]*entity.InventoryBatch, error) {
	out := r.filter(func(b entity.InventoryBatch) bool {
		if f.ItemID != "" && b.ItemID != f.ItemID {
			return false
		}
		if f.StoreID != "" && b.StoreID != f.StoreID {
			return false
		}
		return len(f.Statuses) == 0 || contains(f.Statuses, b.Status)
	}, true)
	return window(out, f.Limit, f.Offset), nil
}

func (r *BatchRepo) ListSellableForUpdate(_ context.Context, itemID, storeID string) ([]*entity.InventoryBatch, error) {
	out := r.filter(func(b entity.InventoryBatch) bool {
		return b.ItemID == itemID && b.StoreID == storeID && b.QuantityOnHand > 0 &&
			(b.Status == entity.BatchInStock || b.Status == entity.BatchLowStock)
	}, false)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate)
		}
		return r.db.before(out[i].ID, out[i].CreatedAt, out[j].ID, out[j].CreatedAt)
	})
	return out, nil
}

func (r *BatchRepo) SumOnHand(_ context.Context, itemID, storeID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	total := 0
	for _, b := range r.db.batches {
		if b.ItemID == itemID && (storeID == "" || b.StoreID == storeID) {
			total += b.QuantityOnHand
		}
	}
	return total, nil
}

// filter con newest=true ordena por created_at descendente.
func (r *BatchRepo) filter(keep func(entity.InventoryBatch) bool, newest bool) []*entity.InventoryBatch {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.InventoryBatch{}
	for _, b := range r.db.batches {
		if keep(b) {
			b := b
			out = append(out, &b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		older := r.db.before(out[i].ID, out[i].CreatedAt, out[j].ID, out[j].CreatedAt)
		if newest {
			return !older
		}
		return older
	})
	return out
}

// ── Inventory transactions ────────────────────────────────────────────────────

// TransactionRepo implementa repository.InventoryTransactionRepository.
type TransactionRepo struct{ db *DB }

// Transactions repositorio del kardex.
func (db *DB) Transactions() *TransactionRepo { return &TransactionRepo{db} }

func (r *TransactionRepo) Create(_ context.Context, tx *entity.InventoryTransaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.transactions[tx.ID] = *tx
	r.db.track(tx.ID)
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id string) (*entity.InventoryTransaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	tx, ok := r.db.transactions[id]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.InventoryTransaction{}
	for _, tx := range r.db.transactions {
		switch {
		case f.ItemID != "" && tx.ItemID != f.ItemID,
			f.BatchID != "" && tx.BatchID != f.BatchID,
			f.Type != "" && tx.Type != f.Type,
			f.ReferenceType != "" && tx.ReferenceType != f.ReferenceType,
			f.ReferenceID != "" && tx.ReferenceID != f.ReferenceID:
			continue
		}
		tx := tx
		out = append(out, &tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.db.before(out[j].ID, out[j].CreatedAt, out[i].ID, out[i].CreatedAt)
	})
	return window(out, f.Limit, f.Offset), nil
}

// All devuelve todos los movimientos en orden de inserción.
func (r *TransactionRepo) All() []entity.InventoryTransaction {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]entity.InventoryTransaction, 0, len(r.db.transactions))
	for _, tx := range r.db.transactions {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return r.db.order[out[i].ID] < r.db.order[out[j].ID] })
	return out
}

// ── Sales ─────────────────────────────────────────────────────────────────────

// SalesRepo implementa repository.SalesRepository.
type SalesRepo struct{ db *DB }

// Sales repositorio de ventas.
func (db *DB) Sales() *SalesRepo { return &SalesRepo{db} }

func (r *SalesRepo) Create(_ context.Context, s *entity.SalesTransaction) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sales[s.ID] = *s
	r.db.track(s.ID)
	return nil
}

func (r *SalesRepo) GetByID(_ context.Context, id string) (*entity.SalesTransaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SalesRepo) List(_ context.Context, f repository.SalesFilter) ([]*entity.SalesTransaction, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.SalesTransaction{}
	for _, s := range r.db.sales {
		if !inSaleFilter(s, f.StoreID, f.ItemID, f.From, f.To) {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return window(out, f.Limit, f.Offset), nil
}

func (r *SalesRepo) DemandSince(_ context.Context, itemID, storeID string, since time.Time) (repository.Demand, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var d repository.Demand
	for _, s := range r.db.sales {
		if inSaleFilter(s, storeID, itemID, &since, nil) {
			d.Quantity += s.Quantity
			d.Count++
		}
	}
	return d, nil
}

func inSaleFilter(s entity.SalesTransaction, storeID, itemID string, from, to *time.Time) bool {
	switch {
	case storeID != "" && s.StoreID != storeID,
		itemID != "" && s.ItemID != itemID,
		from != nil && s.SaleDate.Before(*from),
		to != nil && s.SaleDate.After(*to):
		return false
	}
	return true
}

// ── Stock requests ────────────────────────────────────────────────────────────

// StockRequestRepo implementa repository.StockRequestRepository.
type StockRequestRepo struct{ db *DB }

// StockRequests repositorio de solicitudes.
func (db *DB) StockRequests() *StockRequestRepo { return &StockRequestRepo{db} }

func (r *StockRequestRepo) Create(_ context.Context, sr *entity.StockRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.requests[sr.ID] = *sr
	r.db.track(sr.ID)
	return nil
}

func (r *StockRequestRepo) GetByID(_ context.Context, id string) (*entity.StockRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	sr, ok := r.db.requests[id]
	if !ok {
		return nil, nil
	}
	return &sr, nil
}

func (r *StockRequestRepo) Update(_ context.Context, sr *entity.StockRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.requests[sr.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.requests[sr.ID] = *sr
	return nil
}

func (r *StockRequestRepo) List(_ context.Context, f repository.StockRequestFilter) ([]*entity.StockRequest, error) {
	out := r.filter(func(sr entity.StockRequest) bool {
		return (f.Status == "" || sr.Status == f.Status) &&
			(f.StoreID == "" || sr.StoreID == f.StoreID) &&
			(f.ItemID == "" || sr.ItemID == f.ItemID)
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return window(out, f.Limit, f.Offset), nil
}

func (r *StockRequestRepo) ListByIDsForUpdate(_ context.Context, ids []string) ([]*entity.StockRequest, error) {
	return r.filter(func(sr entity.StockRequest) bool { return contains(ids, sr.ID) }), nil
}

func (r *StockRequestRepo) ListOpenForUpdate(_ context.Context, storeID string) ([]*entity.StockRequest, error) {
	return r.filter(func(sr entity.StockRequest) bool {
		return sr.Status == entity.StockRequestRequested && (storeID == "" || sr.StoreID == storeID)
	}), nil
}

func (r *StockRequestRepo) ExistsOpen(_ context.Context, storeID, itemID string) (bool, error) {
	list := r.filter(func(sr entity.StockRequest) bool {
		return sr.Status == entity.StockRequestRequested && sr.StoreID == storeID && sr.ItemID == itemID
	})
	return len(list) > 0, nil
}

func (r *StockRequestRepo) CountOpen(_ context.Context) (int, error) {
	return len(r.filter(func(sr entity.StockRequest) bool { return sr.Status == entity.StockRequestRequested })), nil
}

// filter en orden de creación ascendente.
func (r *StockRequestRepo) filter(keep func(entity.StockRequest) bool) []*entity.StockRequest {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.StockRequest{}
	for _, sr := range r.db.requests {
		if keep(sr) {
			sr := sr
			out = append(out, &sr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.db.before(out[i].ID, out[i].CreatedAt, out[j].ID, out[j].CreatedAt)
	})
	return out
}

// ── Purchase orders ───────────────────────────────────────────────────────────

// PurchaseOrderRepo implementa repository.PurchaseOrderRepository.
type PurchaseOrderRepo struct{ db *DB }

// PurchaseOrders repositorio de órdenes de compra.
func (db *DB) PurchaseOrders() *PurchaseOrderRepo { return &PurchaseOrderRepo{db} }

func copyPO(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	return po
}

func (r *PurchaseOrderRepo) NextNumber(_ context.Context) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.poSeq++
	return domainproc.FormatPONumber(r.db.poSeq), nil
}

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.orders[po.ID] = copyPO(*po)
	r.db.track(po.ID)
	return nil
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	po, ok := r.db.orders[id]
	if !ok || r.db.deletedOrders[id] {
		return nil, nil
	}
	po = copyPO(po)
	return &po, nil
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

// Update sólo cambia la cabecera; las líneas guardadas se conservan.
func (r *PurchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.orders[po.ID]
	if !ok || r.db.deletedOrders[po.ID] {
		return domain.ErrNotFound
	}
	updated := copyPO(*po)
	updated.Items = stored.Items
	r.db.orders[po.ID] = updated
	return nil
}

func (r *PurchaseOrderRepo) SoftDelete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.orders[id]; !ok || r.db.deletedOrders[id] {
		return domain.ErrNotFound
	}
	r.db.deletedOrders[id] = true
	return nil
}

func (r *PurchaseOrderRepo) List(_ context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	out := r.filter(func(po entity.PurchaseOrder) bool {
		return (f.Status == "" || po.Status == f.Status) &&
			(f.SupplierID == "" || po.SupplierID == f.SupplierID) &&
			(f.StoreID == "" || po.StoreID == f.StoreID)
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return window(out, f.Limit, f.Offset), nil
}

func (r *PurchaseOrderRepo) ListPendingApproval(_ context.Context) ([]*entity.PurchaseOrder, error) {
	return r.filter(func(po entity.PurchaseOrder) bool { return po.Status == entity.POStatusPendingApproval }), nil
}

func (r *PurchaseOrderRepo) CountByStatus(_ context.Context, status string) (int, error) {
	return len(r.filter(func(po entity.PurchaseOrder) bool { return po.Status == status })), nil
}

// filter en orden de creación ascendente, sin las eliminadas.
func (r *PurchaseOrderRepo) filter(keep func(entity.PurchaseOrder) bool) []*entity.PurchaseOrder {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.PurchaseOrder{}
	for id, po := range r.db.orders {
		if r.db.deletedOrders[id] || !keep(po) {
			continue
		}
		po := copyPO(po)
		out = append(out, &po)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.db.before(out[i].ID, out[i].CreatedAt, out[j].ID, out[j].CreatedAt)
	})
	return out
}

// ── Goods receipts ────────────────────────────────────────────────────────────

// GoodsReceiptRepo implementa repository.GoodsReceiptRepository.
type GoodsReceiptRepo struct{ db *DB }

// GoodsReceipts repositorio de recepciones.
func (db *DB) GoodsReceipts() *GoodsReceiptRepo { return &GoodsReceiptRepo{db} }

func (r *GoodsReceiptRepo) Create(_ context.Context, grn *entity.GoodsReceipt) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g := *grn
	g.Items = append([]entity.GoodsReceiptItem(nil), grn.Items...)
	r.db.receipts[g.ID] = g
	r.db.track(g.ID)
	return nil
}

func (r *GoodsReceiptRepo) GetByID(_ context.Context, id string) (*entity.GoodsReceipt, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.receipts[id]
	if !ok || r.db.deletedGRNs[id] {
		return nil, nil
	}
	g.Items = append([]entity.GoodsReceiptItem(nil), g.Items...)
	return &g, nil
}

func (r *GoodsReceiptRepo) List(_ context.Context, poID string, limit, offset int) ([]*entity.GoodsReceipt, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.GoodsReceipt{}
	for id, g := range r.db.receipts {
		if r.db.deletedGRNs[id] || (poID != "" && g.POID != poID) {
			continue
		}
		g := g
		out = append(out, &g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedDate.After(out[j].ReceivedDate) })
	return window(out, limit, offset), nil
}

func (r *GoodsReceiptRepo) SoftDelete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.receipts[id]; !ok || r.db.deletedGRNs[id] {
		return domain.ErrNotFound
	}
	r.db.deletedGRNs[id] = true
	return nil
}

// ── Temperature logs ──────────────────────────────────────────────────────────

// TemperatureLogRepo implementa repository.TemperatureLogRepository.
type TemperatureLogRepo struct{ db *DB }

// TemperatureLogs repositorio de lecturas.
func (db *DB) TemperatureLogs() *TemperatureLogRepo { return &TemperatureLogRepo{db} }

func (r *TemperatureLogRepo) Create(_ context.Context, l *entity.TemperatureLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.tempLogs = append(r.db.tempLogs, *l)
	return nil
}

// ListByBatch lecturas más recientes primero.
func (r *TemperatureLogRepo) ListByBatch(_ context.Context, batchID string, limit int) ([]*entity.TemperatureLog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.TemperatureLog{}
	for i := len(r.db.tempLogs) - 1; i >= 0; i-- {
		if l := r.db.tempLogs[i]; l.BatchID == batchID {
			out = append(out, &l)
		}
	}
	return window(out, limit, 0), nil
}

// ── Analytics (read-only) ─────────────────────────────────────────────────────

// AnalyticsRepo implementa repository.AnalyticsRepository uniendo las tablas en memoria.
type AnalyticsRepo struct{ db *DB }

// Analytics repositorio de lectura.
func (db *DB) Analytics() *AnalyticsRepo { return &AnalyticsRepo{db} }

func (r *AnalyticsRepo) BatchViews(_ context.Context, f repository.BatchViewFilter) ([]repository.BatchView, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []repository.BatchView{}
	for _, b := range r.db.batches {
		switch {
		case len(f.Statuses) > 0 && !contains(f.Statuses, b.Status),
			f.MinQty != nil && b.QuantityOnHand < *f.MinQty,
			f.ExpiringBefore != nil && !b.ExpiryDate.Before(*f.ExpiringBefore):
			continue
		}
		item := r.db.items[b.ItemID]
		store := r.db.stores[b.StoreID]
		out = append(out, repository.BatchView{
			BatchID:        b.ID,
			BatchNo:        b.BatchNo,
			ItemID:         b.ItemID,
			ItemName:       item.ItemName,
			SKU:            item.SKU,
			MinStockLevel:  item.MinStockLevel,
			StorageType:    item.StorageType,
			MinTemperature: item.MinTemperature,
			MaxTemperature: item.MaxTemperature,
			StoreID:        b.StoreID,
			StoreName:      store.Name,
			QuantityOnHand: b.QuantityOnHand,
			UnitCost:       b.UnitCost,
			Temperature:    b.Temperature,
			Status:         b.Status,
			ExpiryDate:     b.ExpiryDate,
			CreatedAt:      b.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.OrderBy {
		case "b.quantity_on_hand ASC":
			if a.QuantityOnHand != b.QuantityOnHand {
				return a.QuantityOnHand < b.QuantityOnHand
			}
		case "b.expiry_date ASC":
			if !a.ExpiryDate.Equal(b.ExpiryDate) {
				return a.ExpiryDate.Before(b.ExpiryDate)
			}
		}
		return r.db.before(b.BatchID, b.CreatedAt, a.BatchID, a.CreatedAt)
	})
	return window(out, f.Limit, 0), nil
}

func (r *AnalyticsRepo) SaleViews(_ context.Context, f repository.SaleViewFilter) ([]repository.SaleView, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []repository.SaleView{}
	for _, s := range r.db.sales {
		if !inSaleFilter(s, f.StoreID, "", f.From, f.To) {
			continue
		}
		item := r.db.items[s.ItemID]
		out = append(out, repository.SaleView{
			ID:           s.ID,
			ItemID:       s.ItemID,
			ItemName:     item.ItemName,
			SKU:          item.SKU,
			StoreID:      s.StoreID,
			StoreName:    r.db.stores[s.StoreID].Name,
			Quantity:     s.Quantity,
			UnitPrice:    s.UnitPrice,
			TotalAmount:  s.TotalAmount,
			TotalCost:    s.TotalCost,
			GrossProfit:  s.GrossProfit,
			CustomerName: s.CustomerName,
			SaleDate:     s.SaleDate,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (r *AnalyticsRepo) POViews(_ context.Context) ([]repository.POView, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []repository.POView{}
	for id, po := range r.db.orders {
		if r.db.deletedOrders[id] {
			continue
		}
		out = append(out, repository.POView{
			ID:                   po.ID,
			PONumber:             po.PONumber,
			Status:               po.Status,
			SupplierID:           po.SupplierID,
			SupplierName:         r.db.suppliers[po.SupplierID].Name,
			StoreID:              po.StoreID,
			StoreName:            r.db.stores[po.StoreID].Name,
			TotalAmount:          po.TotalAmount,
			OrderDate:            po.OrderDate,
			ExpectedDeliveryDate: po.ExpectedDeliveryDate,
			LineCount:            len(po.Items),
			CreatedAt:            po.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return r.db.before(out[j].ID, out[j].CreatedAt, out[i].ID, out[i].CreatedAt)
	})
	return out, nil
}

func (r *AnalyticsRepo) SalesTotalsSince(_ context.Context, since time.Time) (repository.SalesTotals, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t := repository.SalesTotals{Revenue: decimal.Zero, Cost: decimal.Zero}
	for _, s := range r.db.sales {
		if s.SaleDate.Before(since) {
			continue
		}
		t.Revenue = t.Revenue.Add(s.TotalAmount)
		t.Cost = t.Cost.Add(s.TotalCost)
	}
	return t, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var (
	_ repository.UserRepository                 = (*UserRepo)(nil)
	_ repository.RoleRepository                 = (*RoleRepo)(nil)
	_ repository.StoreRepository                = (*StoreRepo)(nil)
	_ repository.SupplierRepository             = (*SupplierRepo)(nil)
	_ repository.SupplierItemRepository         = (*SupplierItemRepo)(nil)
	_ repository.ItemRepository                 = (*ItemRepo)(nil)
	_ repository.InventoryBatchRepository       = (*BatchRepo)(nil)
	_ repository.InventoryTransactionRepository = (*TransactionRepo)(nil)
	_ repository.SalesRepository                = (*SalesRepo)(nil)
	_ repository.StockRequestRepository         = (*StockRequestRepo)(nil)
	_ repository.PurchaseOrderRepository        = (*PurchaseOrderRepo)(nil)
	_ repository.GoodsReceiptRepository         = (*GoodsReceiptRepo)(nil)
	_ repository.TemperatureLogRepository       = (*TemperatureLogRepo)(nil)
	_ repository.AnalyticsRepository            = (*AnalyticsRepo)(nil)
	_ ports.TxRunner                            = (*TxRunner)(nil)
)
