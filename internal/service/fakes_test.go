package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Zia-11/web-project/internal/domain"
	"github.com/Zia-11/web-project/internal/events"
	"github.com/Zia-11/web-project/internal/repository"
)

// memUserRepo is an in-memory repository.UserRepository.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// memItemRepo is an in-memory repository.ItemRepository.
type memItemRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[int64]domain.Item)}
}

func (r *memItemRepo) Create(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item.ID = r.nextID
	item.CreatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Update(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id int64) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (r *memItemRepo) List(_ context.Context, filter repository.ItemFilter) ([]domain.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]domain.Item, 0, len(r.items))
	for _, item := range r.items {
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(item.Title), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (r *memItemRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

// memProductRepo is an in-memory repository.ProductRepository.
type memProductRepo struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]domain.Product
	countErr error
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[int64]domain.Product)}
}

func (r *memProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	product.ID = r.nextID
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &product, nil
}

func (r *memProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if filter.Category != nil && product.Category != *filter.Category {
			continue
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (r *memProductRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.products)), nil
}

// memSessionRepo is an in-memory repository.SessionRepository.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]map[string]string
	ttls     map[string]time.Duration
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{
		sessions: make(map[string]map[string]string),
		ttls:     make(map[string]time.Duration),
	}
}

func (r *memSessionRepo) bucket(token string) map[string]string {
	fields, ok := r.sessions[token]
	if !ok {
		fields = make(map[string]string)
		r.sessions[token] = fields
	}
	return fields
}

func (r *memSessionRepo) Set(_ context.Context, token, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bucket(token)[key] = value
	return nil
}

func (r *memSessionRepo) Get(_ context.Context, token, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.sessions[token][key]
	if !ok {
		return "", repository.ErrSessionKeyNotFound
	}
	return value, nil
}

func (r *memSessionRepo) Delete(_ context.Context, token, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.sessions[token][key]
	if !ok {
		return "", repository.ErrSessionKeyNotFound
	}
	delete(r.sessions[token], key)
	return value, nil
}

func (r *memSessionRepo) SetFields(_ context.Context, token string, fields map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket := r.bucket(token)
	for key, value := range fields {
		bucket[key] = value
	}
	return nil
}

func (r *memSessionRepo) Fields(_ context.Context, token string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fields := make(map[string]string, len(r.sessions[token]))
	for key, value := range r.sessions[token] {
		fields[key] = value
	}
	return fields, nil
}

func (r *memSessionRepo) SetExpiry(_ context.Context, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ttls[token] = ttl
	return nil
}

func (r *memSessionRepo) Destroy(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	delete(r.ttls, token)
	return nil
}

// captureDispatcher records published events for assertions.
type captureDispatcher struct {
	published chan events.Event
}

func newCaptureDispatcher() *captureDispatcher {
	return &captureDispatcher{published: make(chan events.Event, 16)}
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published <- event
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

// waitForEvent blocks until an event arrives or the timeout elapses.
func (d *captureDispatcher) waitForEvent(timeout time.Duration) (events.Event, bool) {
	select {
	case event := <-d.published:
		return event, true
	case <-time.After(timeout):
		return events.Event{}, false
	}
}
