package http_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apihttp "github.com/Zia-11/web-project/internal/api/http"
	"github.com/Zia-11/web-project/internal/api/http/handlers"
	"github.com/Zia-11/web-project/internal/auth"
	"github.com/Zia-11/web-project/internal/clean"
	"github.com/Zia-11/web-project/internal/config"
	"github.com/Zia-11/web-project/internal/domain"
	"github.com/Zia-11/web-project/internal/events"
	"github.com/Zia-11/web-project/internal/observability"
	"github.com/Zia-11/web-project/internal/repository"
	"github.com/Zia-11/web-project/internal/service"
	"github.com/Zia-11/web-project/internal/ws"
)

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

// promote adjusts a stored account's capabilities for guard scenarios.
func (r *memUserRepo) promote(username string, staff bool, roles ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, user := range r.users {
		if user.Username == username {
			user.IsStaff = staff
			user.Roles = roles
			r.users[id] = user
			return
		}
	}
}

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

func (r *memItemRepo) List(_ context.Context, _ repository.ItemFilter) ([]domain.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Item, 0, len(r.items))
	for _, item := range r.items {
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, int64(len(all)), nil
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

type memProductRepo struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]domain.Product
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

func (r *memProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		all = append(all, product)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, int64(len(all)), nil
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
	return int64(len(r.products)), nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]map[string]string
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]map[string]string)}
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

func (r *memSessionRepo) SetExpiry(context.Context, string, time.Duration) error {
	return nil
}

func (r *memSessionRepo) Destroy(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// testEnv bundles the wired app with the fakes behind it.
type testEnv struct {
	app      *fiber.App
	users    *memUserRepo
	items    *memItemRepo
	products *memProductRepo
	sessions *memSessionRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMemUserRepo()
	items := newMemItemRepo()
	products := newMemProductRepo()
	sessions := newMemSessionRepo()

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	hub := ws.NewHub(logger)

	sessionCfg := config.SessionConfig{CookieName: "sessionid", DefaultTTLSeconds: 1209600}
	authCfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}

	accountSvc := service.NewAccountService(authCfg, users)
	sessionSvc := service.NewSessionService(sessionCfg, sessions)
	itemSvc := service.NewItemService(items)
	productSvc := service.NewProductService(products, dispatcher)
	notifier := service.NewCountNotifier(dispatcher, products, hub, logger)
	notifier.RegisterHandlers()

	uploader := clean.NewUploader(config.UploadConfig{
		Root:     t.TempDir(),
		URLPath:  "/media/",
		MaxBytes: 2 << 20,
	})

	pages := handlers.Pagination{DefaultSize: 1000, MaxSize: 1000}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	apihttp.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:         handlers.NewHealthHandler("web-project", "test", nil, nil),
		Accounts:       handlers.NewAccountsHandler(accountSvc, sessionSvc, pages),
		Sessions:       handlers.NewSessionHandler(sessionSvc),
		Items:          handlers.NewItemsHandler(itemSvc, pages),
		Products:       handlers.NewProductsHandler(productSvc, pages),
		Clean:          handlers.NewCleanHandler(uploader),
		ProductsWS:     handlers.NewProductsWSHandler(hub, productSvc, logger),
		AuthMiddleware: auth.NewMiddleware(accountSvc.TokenManager(), sessions, sessionCfg.CookieName),
	})

	return &testEnv{
		app:      app,
		users:    users,
		items:    items,
		products: products,
		sessions: sessions,
	}
}
