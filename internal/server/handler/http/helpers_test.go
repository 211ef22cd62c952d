package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/packlist/packlist/internal/middleware"
	"github.com/packlist/packlist/internal/models"
	"github.com/packlist/packlist/internal/session"
)

const testCookieName = "packlist_session"

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	registerID  int64
	registerErr error
	authUser    *models.User
	authErr     error
	getUser     *models.User
	getErr      error
}

func (f *fakeAuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	return f.registerID, f.registerErr
}
func (f *fakeAuthService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	return f.authUser, f.authErr
}
func (f *fakeAuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return f.getUser, f.getErr
}

// fakeListService implements ListService for testing. It records the trip
// date handed to Create.
type fakeListService struct {
	createID    int64
	createErr   error
	updateErr   error
	deleteErr   error
	list        *models.ListWithCounts
	getErr      error
	lists       []models.ListWithCounts
	listAllErr  error
	gotTripDate string
}

func (f *fakeListService) Create(ctx context.Context, ownerID int64, title, description string, tripDate string) (int64, error) {
	f.gotTripDate = tripDate
	return f.createID, f.createErr
}
func (f *fakeListService) Update(ctx context.Context, listID, ownerID int64, title, description string, tripDate string) error {
	return f.updateErr
}
func (f *fakeListService) Delete(ctx context.Context, listID, ownerID int64) error {
	return f.deleteErr
}
func (f *fakeListService) Get(ctx context.Context, listID, ownerID int64) (*models.ListWithCounts, error) {
	return f.list, f.getErr
}
func (f *fakeListService) ListAllForUser(ctx context.Context, ownerID int64) ([]models.ListWithCounts, error) {
	return f.lists, f.listAllErr
}

// fakeItemService implements ItemService for testing. It records the
// quantity and category handed to Add.
type fakeItemService struct {
	addErr      error
	updateErr   error
	toggleVal   bool
	toggleErr   error
	deleteErr   error
	items       []models.ItemWithCategoryName
	listErr     error
	stats       *models.ListStats
	statsErr    error
	gotQuantity int
	gotCategory *int64
}

func (f *fakeItemService) Add(ctx context.Context, listID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error {
	f.gotQuantity = quantity
	f.gotCategory = categoryID
	return f.addErr
}
func (f *fakeItemService) Update(ctx context.Context, itemID, ownerID int64, name string, quantity int, categoryID *int64, notes string) error {
	return f.updateErr
}
func (f *fakeItemService) TogglePacked(ctx context.Context, itemID, ownerID int64) (bool, error) {
	return f.toggleVal, f.toggleErr
}
func (f *fakeItemService) Delete(ctx context.Context, itemID, ownerID int64) error {
	return f.deleteErr
}
func (f *fakeItemService) ListForList(ctx context.Context, listID, ownerID int64) ([]models.ItemWithCategoryName, error) {
	return f.items, f.listErr
}
func (f *fakeItemService) Stats(ctx context.Context, listID, ownerID int64) (*models.ListStats, error) {
	return f.stats, f.statsErr
}

// fakeCategoryService implements CategoryService for testing.
type fakeCategoryService struct {
	categories []models.Category
	err        error
}

func (f *fakeCategoryService) List(ctx context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

// loggedIn creates a session manager holding one live session for userID.
func loggedIn(userID int64) (*session.Manager, *session.Session) {
	m := session.NewManager(time.Hour)
	return m, m.Login(userID)
}

// authedServe runs the handler behind SessionAuth as the session's user,
// with the given chi URL parameters bound.
func authedServe(t *testing.T, m *session.Manager, s *session.Session, h http.HandlerFunc, method, target string, params map[string]string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: s.ID})

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	middleware.SessionAuth(m, testCookieName)(h).ServeHTTP(rec, req)
	return rec
}
