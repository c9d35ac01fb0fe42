package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platipay/server/internal/module/payment/domain"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListByStore(ctx context.Context, storeID int) ([]*Setting, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Setting), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, storeID int, upserts map[string]string, deletes []string) error {
	args := m.Called(ctx, storeID, upserts, deletes)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, storeID int) (*domain.MerchantSettings, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MerchantSettings), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, storeID int, s domain.MerchantSettings) error {
	args := m.Called(ctx, storeID, s)
	return args.Error(0)
}

func (m *MockCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var testNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func testDefaults() domain.MerchantSettings {
	return domain.MerchantSettings{
		MerchantID:       "default-login",
		RelayMethod:      domain.RelayPTOR,
		TransactMode:     domain.TransactPending,
		FallbackCurrency: "RON",
		AcceptRON:        true,
		Language:         "RO",
	}
}

func newTestService(repo Repository, cache Cache) *Service {
	s := NewService(repo, cache, testDefaults(), zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func rows(storeID int, kv ...string) []*Setting {
	var out []*Setting
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, &Setting{StoreID: storeID, Name: kv[i], Value: kv[i+1]})
	}
	return out
}

func TestService_Load_MergesScopes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("ListByStore", ctx, 0).Return(rows(0,
		KeyMerchantID, "4242",
		KeyRelayMethod, "POST_S2S_MT_PAGE",
		KeyAcceptEUR, "true",
	), nil)
	repo.On("ListByStore", ctx, 2).Return(rows(2,
		KeyMerchantID, "store-2",
		KeyPayLinkDays, "5",
	), nil)

	s, err := newTestService(repo, nil).Load(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, "store-2", s.MerchantID)
	assert.Equal(t, domain.RelayS2SMTPage, s.RelayMethod)
	assert.True(t, s.AcceptEUR)
	assert.True(t, s.AcceptRON)
	assert.Equal(t, 5, s.PayLinkDays)
	assert.Equal(t, "RO", s.Language)
	repo.AssertExpectations(t)
}

func TestService_Load_CacheHit(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	cache := new(MockCache)
	cached := domain.MerchantSettings{MerchantID: "cached"}
	cache.On("Get", ctx, 3).Return(&cached, nil)

	s, err := newTestService(repo, cache).Load(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, "cached", s.MerchantID)
	repo.AssertNotCalled(t, "ListByStore", mock.Anything, mock.Anything)
}

func TestService_Load_CacheMissStores(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	cache := new(MockCache)
	cache.On("Get", ctx, 0).Return(nil, nil)
	cache.On("Set", ctx, 0, mock.AnythingOfType("domain.MerchantSettings")).Return(nil)
	repo.On("ListByStore", ctx, 0).Return([]*Setting{}, nil)

	s, err := newTestService(repo, cache).Load(ctx, 0)
	require.NoError(t, err)

	assert.Equal(t, "default-login", s.MerchantID)
	cache.AssertExpectations(t)
}

func TestService_Load_InvalidStoredValue(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("ListByStore", ctx, 0).Return(rows(0, KeyRelayMethod, "CARRIER_PIGEON"), nil)

	_, err := newTestService(repo, nil).Load(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidSetting)
}

func TestService_Save_DefaultScope(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	cache := new(MockCache)
	cache.On("Get", ctx, 0).Return(nil, nil)
	cache.On("Set", ctx, 0, mock.Anything).Return(nil)
	cache.On("Clear", ctx).Return(nil)
	repo.On("ListByStore", ctx, 0).Return([]*Setting{}, nil)

	in := testDefaults()
	in.MerchantID = "4242"
	in.PayLinkDays = 3

	repo.On("Save", ctx, 0, mock.MatchedBy(func(upserts map[string]string) bool {
		return len(upserts) == len(Keys()) &&
			upserts[KeyMerchantID] == "4242" &&
			upserts[KeyPayLinkDays] == "3"
	}), []string(nil)).Return(nil)

	err := newTestService(repo, cache).Save(ctx, 0, in, nil)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertCalled(t, "Clear", ctx)
}

func TestService_Save_StoreOverrides(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("ListByStore", ctx, mock.Anything).Return([]*Setting{}, nil)

	in := testDefaults()
	in.MerchantID = "store-4"

	repo.On("Save", ctx, 4, mock.MatchedBy(func(upserts map[string]string) bool {
		return len(upserts) == 1 && upserts[KeyMerchantID] == "store-4"
	}), mock.MatchedBy(func(deletes []string) bool {
		return len(deletes) == len(Keys())-1
	})).Return(nil)

	err := newTestService(repo, nil).Save(ctx, 4, in, map[string]bool{KeyMerchantID: true})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Save_PayLinkConflict(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("ListByStore", ctx, 0).Return([]*Setting{}, nil)

	expires := testNow.Add(72 * time.Hour)
	in := testDefaults()
	in.MerchantID = "4242"
	in.PayLinkDays = 3
	in.PayLinkExpiresAt = &expires

	repo.On("Save", ctx, 0, mock.MatchedBy(func(upserts map[string]string) bool {
		_, hasDays := upserts[KeyPayLinkDays]
		_, hasExpiry := upserts[KeyPayLinkExpiresAt]
		return !hasDays && !hasExpiry && upserts[KeyMerchantID] == "4242"
	}), []string(nil)).Return(nil)

	err := newTestService(repo, nil).Save(ctx, 0, in, nil)
	assert.ErrorIs(t, err, domain.ErrPayLinkConflict)
	assert.True(t, IsPayLinkConflict(err))
	repo.AssertExpectations(t)
}

func TestService_Save_MaskedSecretKeepsStoredValue(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("ListByStore", ctx, 0).Return(rows(0, KeyPrivateKey, "stored-pem"), nil)

	in := testDefaults()
	in.PrivateKey = MaskedValue

	repo.On("Save", ctx, 0, mock.MatchedBy(func(upserts map[string]string) bool {
		return upserts[KeyPrivateKey] == "stored-pem"
	}), []string(nil)).Return(nil)

	require.NoError(t, newTestService(repo, nil).Save(ctx, 0, in, nil))
	repo.AssertExpectations(t)
}

func TestService_Save_RejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("ListByStore", ctx, 0).Return([]*Setting{}, nil)

	in := testDefaults()
	in.TransactMode = "Capture"

	err := newTestService(repo, nil).Save(ctx, 0, in, nil)
	assert.ErrorIs(t, err, ErrInvalidSetting)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestKeys_RoundTrip(t *testing.T) {
	expires := testNow.Add(time.Hour)
	in := testDefaults()
	in.PayLinkExpiresAt = &expires
	in.SSL = true

	out, err := apply(domain.MerchantSettings{}, encode(in))
	require.NoError(t, err)
	assert.Equal(t, in.MerchantID, out.MerchantID)
	assert.True(t, out.SSL)
	require.NotNil(t, out.PayLinkExpiresAt)
	assert.True(t, expires.Equal(*out.PayLinkExpiresAt))
}

func setupRouter(s *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(s, zap.NewNop()).RegisterProtectedRoutes(r.Group("/admin"))
	return r
}

func TestHandler_GetSettings_MasksSecrets(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByStore", mock.Anything, 0).Return(rows(0, KeyPrivateKey, "pem"), nil)
	repo.On("ListByStore", mock.Anything, 1).Return(rows(1, KeyMerchantID, "one"), nil)

	w := httptest.NewRecorder()
	setupRouter(newTestService(repo, nil)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/platonline/settings?store=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp SettingsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.StoreID)
	assert.Equal(t, "one", resp.Settings.MerchantID)
	assert.Equal(t, MaskedValue, resp.Settings.PrivateKey)
	assert.True(t, resp.Overrides[KeyMerchantID])
}

func TestHandler_SaveSettings(t *testing.T) {
	expires := time.Now().Add(72 * time.Hour)

	tests := []struct {
		name   string
		query  string
		body   any
		status int
	}{
		{
			name:   "saved",
			body:   SaveSettingsRequest{Settings: testDefaults()},
			status: http.StatusNoContent,
		},
		{
			name: "pay link conflict",
			body: SaveSettingsRequest{Settings: func() domain.MerchantSettings {
				s := testDefaults()
				s.PayLinkDays = 2
				s.PayLinkExpiresAt = &expires
				return s
			}()},
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "invalid store",
			query:  "?store=x",
			body:   SaveSettingsRequest{},
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid body",
			body:   "not json",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("ListByStore", mock.Anything, 0).Return([]*Setting{}, nil)
			repo.On("Save", mock.Anything, 0, mock.Anything, mock.Anything).Return(nil)

			var body []byte
			if s, ok := tt.body.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.body)
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/admin/platonline/settings"+tt.query, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(newTestService(repo, nil)).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
