package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BladeMcCool/PaymentEngine/model"
	"github.com/BladeMcCool/PaymentEngine/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockStore provides a mock implementation of storage.Store for testing.
type MockStore struct {
	SaveSnapshotFunc func(ctx context.Context, runID uuid.UUID, accounts []model.Account) error
	GetSnapshotFunc  func(ctx context.Context, runID uuid.UUID) ([]model.Account, error)
}

func (m *MockStore) SaveSnapshot(ctx context.Context, runID uuid.UUID, accounts []model.Account) error {
	return m.SaveSnapshotFunc(ctx, runID, accounts)
}

func (m *MockStore) GetSnapshot(ctx context.Context, runID uuid.UUID) ([]model.Account, error) {
	return m.GetSnapshotFunc(ctx, runID)
}

func TestCreateSnapshotHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		accounts := []model.Account{{ClientID: 1, Available: decimal.NewFromInt(2), Held: decimal.Zero, Total: decimal.NewFromInt(2)}}
		var savedID uuid.UUID
		mockLedger := &MockLedger{AccountsFunc: func() []model.Account { return accounts }}
		mockStore := &MockStore{
			SaveSnapshotFunc: func(ctx context.Context, runID uuid.UUID, got []model.Account) error {
				savedID = runID
				assert.Equal(t, accounts, got)
				return nil
			},
		}
		handler := NewSnapshotHandler(mockLedger, mockStore, zap.NewNop())
		rr := httptest.NewRecorder()

		// Act
		handler.CreateSnapshotHandler(rr, httptest.NewRequest("POST", "/snapshots", nil))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		var resp SnapshotResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, savedID, resp.RunID)
		require.Len(t, resp.Accounts, 1)
		assert.Equal(t, int64(1), resp.Accounts[0].ClientID)
	})

	t.Run("store error is logged", func(t *testing.T) {
		// Arrange
		core, logs := observer.New(zap.ErrorLevel)
		mockLedger := &MockLedger{AccountsFunc: func() []model.Account { return nil }}
		mockStore := &MockStore{
			SaveSnapshotFunc: func(ctx context.Context, runID uuid.UUID, accounts []model.Account) error {
				return errors.New("database is down")
			},
		}
		handler := NewSnapshotHandler(mockLedger, mockStore, zap.New(core))
		rr := httptest.NewRecorder()

		// Act
		handler.CreateSnapshotHandler(rr, httptest.NewRequest("POST", "/snapshots", nil))

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		entries := logs.FilterMessage("could not save snapshot").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "database is down", fields["error"])
		assert.Contains(t, fields, "run_id")
	})
}

func TestGetSnapshotHandler(t *testing.T) {
	serve := func(store *MockStore, path string) *httptest.ResponseRecorder {
		handler := NewSnapshotHandler(&MockLedger{}, store, zap.NewNop())
		router := mux.NewRouter()
		router.HandleFunc("/snapshots/{run_id}", handler.GetSnapshotHandler)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		return rr
	}

	t.Run("success", func(t *testing.T) {
		runID := uuid.New()
		mockStore := &MockStore{
			GetSnapshotFunc: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
				assert.Equal(t, runID, id)
				return []model.Account{{ClientID: 7, Locked: true}}, nil
			},
		}

		rr := serve(mockStore, "/snapshots/"+runID.String())

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp SnapshotResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, runID, resp.RunID)
		require.Len(t, resp.Accounts, 1)
		assert.True(t, resp.Accounts[0].Locked)
	})

	t.Run("not found", func(t *testing.T) {
		mockStore := &MockStore{
			GetSnapshotFunc: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
				return nil, storage.ErrNotFound
			},
		}

		rr := serve(mockStore, "/snapshots/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid run id", func(t *testing.T) {
		rr := serve(&MockStore{}, "/snapshots/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("store error", func(t *testing.T) {
		mockStore := &MockStore{
			GetSnapshotFunc: func(ctx context.Context, id uuid.UUID) ([]model.Account, error) {
				return nil, errors.New("database is down")
			},
		}

		rr := serve(mockStore, "/snapshots/"+uuid.NewString())

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
