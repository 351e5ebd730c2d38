package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SterilFlow/cssd_tracking_app/internal/apperrors"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/handlers"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/qr"
	"github.com/SterilFlow/cssd_tracking_app/pkg/config"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, actor domain.Actor, kind domain.TransactionKind, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, actor, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ValidateTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, actor, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) CancelTransaction(ctx context.Context, actor domain.Actor, transactionID string, reason string) (*portssvc.CancelResult, error) {
	args := m.Called(ctx, actor, transactionID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.CancelResult), args.Error(1)
}
func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) GetTransactionByQRToken(ctx context.Context, qrToken string) (*domain.Transaction, error) {
	args := m.Called(ctx, qrToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(*string), args.Error(2)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock UnitService ---
type MockUnitService struct {
	mock.Mock
}

func (m *MockUnitService) CreateUnit(ctx context.Context, req dto.CreateUnitRequest, creatorUserID string) (*domain.Unit, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}
func (m *MockUnitService) GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}
func (m *MockUnitService) GetUnitByQRToken(ctx context.Context, qrToken string) (*domain.Unit, error) {
	args := m.Called(ctx, qrToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}
func (m *MockUnitService) ListUnits(ctx context.Context, includeInactive bool, limit int, offset int) ([]domain.Unit, error) {
	args := m.Called(ctx, includeInactive, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unit), args.Error(1)
}
func (m *MockUnitService) UpdateUnit(ctx context.Context, unitID string, req dto.UpdateUnitRequest, userID string) (*domain.Unit, error) {
	args := m.Called(ctx, unitID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}
func (m *MockUnitService) RotateQRToken(ctx context.Context, unitID string, userID string) (*domain.Unit, error) {
	args := m.Called(ctx, unitID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

var _ portssvc.UnitSvcFacade = (*MockUnitService)(nil)

// --- Mock StockService ---
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) GetStock(ctx context.Context, instrumentID string, location domain.Location) (*domain.StockRecord, error) {
	args := m.Called(ctx, instrumentID, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockRecord), args.Error(1)
}
func (m *MockStockService) ListAvailableSteril(ctx context.Context) ([]domain.StockRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockRecord), args.Error(1)
}
func (m *MockStockService) ListUnitStock(ctx context.Context, unitID string) ([]domain.StockRecord, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockRecord), args.Error(1)
}
func (m *MockStockService) ListInstrumentStock(ctx context.Context, instrumentID string) ([]domain.StockRecord, error) {
	args := m.Called(ctx, instrumentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockRecord), args.Error(1)
}

var _ portssvc.StockSvcFacade = (*MockStockService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockTxnService  *MockTransactionService
	mockUnitService *MockUnitService
	mockStockSvc    *MockStockService
	cfg             *config.Config
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cfg = &config.Config{
		JWTSecret:      "test-secret-key-that-is-long-enough",
		ScanRateLimit:  100,
		ScanRatePeriod: time.Minute,
	}

	suite.mockTxnService = new(MockTransactionService)
	suite.mockUnitService = new(MockUnitService)
	suite.mockStockSvc = new(MockStockService)

	services := &portssvc.ServiceContainer{
		Transaction: suite.mockTxnService,
		Unit:        suite.mockUnitService,
		Stock:       suite.mockStockSvc,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, services)
}

func (suite *TransactionHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.cfg.JWTSecret, time.Hour, "test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *TransactionHandlerTestSuite) doJSON(method, url string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			suite.FailNow("Failed to encode request body", err.Error())
		}
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TransactionHandlerTestSuite) TestCreateSteril_Success() {
	userID := uuid.NewString()
	unitID := uuid.NewString()
	instrumentID := uuid.NewString()
	qrToken := uuid.NewString()

	reqBody := dto.CreateTransactionRequest{
		UnitID: unitID,
		Items:  []dto.TransactionItemRequest{{InstrumentID: instrumentID, Quantity: 3}},
	}
	expected := &domain.Transaction{
		TransactionID: uuid.NewString(),
		QRToken:       qrToken,
		UnitID:        unitID,
		CreatorID:     userID,
		Kind:          domain.DistributeSteril,
		Status:        domain.StatusPending,
	}

	suite.mockTxnService.On("CreateTransaction",
		mock.Anything,
		domain.Actor{UserID: userID, Role: domain.RoleCSSDStaff},
		domain.DistributeSteril,
		mock.MatchedBy(func(r dto.CreateTransactionRequest) bool {
			return r.UnitID == unitID && len(r.Items) == 1 && r.Items[0].Quantity == 3
		}),
	).Return(expected, nil).Once()

	token := suite.generateTestToken(userID, domain.RoleCSSDStaff)
	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/steril", reqBody, token)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.TransactionID, resp.TransactionID)
	suite.Equal(qr.TransactionContent(qrToken), resp.QRContent)
	suite.Equal(string(domain.StatusPending), resp.Status)

	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateSteril_InsufficientStockReturns422() {
	userID := uuid.NewString()
	reqBody := dto.CreateTransactionRequest{
		UnitID: uuid.NewString(),
		Items:  []dto.TransactionItemRequest{{InstrumentID: uuid.NewString(), Quantity: 5}},
	}

	suite.mockTxnService.On("CreateTransaction", mock.Anything, mock.Anything, domain.DistributeSteril, mock.Anything).
		Return(nil, apperrors.ErrInsufficientStock).Once()

	token := suite.generateTestToken(userID, domain.RoleCSSDStaff)
	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/steril", reqBody, token)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCreateSteril_MissingTokenReturns401() {
	reqBody := dto.CreateTransactionRequest{
		UnitID: uuid.NewString(),
		Items:  []dto.TransactionItemRequest{{InstrumentID: uuid.NewString(), Quantity: 1}},
	}

	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/steril", reqBody, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTxnService.AssertNotCalled(suite.T(), "CreateTransaction")
}

func (suite *TransactionHandlerTestSuite) TestValidateByQR_Success() {
	userID := uuid.NewString()
	qrToken := uuid.NewString()
	transactionID := uuid.NewString()

	pending := &domain.Transaction{
		TransactionID: transactionID,
		QRToken:       qrToken,
		Kind:          domain.PickupKotor,
		Status:        domain.StatusPending,
	}
	validatorID := userID
	validated := &domain.Transaction{
		TransactionID: transactionID,
		QRToken:       qrToken,
		ValidatorID:   &validatorID,
		Kind:          domain.PickupKotor,
		Status:        domain.StatusValidated,
	}

	suite.mockTxnService.On("GetTransactionByQRToken", mock.Anything, qrToken).Return(pending, nil).Once()
	suite.mockTxnService.On("ValidateTransaction",
		mock.Anything,
		domain.Actor{UserID: userID, Role: domain.RoleSupervisor},
		transactionID,
	).Return(validated, nil).Once()

	token := suite.generateTestToken(userID, domain.RoleSupervisor)
	reqBody := dto.ValidateTransactionRequest{QRContent: qr.TransactionContent(qrToken)}
	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/validate", reqBody, token)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.StatusValidated), resp.Status)

	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestValidateByQR_RejectsUnitPayload() {
	userID := uuid.NewString()
	token := suite.generateTestToken(userID, domain.RoleSupervisor)

	reqBody := dto.ValidateTransactionRequest{QRContent: qr.UnitContent(uuid.NewString())}
	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/validate", reqBody, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnService.AssertNotCalled(suite.T(), "GetTransactionByQRToken")
	suite.mockTxnService.AssertNotCalled(suite.T(), "ValidateTransaction")
}

func (suite *TransactionHandlerTestSuite) TestCancel_SurfacesClampWarnings() {
	userID := uuid.NewString()
	transactionID := uuid.NewString()
	instrumentID := uuid.NewString()

	cancelled := &domain.Transaction{
		TransactionID: transactionID,
		QRToken:       uuid.NewString(),
		Kind:          domain.DistributeSteril,
		Status:        domain.StatusCancelled,
		CancelReason:  "wrong unit scanned",
	}
	result := &portssvc.CancelResult{
		Transaction: cancelled,
		ClampedKeys: []domain.StockKey{
			{InstrumentID: instrumentID, Location: domain.CSSDLocation()},
		},
	}

	suite.mockTxnService.On("CancelTransaction", mock.Anything, mock.Anything, transactionID, "wrong unit scanned").
		Return(result, nil).Once()

	token := suite.generateTestToken(userID, domain.RoleCSSDStaff)
	reqBody := dto.CancelTransactionRequest{Reason: "wrong unit scanned"}
	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/"+transactionID+"/cancel", reqBody, token)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.StatusCancelled), resp.Status)
	suite.Len(resp.Warnings, 1)
	suite.Contains(resp.Warnings[0], instrumentID)

	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestCancel_MissingReasonReturns400() {
	userID := uuid.NewString()
	token := suite.generateTestToken(userID, domain.RoleCSSDStaff)

	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/"+uuid.NewString()+"/cancel", gin.H{}, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnService.AssertNotCalled(suite.T(), "CancelTransaction")
}

func (suite *TransactionHandlerTestSuite) TestScanUnit_SterilListsCSSDAvailability() {
	userID := uuid.NewString()
	unitToken := uuid.NewString()
	unit := &domain.Unit{
		UnitID:   uuid.NewString(),
		Code:     "ICU",
		Name:     "Intensive Care",
		QRToken:  unitToken,
		IsActive: true,
	}
	records := []domain.StockRecord{
		{
			InstrumentID: uuid.NewString(),
			Location:     domain.CSSDLocation(),
			StockSteril:  12,
		},
	}

	suite.mockUnitService.On("GetUnitByQRToken", mock.Anything, unitToken).Return(unit, nil).Once()
	suite.mockStockSvc.On("ListAvailableSteril", mock.Anything).Return(records, nil).Once()

	token := suite.generateTestToken(userID, domain.RoleCSSDStaff)
	reqBody := dto.ScanUnitRequest{QRContent: qr.UnitContent(unitToken), TransactionType: "steril"}
	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/scan-unit", reqBody, token)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ScanUnitResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(unit.UnitID, resp.Unit.UnitID)
	suite.Len(resp.Stock, 1)
	suite.Equal(int64(12), resp.Stock[0].StockSteril)

	suite.mockUnitService.AssertExpectations(suite.T())
	suite.mockStockSvc.AssertExpectations(suite.T())
	suite.mockStockSvc.AssertNotCalled(suite.T(), "ListUnitStock")
}

func (suite *TransactionHandlerTestSuite) TestScanUnit_KotorListsUnitHoldings() {
	userID := uuid.NewString()
	unitToken := uuid.NewString()
	unit := &domain.Unit{
		UnitID:   uuid.NewString(),
		Code:     "OR-2",
		Name:     "Operating Room 2",
		QRToken:  unitToken,
		IsActive: true,
	}
	records := []domain.StockRecord{
		{
			InstrumentID: uuid.NewString(),
			Location:     domain.UnitLocation(unit.UnitID),
			StockInUse:   4,
		},
	}

	suite.mockUnitService.On("GetUnitByQRToken", mock.Anything, unitToken).Return(unit, nil).Once()
	suite.mockStockSvc.On("ListUnitStock", mock.Anything, unit.UnitID).Return(records, nil).Once()

	token := suite.generateTestToken(userID, domain.RoleUnitStaff)
	reqBody := dto.ScanUnitRequest{QRContent: qr.UnitContent(unitToken), TransactionType: "kotor"}
	w := suite.doJSON(http.MethodPost, "/api/v1/transactions/scan-unit", reqBody, token)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockStockSvc.AssertNotCalled(suite.T(), "ListAvailableSteril")
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFoundReturns404() {
	userID := uuid.NewString()
	transactionID := uuid.NewString()

	suite.mockTxnService.On("GetTransaction", mock.Anything, transactionID).
		Return(nil, apperrors.ErrNotFound).Once()

	token := suite.generateTestToken(userID, domain.RoleUnitStaff)
	w := suite.doJSON(http.MethodGet, "/api/v1/transactions/"+transactionID, nil, token)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockTxnService.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_PassesFilters() {
	userID := uuid.NewString()
	unitID := uuid.NewString()
	nextToken := "next-page"

	txns := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			QRToken:       uuid.NewString(),
			UnitID:        unitID,
			Kind:          domain.ReturnToCssd,
			Status:        domain.StatusValidated,
		},
	}

	suite.mockTxnService.On("ListTransactions",
		mock.Anything,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.UnitID != nil && *p.UnitID == unitID &&
				p.Status != nil && *p.Status == "VALIDATED" &&
				p.Limit == 10
		}),
	).Return(txns, &nextToken, nil).Once()

	token := suite.generateTestToken(userID, domain.RoleSupervisor)
	url := "/api/v1/transactions?unitID=" + unitID + "&status=VALIDATED&limit=10"
	w := suite.doJSON(http.MethodGet, url, nil, token)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListTransactionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.NotNil(resp.NextToken)
	suite.Equal(nextToken, *resp.NextToken)

	suite.mockTxnService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
