package traceability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) shared.Clock {
	return shared.ClockFunc(func() time.Time { return t })
}

// MockBatchRepository is a mock implementation of traceability.BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByCode(ctx context.Context, batchCode string) (*traceability.Batch, error) {
	args := m.Called(ctx, batchCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*traceability.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByTransactionCode(ctx context.Context, transactionCode string) (*traceability.Batch, error) {
	args := m.Called(ctx, transactionCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*traceability.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByRegistrationCode(ctx context.Context, registrationCode string) (*traceability.Batch, error) {
	args := m.Called(ctx, registrationCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*traceability.Batch), args.Error(1)
}

func (m *MockBatchRepository) Find(ctx context.Context, q traceability.BatchQuery, filter shared.Filter) ([]traceability.Batch, int64, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]traceability.Batch), args.Get(1).(int64), args.Error(2)
}

func (m *MockBatchRepository) FindWithLapsedWindows(ctx context.Context, now time.Time, limit int) ([]traceability.Batch, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]traceability.Batch), args.Error(1)
}

func (m *MockBatchRepository) Save(ctx context.Context, b *traceability.Batch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBatchRepository) SaveWithLock(ctx context.Context, b *traceability.Batch) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.Version++
	}
	return args.Error(0)
}

// MockLotLedger is a mock implementation of traceability.LotLedger
type MockLotLedger struct {
	mock.Mock
}

func (m *MockLotLedger) Claim(ctx context.Context, tx *traceability.LotTransaction) (*traceability.LotTransaction, bool, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*traceability.LotTransaction), args.Bool(1), args.Error(2)
}

func (m *MockLotLedger) FindByBatchCode(ctx context.Context, batchCode string) (*traceability.LotTransaction, error) {
	args := m.Called(ctx, batchCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*traceability.LotTransaction), args.Error(1)
}

func (m *MockLotLedger) FindByTransactionCode(ctx context.Context, transactionCode string) (*traceability.LotTransaction, error) {
	args := m.Called(ctx, transactionCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*traceability.LotTransaction), args.Error(1)
}

func (m *MockLotLedger) FindByBuyer(ctx context.Context, buyerID string, filter shared.Filter) ([]traceability.LotTransaction, int64, error) {
	args := m.Called(ctx, buyerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]traceability.LotTransaction), args.Get(1).(int64), args.Error(2)
}

// MockCropListingRepository is a mock implementation of farm.CropListingRepository
type MockCropListingRepository struct {
	mock.Mock
}

func (m *MockCropListingRepository) FindByCode(ctx context.Context, listingCode string) (*farm.CropListing, error) {
	args := m.Called(ctx, listingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farm.CropListing), args.Error(1)
}

func (m *MockCropListingRepository) FindActiveByBatchCode(ctx context.Context, batchCode string) (*farm.CropListing, error) {
	args := m.Called(ctx, batchCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*farm.CropListing), args.Error(1)
}

func (m *MockCropListingRepository) FindByFarmer(ctx context.Context, farmerID string, filter shared.Filter) ([]farm.CropListing, int64, error) {
	args := m.Called(ctx, farmerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]farm.CropListing), args.Get(1).(int64), args.Error(2)
}

func (m *MockCropListingRepository) Save(ctx context.Context, l *farm.CropListing) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockCropListingRepository) SaveWithLock(ctx context.Context, l *farm.CropListing) error {
	return m.Called(ctx, l).Error(0)
}

// recordingDispatcher accepts every role unless told to fail
type recordingDispatcher struct {
	mu    sync.Mutex
	calls []notification.Payload
	roles []notification.Role
	fail  bool
}

func (d *recordingDispatcher) Notify(_ context.Context, role notification.Role, p notification.Payload) notification.DispatchResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, p)
	d.roles = append(d.roles, role)
	if d.fail {
		return notification.DispatchResult{Role: role, Err: assertErr}
	}
	return notification.DispatchResult{Role: role, Accepted: true}
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

type staticError string

func (e staticError) Error() string { return string(e) }

const assertErr = staticError("sink unavailable")

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type memoryArchive struct {
	objects map[string][]byte
	err     error
}

func (a *memoryArchive) Upload(_ context.Context, key string, data []byte, _ string) error {
	if a.err != nil {
		return a.err
	}
	a.objects[key] = data
	return nil
}

func (a *memoryArchive) Delete(_ context.Context, key string) error {
	delete(a.objects, key)
	return nil
}

// harvested returns a freshly minted batch
func harvested(t *testing.T, farmerID string) *traceability.Batch {
	t.Helper()
	b, err := traceability.NewHarvestedBatch(traceability.HarvestInput{
		ScheduleCode:     "SCH-010",
		FarmerID:         farmerID,
		PlotID:           "PLOT-1",
		CropType:         "Coffee",
		ActualYield:      decimal.NewFromInt(480),
		QualityGrade:     "Grade A",
		HarvestDate:      testNow,
		ComplianceStatus: compliance.EUDRPending,
		Actor:            "farmer",
	}, testNow)
	require.NoError(t, err)
	b.Version = 1
	b.ClearDomainEvents()
	return b
}

// advanceTo walks b through the domain operations until it reaches target
func advanceTo(t *testing.T, b *traceability.Batch, target traceability.Stage) {
	t.Helper()
	at := testNow
	for b.Stage != target {
		at = at.Add(time.Hour)
		var err error
		switch b.Stage {
		case traceability.StageHarvested:
			var tx *traceability.LotTransaction
			tx, err = traceability.NewLotTransaction(b.BatchCode, "B1", decimal.NewFromInt(1200), at)
			require.NoError(t, err)
			err = b.AcceptLot(tx, "buyer", at)
		case traceability.StageLotAccepted:
			_, err = b.ConfirmPayment(traceability.PaymentInput{Amount: decimal.NewFromInt(1200)}, "buyer", at)
		case traceability.StagePaymentConfirmed:
			_, err = b.RegisterDelivery(traceability.DeliveryInput{
				WarehouseID:    "WH-1",
				DeclaredWeight: decimal.NewFromInt(480),
				ActualWeight:   decimal.NewFromInt(478),
			}, "warehouse", at)
		case traceability.StageWarehouseDelivered:
			_, err = b.RegisterProduct("", "warehouse", at)
		case traceability.StageWarehouseRegistered:
			_, err = b.CreateListing(traceability.ListingInput{PricePerKg: decimal.NewFromFloat(3.5)}, "buyer", at)
		case traceability.StageMarketplaceListed:
			_, err = b.AcceptExportProposal(traceability.ProposalInput{ExporterID: "EXP-1", OfferedPrice: decimal.NewFromInt(1600)}, "buyer", at)
		case traceability.StageExportProposalAccepted:
			_, err = b.AuthorizeDelivery("WH-1 manager", "warehouse", at)
		case traceability.StageDeliveryAuthorized:
			_, err = b.InitiateDelivery("LR-1234", "Moses", "warehouse", at)
		case traceability.StageDeliveryInitiated:
			_, err = b.CompleteReceipt(decimal.NewFromInt(478), "", "exporter", at)
		case traceability.StageReceiptCompleted:
			_, err = b.ConfirmExportPayment(traceability.PaymentInput{Amount: decimal.NewFromInt(1600)}, "exporter", at)
		case traceability.StageExportPaymentConfirmed:
			_, err = b.AssignPortInspection("PI-1", "Freeport of Monrovia", nil, "ddgots", at)
		case traceability.StagePortInspectionAssigned:
			_, err = b.SubmitInspectionReport(traceability.InspectionPassed, "clean", "port_inspector", at)
		case traceability.StageInspectionReportSubmitted:
			_, err = b.IntimateFees(traceability.FeeComponents{
				ProcessingFee:    decimal.NewFromInt(50),
				ExportFee:        decimal.NewFromInt(100),
				InspectionFee:    decimal.NewFromInt(25),
				DocumentationFee: decimal.NewFromInt(10),
			}, "USD", "ddgots", at)
		case traceability.StageFeeIntimated:
			_, err = b.PayFees("BANK-REF-1", decimal.Zero, "exporter", at)
		case traceability.StageFeePaid:
			_, err = b.ReleaseDocuments("ddgots-officer", "ddgots", at)
		default:
			t.Fatalf("no step from %s", b.Stage)
		}
		require.NoError(t, err, "advancing from %s", b.Stage)
	}
	b.ClearDomainEvents()
}
