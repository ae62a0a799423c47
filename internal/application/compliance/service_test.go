package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, r *compliance.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRepository) SaveWithLock(ctx context.Context, r *compliance.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRepository) FindByCode(ctx context.Context, code string) (*compliance.Record, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compliance.Record), args.Error(1)
}

func (m *MockRepository) FindLatestForPlot(ctx context.Context, farmerID, plotID string) (*compliance.Record, error) {
	args := m.Called(ctx, farmerID, plotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*compliance.Record), args.Error(1)
}

func (m *MockRepository) Find(ctx context.Context, q compliance.Query, filter shared.Filter) ([]compliance.Record, int64, error) {
	args := m.Called(ctx, q, filter)
	return args.Get(0).([]compliance.Record), args.Get(1).(int64), args.Error(2)
}

type fakeDispatcher struct {
	calls []notification.Role
}

func (d *fakeDispatcher) Notify(_ context.Context, role notification.Role, _ notification.Payload) notification.DispatchResult {
	d.calls = append(d.calls, role)
	return notification.DispatchResult{Role: role, Accepted: true}
}

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo compliance.Repository, d notification.Dispatcher) *Service {
	return NewService(repo, d, shared.ClockFunc(func() time.Time { return now }), nil)
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     SubmitRequest
		wantErr bool
	}{
		{
			name: "valid submission",
			req: SubmitRequest{
				FarmerID: "F-1", PlotID: "PLOT-1", InspectorID: "LI-4",
				EUDRData: EUDRData{ComplianceStatus: "EUDR_COMPLIANT", DeforestationRisk: "low"},
			},
		},
		{name: "missing farmer", req: SubmitRequest{PlotID: "PLOT-1", EUDRData: EUDRData{ComplianceStatus: "pending"}}, wantErr: true},
		{name: "missing plot", req: SubmitRequest{FarmerID: "F-1", EUDRData: EUDRData{ComplianceStatus: "pending"}}, wantErr: true},
		{name: "missing status", req: SubmitRequest{FarmerID: "F-1", PlotID: "PLOT-1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			d := &fakeDispatcher{}
			if !tt.wantErr {
				repo.On("Save", ctx, mock.AnythingOfType("*compliance.Record")).Return(nil).Once()
			}

			res, receipt, err := newTestService(repo, d).Submit(ctx, tt.req)
			if tt.wantErr {
				assert.True(t, shared.IsCode(err, shared.CodeValidation))
				assert.Empty(t, d.calls)
				repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.True(t, res.Stored)
			assert.Equal(t, res.Record.RecordID, res.RecordID)
			assert.Equal(t, "received", res.Record.Status)
			assert.Equal(t, notification.Receipt{"regulator_ddgots": "NOTIFIED"}, receipt)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Review(t *testing.T) {
	ctx := context.Background()
	rec, err := compliance.NewRecord(compliance.Submission{FarmerID: "F-1", PlotID: "PLOT-1", ComplianceStatus: "EUDR_COMPLIANT"}, now)
	require.NoError(t, err)

	repo := new(MockRepository)
	repo.On("FindByCode", ctx, rec.RecordCode).Return(rec, nil)
	repo.On("SaveWithLock", ctx, rec).Return(nil).Once()
	d := &fakeDispatcher{}
	svc := newTestService(repo, d)

	resp, receipt, err := svc.Review(ctx, rec.RecordCode, ReviewRequest{Decision: "approve", ReviewedBy: "ddgots-1"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, notification.Receipt{"land_inspector": "NOTIFIED"}, receipt)

	_, _, err = svc.Review(ctx, rec.RecordCode, ReviewRequest{Decision: "reject", ReviewedBy: "ddgots-1"})
	assert.True(t, shared.IsCode(err, shared.CodePrecondition))
	assert.Len(t, d.calls, 1)
	repo.AssertExpectations(t)
}

func TestService_InheritedStatus(t *testing.T) {
	ctx := context.Background()

	record := func(status string, decision compliance.Decision) *compliance.Record {
		r, err := compliance.NewRecord(compliance.Submission{FarmerID: "F-1", PlotID: "PLOT-1", ComplianceStatus: status}, now)
		require.NoError(t, err)
		if decision != "" {
			require.NoError(t, r.Review(decision, "ddgots-1", "", now))
		}
		return r
	}

	tests := []struct {
		name   string
		latest *compliance.Record
		err    error
		want   compliance.EUDRStatus
	}{
		{"no record", nil, shared.NewNotFoundError("compliance record", "F-1/PLOT-1"), compliance.EUDRPending},
		{"approved compliant", record("EUDR_COMPLIANT", compliance.DecisionApprove), nil, compliance.EUDRCompliant},
		{"unreviewed compliant claim", record("EUDR_COMPLIANT", ""), nil, compliance.EUDRPending},
		{"unreviewed non compliant", record("non_compliant", ""), nil, compliance.EUDRNonCompliant},
		{"rejected", record("EUDR_COMPLIANT", compliance.DecisionReject), nil, compliance.EUDRNonCompliant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.latest != nil {
				repo.On("FindLatestForPlot", ctx, "F-1", "PLOT-1").Return(tt.latest, nil)
			} else {
				repo.On("FindLatestForPlot", ctx, "F-1", "PLOT-1").Return(nil, tt.err)
			}
			got, err := newTestService(repo, nil).InheritedStatus(ctx, "F-1", "PLOT-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("store failure surfaces", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindLatestForPlot", ctx, "F-1", "PLOT-1").Return(nil, errors.New("db gone"))
		_, err := newTestService(repo, nil).InheritedStatus(ctx, "F-1", "PLOT-1")
		assert.Error(t, err)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	rec, err := compliance.NewRecord(compliance.Submission{FarmerID: "F-2", PlotID: "PLOT-2", ComplianceStatus: "pending"}, now)
	require.NoError(t, err)

	repo := new(MockRepository)
	repo.On("Find", ctx, compliance.Query{FarmerID: "F-2"}, mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderBy == "received_at" && f.Page == 1
	})).Return([]compliance.Record{*rec}, int64(1), nil)

	page, err := newTestService(repo, nil).List(ctx, ListFilter{FarmerID: "F-2"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, rec.RecordCode, page.Items[0].RecordID)
}
