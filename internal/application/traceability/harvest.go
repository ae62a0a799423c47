package traceability

import (
	"context"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"go.uber.org/zap"
)

// Harvest records the harvest of a ready schedule and mints its batch. The
// schedule update and batch insert commit in one transaction.
func (s *WorkflowService) Harvest(ctx context.Context, scheduleID string, req HarvestRequest) (*HarvestResponse, notification.Receipt, error) {
	harvestDate, err := parseDate("harvestDate", req.HarvestDate)
	if err != nil {
		return nil, nil, err
	}
	schedule, err := s.schedules.FindByCode(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}

	status, err := s.harvestCompliance(ctx, schedule.FarmerID, schedule.PlotID, compliance.EUDRStatus(req.ComplianceStatus))
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	variety := req.CropVariety
	if variety == "" {
		variety = schedule.Variety
	}
	b, err := traceability.NewHarvestedBatch(traceability.HarvestInput{
		ScheduleCode:     schedule.ScheduleCode,
		FarmerID:         schedule.FarmerID,
		PlotID:           schedule.PlotID,
		CropType:         schedule.CropType,
		CropVariety:      variety,
		ActualYield:      req.ActualYield,
		QualityGrade:     req.QualityGrade,
		HarvestDate:      harvestDate,
		GPSCoordinates:   req.GPSCoordinates,
		StorageLocation:  req.StorageLocation,
		ComplianceStatus: status,
		Actor:            actorOr(req.Actor, "farmer:"+schedule.FarmerID),
	}, now)
	if err != nil {
		return nil, nil, err
	}

	eligible := schedule.HarvestAlertEligible()
	if err := schedule.Harvest(b.BatchCode, req.ActualYield, req.QualityGrade, harvestDate, now); err != nil {
		return nil, nil, err
	}
	if err := s.harvests.CommitHarvest(ctx, schedule, b); err != nil {
		s.logFailure("harvest commit failed", err, b)
		return nil, nil, err
	}
	s.publish(ctx, b)
	s.logger.Info("batch harvested",
		zap.String("batch_code", b.BatchCode),
		zap.String("schedule_code", schedule.ScheduleCode),
		zap.String("compliance_status", string(b.ComplianceStatus)))

	receipt := s.notify(ctx, b, notification.Payload{
		Type:    notification.TypeBatchHarvested,
		Title:   "Batch harvested",
		Message: "Batch " + b.BatchCode + " harvested: " + b.ActualYield.String() + " kg " + b.CropType,
		Data: map[string]any{
			"scheduleId":       schedule.ScheduleCode,
			"farmerId":         b.FarmerID,
			"cropType":         b.CropType,
			"actualYield":      b.ActualYield.String(),
			"complianceStatus": string(b.ComplianceStatus),
		},
	}, notification.RoleLandInspector, notification.RoleWarehouse,
		notification.RoleRegulatorDDGOTS, notification.RoleRegulatorDDGAF)

	return &HarvestResponse{
		Batch: ToBatchResponse(b),
		Schedule: ScheduleSummary{
			ScheduleID:   schedule.ScheduleCode,
			Status:       string(schedule.Status),
			MarketStatus: string(schedule.MarketStatus),
			BatchCode:    schedule.BatchCode,
			Version:      schedule.Version,
		},
		HarvestAlertEligible: eligible,
	}, receipt, nil
}

// harvestCompliance resolves the EUDR status of a new batch. A claim of
// EUDR_COMPLIANT only stands when an approved record for the plot says so;
// otherwise the batch takes whatever the plot's records support.
func (s *WorkflowService) harvestCompliance(ctx context.Context, farmerID, plotID string, requested compliance.EUDRStatus) (compliance.EUDRStatus, error) {
	if requested != "" && requested != compliance.EUDRCompliant {
		return requested, nil
	}
	if s.compliance == nil {
		if requested == compliance.EUDRCompliant {
			return compliance.EUDRPending, nil
		}
		return requested, nil
	}
	inherited, err := s.compliance.InheritedStatus(ctx, farmerID, plotID)
	if err != nil {
		return "", err
	}
	if requested == compliance.EUDRCompliant && inherited != compliance.EUDRCompliant {
		s.logger.Warn("compliant claim not backed by an approved record",
			zap.String("farmer_id", farmerID),
			zap.String("plot_id", plotID),
			zap.String("inherited", string(inherited)))
	}
	return inherited, nil
}
