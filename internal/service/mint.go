package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ecocycle/recycle-api/internal/apperr"
	"github.com/ecocycle/recycle-api/internal/domain"
	"github.com/ecocycle/recycle-api/internal/repo"
	"github.com/ecocycle/recycle-api/internal/workflow"
)

const (
	WorkflowMintReport = "mint-report"
	StepNotifierCalled = "NotifierCalled"
)

// Minter submits an audited report to the external minting service.
// *notifier.Client satisfies this interface.
type Minter interface {
	Mint(ctx context.Context, report domain.Report) (domain.MintReceipt, error)
}

// MintService hands audited reports to the minting service.
type MintService struct {
	reports repo.ReportRepo
	minter  Minter
	flow    *workflow.Orchestrator
}

// NewMintService constructs a MintService.
func NewMintService(reports repo.ReportRepo, minter Minter, flow *workflow.Orchestrator) *MintService {
	return &MintService{reports: reports, minter: minter, flow: flow}
}

// Mint loads the report and, if it has been audited, asks the minting
// service to mint it. Unaudited reports are rejected with a 400 before the
// minting service is contacted.
func (s *MintService) Mint(ctx context.Context, reportID string) (domain.MintReceipt, error) {
	var (
		report  domain.Report
		receipt domain.MintReceipt
	)
	err := s.flow.Run(ctx, WorkflowMintReport,
		workflow.Step{
			Name: StepReportVerified,
			Effect: func(ctx context.Context) (err error) {
				report, err = s.reports.GetByID(ctx, reportID)
				return err
			},
		},
		workflow.Step{
			Name: StepNotifierCalled,
			Precondition: func(context.Context) error {
				if !report.Audited {
					return apperr.New(http.StatusBadRequest, "report has not been audited").
						WithPayload("reportId", reportID)
				}
				return nil
			},
			Effect: func(ctx context.Context) (err error) {
				receipt, err = s.minter.Mint(ctx, report)
				return err
			},
		},
	)
	if err != nil {
		return domain.MintReceipt{}, fmt.Errorf("service.MintService.Mint: %w", err)
	}
	return receipt, nil
}
