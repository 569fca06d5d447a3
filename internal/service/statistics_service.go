package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type OperationsDashboard struct {
	PeriodStart      time.Time        `json:"period_start"`
	PeriodEnd        time.Time        `json:"period_end"`
	TotalDeliveries  int64            `json:"total_deliveries"`
	CountsByStatus   map[string]int64 `json:"counts_by_status"`
	ActiveDeliveries int64            `json:"active_deliveries"`
	DeliveredCount   int64            `json:"delivered_count"`
	FailedCount      int64            `json:"failed_count"`
}

type RevenuePoint struct {
	Bucket   time.Time       `json:"bucket"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type FinancialSummary struct {
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
	Series        []RevenuePoint  `json:"series"`
}

// --- Interface ---

type StatisticsService interface {
	GetOperationsDashboard(ctx context.Context, start, end time.Time) (*OperationsDashboard, error)
	// GetFinancialSummary aggregates charge revenue against expenses,
	// bucketed by day, week or month. Revenue is recognized when the
	// charge is created, not when its invoice is paid.
	GetFinancialSummary(ctx context.Context, start, end time.Time, interval string) (*FinancialSummary, error)
}

type statisticsService struct {
	db           *gorm.DB
	deliveryRepo repository.DeliveryRepository
}

func NewStatisticsService(db *gorm.DB, deliveryRepo repository.DeliveryRepository) StatisticsService {
	return &statisticsService{db: db, deliveryRepo: deliveryRepo}
}

// --- Implementation ---

func (s *statisticsService) GetOperationsDashboard(ctx context.Context, start, end time.Time) (*OperationsDashboard, error) {
	counts, err := s.deliveryRepo.CountByStatus(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count deliveries: %w", err)
	}

	dashboard := &OperationsDashboard{
		PeriodStart:    start,
		PeriodEnd:      end,
		CountsByStatus: counts,
		DeliveredCount: counts[model.StatusDelivered],
		FailedCount:    counts[model.StatusFailed],
	}
	for status, n := range counts {
		dashboard.TotalDeliveries += n
		if !model.IsTerminalStatus(status) {
			dashboard.ActiveDeliveries += n
		}
	}
	return dashboard, nil
}

func (s *statisticsService) GetFinancialSummary(ctx context.Context, start, end time.Time, interval string) (*FinancialSummary, error) {
	switch interval {
	case "day", "week", "month":
	default:
		return nil, apperrors.NewValidation("interval must be day, week or month")
	}

	type bucketRow struct {
		Bucket time.Time
		Total  decimal.Decimal
	}

	var revenueRows []bucketRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT DATE_TRUNC(?, created_at) AS bucket, COALESCE(SUM(amount), 0) AS total
		FROM charges
		WHERE created_at >= ? AND created_at <= ?
		GROUP BY bucket
		ORDER BY bucket`, interval, start, end).Scan(&revenueRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	var expenseRows []bucketRow
	err = s.db.WithContext(ctx).Raw(`
		SELECT DATE_TRUNC(?, incurred_on) AS bucket, COALESCE(SUM(amount), 0) AS total
		FROM expenses
		WHERE incurred_on >= ? AND incurred_on <= ?
		GROUP BY bucket
		ORDER BY bucket`, interval, start, end).Scan(&expenseRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	points := map[time.Time]*RevenuePoint{}
	order := []time.Time{}
	for _, row := range revenueRows {
		points[row.Bucket] = &RevenuePoint{Bucket: row.Bucket, Revenue: row.Total, Expenses: decimal.Zero}
		order = append(order, row.Bucket)
	}
	for _, row := range expenseRows {
		if p, ok := points[row.Bucket]; ok {
			p.Expenses = row.Total
		} else {
			points[row.Bucket] = &RevenuePoint{Bucket: row.Bucket, Revenue: decimal.Zero, Expenses: row.Total}
			order = append(order, row.Bucket)
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	summary := &FinancialSummary{
		PeriodStart:   start,
		PeriodEnd:     end,
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
		NetIncome:     decimal.Zero,
		Series:        make([]RevenuePoint, 0, len(order)),
	}
	for _, bucket := range order {
		p := points[bucket]
		p.Net = p.Revenue.Sub(p.Expenses)
		summary.TotalRevenue = summary.TotalRevenue.Add(p.Revenue)
		summary.TotalExpenses = summary.TotalExpenses.Add(p.Expenses)
		summary.Series = append(summary.Series, *p)
	}
	summary.NetIncome = summary.TotalRevenue.Sub(summary.TotalExpenses)
	return summary, nil
}
