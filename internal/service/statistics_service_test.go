package service

import (
	"testing"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOperationsDashboard(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatisticsService(db, repository.NewDeliveryRepository(db))

	business := seedBusiness(t, db, "Acme Ltd", nil)
	businessID := business.ID

	seed := func(status string, n int) {
		for i := 0; i < n; i++ {
			delivery := &model.Delivery{
				BusinessID:     &businessID,
				PickupContact:  "Mary",
				PickupAddress:  "12 Market St",
				DropoffContact: "John",
				DropoffAddress: "7 Harbour Rd",
				Status:         status,
			}
			require.NoError(t, db.Create(delivery).Error)
		}
	}
	seed(model.StatusCreated, 2)
	seed(model.StatusInTransit, 3)
	seed(model.StatusDelivered, 4)
	seed(model.StatusFailed, 1)
	seed(model.StatusRejected, 1)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	dashboard, err := svc.GetOperationsDashboard(testCtx, start, end)
	require.NoError(t, err)

	assert.EqualValues(t, 11, dashboard.TotalDeliveries)
	assert.EqualValues(t, 5, dashboard.ActiveDeliveries)
	assert.EqualValues(t, 4, dashboard.DeliveredCount)
	assert.EqualValues(t, 1, dashboard.FailedCount)
	assert.EqualValues(t, 3, dashboard.CountsByStatus[model.StatusInTransit])

	// Out-of-range periods see nothing.
	empty, err := svc.GetOperationsDashboard(testCtx, start.Add(-48*time.Hour), end.Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalDeliveries)
}

func TestGetFinancialSummaryIntervalGuard(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatisticsService(db, repository.NewDeliveryRepository(db))

	_, err := svc.GetFinancialSummary(testCtx, time.Now().Add(-time.Hour), time.Now(), "year")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
