package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bancore/ledger/internal/domain"
	"github.com/bancore/ledger/internal/usecase"
	"github.com/bancore/ledger/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	t.Run("clean ledger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockLedgerRepository(ctrl)
		repo.EXPECT().CheckConsistency(gomock.Any()).Return(nil, nil)

		uc := usecase.NewLedgerUseCase(repo)

		mismatches, err := uc.CheckConsistency(context.Background())
		require.NoError(t, err)
		assert.Empty(t, mismatches)
	})

	t.Run("mismatch reported with the drift", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockLedgerRepository(ctrl)
		repo.EXPECT().CheckConsistency(gomock.Any()).Return([]*domain.BalanceMismatch{
			{
				AccountID:       "acc-1",
				LiveBalance:     decimal.RequireFromString("100.00"),
				ReplayedBalance: decimal.RequireFromString("90.00"),
			},
		}, nil)

		uc := usecase.NewLedgerUseCase(repo)

		mismatches, err := uc.CheckConsistency(context.Background())
		assert.ErrorIs(t, err, usecase.ErrInconsistentLedger)
		require.Len(t, mismatches, 1)
		assert.Equal(t, "acc-1", mismatches[0].AccountID)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockLedgerRepository(ctrl)
		boom := errors.New("connection refused")
		repo.EXPECT().CheckConsistency(gomock.Any()).Return(nil, boom)

		uc := usecase.NewLedgerUseCase(repo)

		_, err := uc.CheckConsistency(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}
