package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnAdjustment(t *testing.T) {
	productID := uuid.New()
	batchID := uuid.New()
	invoiceID := uuid.New()

	t.Run("restock return", func(t *testing.T) {
		adj, err := NewReturnAdjustment(productID, batchID, invoiceID, decimal.NewFromInt(3), ReturnActionRestock, decimal.NewFromInt(30), "customer return")

		require.NoError(t, err)
		assert.Equal(t, AdjustmentTypeReturn, adj.Type)
		require.NotNil(t, adj.InvoiceID)
		assert.Equal(t, invoiceID, *adj.InvoiceID)
		assert.True(t, adj.IsRestock())
		assert.False(t, adj.IsScrap())
		assert.True(t, adj.ReturnValue.Equal(decimal.NewFromInt(30)))
	})

	t.Run("scrap return", func(t *testing.T) {
		adj, err := NewReturnAdjustment(productID, batchID, invoiceID, decimal.NewFromInt(2), ReturnActionScrap, decimal.NewFromInt(20), "damaged on arrival")

		require.NoError(t, err)
		assert.True(t, adj.IsScrap())
		assert.False(t, adj.IsRestock())
	})

	t.Run("requires invoice", func(t *testing.T) {
		_, err := NewReturnAdjustment(productID, batchID, uuid.Nil, decimal.NewFromInt(1), ReturnActionRestock, decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("requires valid action", func(t *testing.T) {
		_, err := NewReturnAdjustment(productID, batchID, invoiceID, decimal.NewFromInt(1), ReturnAction("BURN"), decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("requires positive quantity", func(t *testing.T) {
		_, err := NewReturnAdjustment(productID, batchID, invoiceID, decimal.Zero, ReturnActionRestock, decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("rejects negative return value", func(t *testing.T) {
		_, err := NewReturnAdjustment(productID, batchID, invoiceID, decimal.NewFromInt(1), ReturnActionRestock, decimal.NewFromInt(-5), "")
		assert.Error(t, err)
	})
}

func TestNewWriteOffAdjustment(t *testing.T) {
	productID := uuid.New()
	batchID := uuid.New()

	t.Run("damage expired and lost", func(t *testing.T) {
		for _, adjustmentType := range []AdjustmentType{AdjustmentTypeDamage, AdjustmentTypeExpired, AdjustmentTypeLost} {
			adj, err := NewWriteOffAdjustment(adjustmentType, productID, batchID, decimal.NewFromInt(4), "stocktake")

			require.NoError(t, err)
			assert.Equal(t, adjustmentType, adj.Type)
			assert.Nil(t, adj.InvoiceID)
			assert.Nil(t, adj.ReturnAction)
		}
	})

	t.Run("rejects non write-off types", func(t *testing.T) {
		for _, adjustmentType := range []AdjustmentType{AdjustmentTypeReturn, AdjustmentTypeFound, AdjustmentTypeCorrection} {
			_, err := NewWriteOffAdjustment(adjustmentType, productID, batchID, decimal.NewFromInt(1), "")
			assert.Error(t, err, adjustmentType.String())
		}
	})

	t.Run("requires positive quantity", func(t *testing.T) {
		_, err := NewWriteOffAdjustment(AdjustmentTypeDamage, productID, batchID, decimal.NewFromInt(-1), "")
		assert.Error(t, err)
	})
}

func TestNewFoundAdjustment(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		adj, err := NewFoundAdjustment(uuid.New(), uuid.New(), decimal.NewFromInt(2), "found in back room")

		require.NoError(t, err)
		assert.Equal(t, AdjustmentTypeFound, adj.Type)
	})

	t.Run("requires positive quantity", func(t *testing.T) {
		_, err := NewFoundAdjustment(uuid.New(), uuid.New(), decimal.Zero, "")
		assert.Error(t, err)
	})
}

func TestNewCorrectionAdjustment(t *testing.T) {
	productID := uuid.New()
	batchID := uuid.New()

	t.Run("positive correction", func(t *testing.T) {
		adj, err := NewCorrectionAdjustment(productID, batchID, decimal.NewFromInt(5), "count mismatch")

		require.NoError(t, err)
		assert.True(t, adj.Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, adj.AbsQuantity().Equal(decimal.NewFromInt(5)))
	})

	t.Run("negative correction", func(t *testing.T) {
		adj, err := NewCorrectionAdjustment(productID, batchID, decimal.NewFromInt(-5), "count mismatch")

		require.NoError(t, err)
		assert.True(t, adj.Quantity.Equal(decimal.NewFromInt(-5)))
		assert.True(t, adj.AbsQuantity().Equal(decimal.NewFromInt(5)))
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := NewCorrectionAdjustment(productID, batchID, decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("requires product and batch", func(t *testing.T) {
		_, err := NewCorrectionAdjustment(uuid.Nil, batchID, decimal.NewFromInt(1), "")
		assert.Error(t, err)

		_, err = NewCorrectionAdjustment(productID, uuid.Nil, decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}

func TestAdjustmentType_Mapping(t *testing.T) {
	t.Run("write-off classification", func(t *testing.T) {
		assert.True(t, AdjustmentTypeDamage.IsWriteOff())
		assert.True(t, AdjustmentTypeExpired.IsWriteOff())
		assert.False(t, AdjustmentTypeLost.IsWriteOff())
		assert.False(t, AdjustmentTypeReturn.IsWriteOff())
	})

	t.Run("movement type mapping", func(t *testing.T) {
		cases := map[AdjustmentType]MovementType{
			AdjustmentTypeReturn:     MovementTypeReturn,
			AdjustmentTypeDamage:     MovementTypeDamage,
			AdjustmentTypeExpired:    MovementTypeExpired,
			AdjustmentTypeLost:       MovementTypeLost,
			AdjustmentTypeFound:      MovementTypeFound,
			AdjustmentTypeCorrection: MovementTypeCorrection,
		}
		for adjustmentType, movementType := range cases {
			assert.Equal(t, movementType, adjustmentType.MovementType())
		}
	})
}
