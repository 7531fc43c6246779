package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMovementValidate(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name     string
		movement Movement
		wantErr  bool
	}{
		{
			name: "valid expense",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeExpense, Amount: amount, AccountID: "acc1",
			},
		},
		{
			name: "valid income",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeIncome, Amount: amount, AccountID: "acc1",
			},
		},
		{
			name: "valid transfer",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeTransfer, Amount: amount,
				AccountFromID: "acc1", AccountToID: "acc2",
			},
		},
		{
			name: "zero amount rejected",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeExpense, Amount: decimal.Zero, AccountID: "acc1",
			},
			wantErr: true,
		},
		{
			name: "negative amount rejected",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeExpense, Amount: amount.Neg(), AccountID: "acc1",
			},
			wantErr: true,
		},
		{
			name: "expense without account rejected",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeExpense, Amount: amount,
			},
			wantErr: true,
		},
		{
			name: "expense with transfer accounts rejected",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeExpense, Amount: amount,
				AccountID: "acc1", AccountToID: "acc2",
			},
			wantErr: true,
		},
		{
			name: "transfer missing destination rejected",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeTransfer, Amount: amount, AccountFromID: "acc1",
			},
			wantErr: true,
		},
		{
			name: "transfer to same account rejected",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeTransfer, Amount: amount,
				AccountFromID: "acc1", AccountToID: "acc1",
			},
			wantErr: true,
		},
		{
			name: "transfer with category rejected",
			movement: Movement{
				Date: day(2024, 1, 15), Type: TypeTransfer, Amount: amount,
				AccountFromID: "acc1", AccountToID: "acc2", CategoryID: "cat1",
			},
			wantErr: true,
		},
		{
			name: "unknown type rejected",
			movement: Movement{
				Date: day(2024, 1, 15), Type: "refund", Amount: amount, AccountID: "acc1",
			},
			wantErr: true,
		},
		{
			name: "zero date rejected",
			movement: Movement{
				Type: TypeExpense, Amount: amount, AccountID: "acc1",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.movement.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSignedImpact(t *testing.T) {
	amount := decimal.NewFromInt(50)

	income := Movement{Type: TypeIncome, Amount: amount, AccountID: "a"}
	expense := Movement{Type: TypeExpense, Amount: amount, AccountID: "a"}
	transfer := Movement{Type: TypeTransfer, Amount: amount, AccountFromID: "a", AccountToID: "b"}

	assert.True(t, income.SignedImpact("a").Equal(amount))
	assert.True(t, income.SignedImpact("other").IsZero())

	assert.True(t, expense.SignedImpact("a").Equal(amount.Neg()))

	assert.True(t, transfer.SignedImpact("a").Equal(amount.Neg()))
	assert.True(t, transfer.SignedImpact("b").Equal(amount))
	assert.True(t, transfer.SignedImpact("c").IsZero())
}

func TestValidAccountType(t *testing.T) {
	assert.True(t, ValidAccountType(AccountBank))
	assert.True(t, ValidAccountType(AccountCreditCard))
	assert.False(t, ValidAccountType("savings"))
	assert.False(t, ValidAccountType(""))
}
