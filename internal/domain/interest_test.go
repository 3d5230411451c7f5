package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateInterest(t *testing.T) {
	tests := []struct {
		name    string
		deposit Deposit
		elapsed int64
		want    string
	}{
		{"demand 90s", Deposit{Amount: dec("10000"), Type: DepositTypeDemand}, 90, "270"},
		{"demand zero elapsed", Deposit{Amount: dec("10000"), Type: DepositTypeDemand}, 0, "0"},
		{"demand negative elapsed", Deposit{Amount: dec("10000"), Type: DepositTypeDemand}, -5, "0"},
		{"term partial minute", Deposit{Amount: dec("20000"), Type: DepositTypeTerm, Term: TermTwoMinutes}, 59, "0"},
		{"term 2min at 120s", Deposit{Amount: dec("20000"), Type: DepositTypeTerm, Term: TermTwoMinutes}, 120, "28"},
		{"term 2min at 179s", Deposit{Amount: dec("20000"), Type: DepositTypeTerm, Term: TermTwoMinutes}, 179, "28"},
		{"term 3min", Deposit{Amount: dec("20000"), Type: DepositTypeTerm, Term: TermThreeMinutes}, 180, "54"},
		{"term 5min", Deposit{Amount: dec("20000"), Type: DepositTypeTerm, Term: TermFiveMinutes}, 300, "100"},
		{"unknown type", Deposit{Amount: dec("20000"), Type: DepositType(9)}, 300, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateInterest(&tt.deposit, tt.elapsed)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestWithdrawalInterestIsProRated(t *testing.T) {
	d := &Deposit{Amount: dec("10000"), Type: DepositTypeDemand}

	full := WithdrawalInterest(d, dec("10000"), 90)
	half := WithdrawalInterest(d, dec("5000"), 90)
	assert.True(t, full.Equal(dec("270")))
	assert.True(t, half.Equal(dec("135")))

	// 333.33 * 0.0003 * 7 = 0.6999993
	odd := WithdrawalInterest(d, dec("333.33"), 7)
	assert.Equal(t, "0.70", odd.StringFixed(MoneyScale))
}

func TestProjectInterest(t *testing.T) {
	demand := ProjectInterest(&Deposit{Amount: dec("1000"), Type: DepositTypeDemand})
	require.Len(t, demand, 4)
	assert.Equal(t, int64(30), demand[0].Time)
	assert.True(t, demand[0].Interest.Equal(dec("9")))
	assert.True(t, demand[0].Total.Equal(dec("1009")))
	assert.Equal(t, int64(120), demand[3].Time)

	term := ProjectInterest(&Deposit{Amount: dec("20000"), Type: DepositTypeTerm, Term: TermFiveMinutes})
	require.Len(t, term, 4)
	assert.Equal(t, []int64{3, 6, 9, 12}, []int64{term[0].Time, term[1].Time, term[2].Time, term[3].Time})
	assert.True(t, term[3].Interest.Equal(dec("240")))

	assert.Nil(t, ProjectInterest(&Deposit{Type: DepositType(0)}))
}

func TestMaturity(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	term := &Deposit{Type: DepositTypeTerm, Term: TermThreeMinutes, DepositTime: start}
	demand := &Deposit{Type: DepositTypeDemand, DepositTime: start}

	assert.False(t, term.IsMatured(start.Add(179*time.Second)))
	assert.False(t, term.Withdrawable(start.Add(179*time.Second)))
	assert.True(t, term.IsMatured(start.Add(180*time.Second)))
	assert.True(t, term.Withdrawable(start.Add(180*time.Second)))

	assert.False(t, demand.IsMatured(start.Add(time.Hour)))
	assert.True(t, demand.Withdrawable(start))

	assert.Equal(t, int64(0), term.ElapsedSeconds(start.Add(-time.Minute)))
	assert.Equal(t, int64(61), term.ElapsedSeconds(start.Add(61500*time.Millisecond)))
}
