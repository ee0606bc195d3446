package orgcode_test

import (
	"testing"

	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDepartment(t *testing.T) {
	t.Run("accepts codes", func(t *testing.T) {
		for _, code := range orgcode.Departments() {
			got, ok := orgcode.NormalizeDepartment(code)
			assert.True(t, ok)
			assert.Equal(t, code, got)
		}
	})

	t.Run("accepts display names", func(t *testing.T) {
		got, ok := orgcode.NormalizeDepartment("借貸部")
		assert.True(t, ok)
		assert.Equal(t, orgcode.DeptLoan, got)

		got, ok = orgcode.NormalizeDepartment("業務部")
		assert.True(t, ok)
		assert.Equal(t, orgcode.DeptBusiness, got)
	})

	t.Run("negative unknown value", func(t *testing.T) {
		_, ok := orgcode.NormalizeDepartment("HR")
		assert.False(t, ok)
	})
}

func TestNormalizePosition(t *testing.T) {
	got, ok := orgcode.NormalizePosition("經理")
	assert.True(t, ok)
	assert.Equal(t, orgcode.PosManager, got)

	got, ok = orgcode.NormalizePosition("C")
	assert.True(t, ok)
	assert.Equal(t, orgcode.PosStaff, got)

	_, ok = orgcode.NormalizePosition("CEO")
	assert.False(t, ok)
}

func TestAccountPrefix(t *testing.T) {
	prefix, ok := orgcode.AccountPrefix("BD", "M")
	assert.True(t, ok)
	assert.Equal(t, "BDM", prefix)

	prefix, ok = orgcode.AccountPrefix("借貸部", "科員")
	assert.True(t, ok)
	assert.Equal(t, "LDC", prefix)

	_, ok = orgcode.AccountPrefix("XX", "M")
	assert.False(t, ok)
}

func TestRankAtLeast(t *testing.T) {
	assert.True(t, orgcode.RankAtLeast("M", "S"))
	assert.True(t, orgcode.RankAtLeast("S", "S"))
	assert.True(t, orgcode.RankAtLeast("M", "C"))
	assert.False(t, orgcode.RankAtLeast("C", "S"))
	assert.False(t, orgcode.RankAtLeast("S", "M"))
	assert.False(t, orgcode.RankAtLeast("", "C"))
}
