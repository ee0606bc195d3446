package newemployee_test

import (
	"context"
	"testing"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/newemployee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNewEmployeeRepository_MarkProvisioned(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the account fields deactivated inside the transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`(?s)UPDATE new_employees.*is_activated = false.*WHERE id = \$1 AND has_account = false`).
			WithArgs("ne-1", "202609001", "BDC009", "admin01", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		repo := newemployee.NewRepository(nil).WithTx(tx)
		affected, err := repo.MarkProvisioned(ctx, "ne-1", "202609001", "BDC009", "admin01", time.Now())

		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative second provisioning touches no rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE new_employees`).
			WithArgs("ne-1", "202609001", "BDC009", "admin01", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.Begin()
		assert.NoError(t, err)

		repo := newemployee.NewRepository(nil).WithTx(tx)
		affected, err := repo.MarkProvisioned(ctx, "ne-1", "202609001", "BDC009", "admin01", time.Now())

		assert.NoError(t, err)
		assert.Equal(t, int64(0), affected)
		assert.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
