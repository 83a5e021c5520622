package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/pkg/utils"
)

// timeNow is swapped in tests
var timeNow = func() time.Time { return time.Now().UTC() }

func dbError(err error) error {
	return code.Wrap(code.ErrDatabase, "", err)
}

// notFoundOr maps gorm's not-found to the given domain code and anything else to a database error
func notFoundOr(err error, notFoundCode int) error {
	if notFound(err) {
		return code.New(notFoundCode, "")
	}
	return dbError(err)
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func validationError(err error) error {
	return code.Wrap(code.ErrValidation, err.Error(), err)
}

func decimalFrom(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

func nullDecimalFrom(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}

func parseDate(s string) (time.Time, error) {
	t, err := utils.ParseDate(s)
	if err != nil {
		return t, validationError(err)
	}
	return t, nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	t, err := utils.ParseDatePtr(s)
	if err != nil {
		return nil, validationError(err)
	}
	return t, nil
}

// ownedBy scopes a query to one owner's rows
func ownedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

func paginate(q models.PaginationQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(q.Offset()).Limit(q.Limit)
	}
}
