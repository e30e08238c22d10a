package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"kharcha/internal/core"
)

// Now is the store's clock, swappable in tests.
var Now = time.Now

// Seed returns the fixed demo dataset used when no persisted records
// exist: nine records dated in the month of now, so a first run always
// lands on a populated current-month view.
func Seed(now time.Time) []core.Record {
	y, m := now.Year(), int(now.Month())
	day := func(d int) string { return fmt.Sprintf("%04d-%02d-%02d", y, m, d) }

	seed := []core.Record{
		{Date: day(3), Category: core.Food, Amount: core.Money{Cents: 18050}, Note: "Breakfast with friends"},
		{Date: day(5), Category: core.Transport, Amount: core.Money{Cents: 6000}, Note: "Metro card top-up"},
		{Date: day(7), Category: core.Bills, Amount: core.Money{Cents: 89999}, Note: "Mobile recharge + data"},
		{Date: day(8), Category: core.Education, Amount: core.Money{Cents: 129900}, Note: "Course material"},
		{Date: day(10), Category: core.Shopping, Amount: core.Money{Cents: 65000}, Note: "T-shirt"},
		{Date: day(10), Category: core.Food, Amount: core.Money{Cents: 24000}, Note: "Lunch"},
		{Date: day(12), Category: core.Entertainment, Amount: core.Money{Cents: 32000}, Note: "Movie night"},
		{Date: day(14), Category: core.Healthcare, Amount: core.Money{Cents: 15000}, Note: "Medicines"},
		{Date: day(15), Category: core.Other, Amount: core.Money{Cents: 9900}, Note: "Misc purchase"},
	}
	for i := range seed {
		seed[i].ID = uuid.NewString()
	}
	return seed
}
