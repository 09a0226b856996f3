package attendance

// FeePerDay is charged for every day a student is marked IN.
const FeePerDay int64 = 600

func Amount(daysIn int64) int64 {
	if daysIn <= 0 {
		return 0
	}
	return daysIn * FeePerDay
}

func totalsFor(daysIn int64) Totals {
	if daysIn < 0 {
		daysIn = 0
	}
	return Totals{Days: daysIn, Amount: Amount(daysIn)}
}
