package payroll

import "time"

// Daily overtime rule. Both values are fixed business rules; per-company
// configuration would start here.
const (
	DailyNormalMinutes = 480
	RestDay            = time.Sunday
)

// MinuteBuckets holds worked minutes split by pay class.
type MinuteBuckets struct {
	Normal     int
	Premium50  int
	Premium100 int
}

func (b MinuteBuckets) Add(o MinuteBuckets) MinuteBuckets {
	return MinuteBuckets{
		Normal:     b.Normal + o.Normal,
		Premium50:  b.Premium50 + o.Premium50,
		Premium100: b.Premium100 + o.Premium100,
	}
}

func (b MinuteBuckets) Total() int {
	return b.Normal + b.Premium50 + b.Premium100
}

// ClassifyDay splits one day's worked minutes. Work on the rest day is paid
// at 100% premium in full; on other days minutes past the daily threshold
// are paid at 50% premium.
func ClassifyDay(minutes int, weekday time.Weekday) MinuteBuckets {
	if minutes <= 0 {
		return MinuteBuckets{}
	}
	if weekday == RestDay {
		return MinuteBuckets{Premium100: minutes}
	}
	if minutes <= DailyNormalMinutes {
		return MinuteBuckets{Normal: minutes}
	}
	return MinuteBuckets{Normal: DailyNormalMinutes, Premium50: minutes - DailyNormalMinutes}
}

// ClassifyOvertime classifies every day and sums the buckets per employee.
func ClassifyOvertime(days []DailyTotal) map[string]MinuteBuckets {
	result := make(map[string]MinuteBuckets)
	for _, d := range days {
		result[d.EmployeeID] = result[d.EmployeeID].Add(ClassifyDay(d.Minutes, d.Weekday))
	}
	return result
}
