package hijri

import (
	"fmt"
)

var monthNames = [12]struct {
	en, ar string
}{
	{"Muharram", "محرم"},
	{"Safar", "صفر"},
	{"Rabi al-Awwal", "ربيع الأول"},
	{"Rabi al-Thani", "ربيع الثاني"},
	{"Jumada al-Ula", "جمادى الأولى"},
	{"Jumada al-Akhirah", "جمادى الآخرة"},
	{"Rajab", "رجب"},
	{"Shaban", "شعبان"},
	{"Ramadan", "رمضان"},
	{"Shawwal", "شوال"},
	{"Dhu al-Qadah", "ذو القعدة"},
	{"Dhu al-Hijjah", "ذو الحجة"},
}

// MonthName returns the English transliteration of a Hijri month, or "" if
// month is outside [1, 12].
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1].en
}

// ArabicMonthName returns the Arabic name of a Hijri month.
func ArabicMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1].ar
}

// MonthLength returns the number of days in a Hijri month. It is the distance
// between the first day of the month and the first day of the next one, so
// it always agrees with the date conversion.
func MonthLength(year, month int) int {
	start := hijriJDN(year, month, 1)
	if month == 12 {
		return hijriJDN(year+1, 1, 1) - start
	}
	return hijriJDN(year, month+1, 1) - start
}

// MonthInfo describes one Hijri month.
type MonthInfo struct {
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Name       string        `json:"name"`
	ArabicName string        `json:"arabic_name"`
	Days       int           `json:"days"`
	Start      GregorianDate `json:"start"`
	End        GregorianDate `json:"end"`
}

// MonthOf returns information about a Hijri month.
func MonthOf(year, month int) (MonthInfo, error) {
	if year < 1 {
		return MonthInfo{}, fmt.Errorf("%w: hijri year %d before 1 AH", ErrInvalidDate, year)
	}
	if month < 1 || month > 12 {
		return MonthInfo{}, fmt.Errorf("%w: hijri month %d not in [1, 12]", ErrInvalidDate, month)
	}

	days := MonthLength(year, month)
	start := hijriJDN(year, month, 1)
	return MonthInfo{
		Year:       year,
		Month:      month,
		Name:       MonthName(month),
		ArabicName: ArabicMonthName(month),
		Days:       days,
		Start:      fromJDN(start),
		End:        fromJDN(start + days - 1),
	}, nil
}

// YearInfo describes one Hijri year.
type YearInfo struct {
	Year   int         `json:"year"`
	Leap   bool        `json:"leap"`
	Days   int         `json:"days"`
	Months []MonthInfo `json:"months"`
}

// YearOf returns information about a Hijri year and each of its months.
func YearOf(year int) (YearInfo, error) {
	if year < 1 {
		return YearInfo{}, fmt.Errorf("%w: hijri year %d before 1 AH", ErrInvalidDate, year)
	}

	info := YearInfo{
		Year:   year,
		Leap:   IsHijriLeapYear(year),
		Days:   hijriJDN(year+1, 1, 1) - hijriJDN(year, 1, 1),
		Months: make([]MonthInfo, 0, 12),
	}
	for m := 1; m <= 12; m++ {
		mi, err := MonthOf(year, m)
		if err != nil {
			return YearInfo{}, err
		}
		info.Months = append(info.Months, mi)
	}
	return info, nil
}
