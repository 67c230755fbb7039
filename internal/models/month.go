package models

import "time"

// Month перечисление месяцев, значения совпадают с тем что ходит по API
type Month string

const (
	MonthEnero      Month = "ENERO"
	MonthFebrero    Month = "FEBRERO"
	MonthMarzo      Month = "MARZO"
	MonthAbril      Month = "ABRIL"
	MonthMayo       Month = "MAYO"
	MonthJunio      Month = "JUNIO"
	MonthJulio      Month = "JULIO"
	MonthAgosto     Month = "AGOSTO"
	MonthSeptiembre Month = "SEPTIEMBRE"
	MonthOctubre    Month = "OCTUBRE"
	MonthNoviembre  Month = "NOVIEMBRE"
	MonthDiciembre  Month = "DICIEMBRE"
)

var monthOrder = []Month{
	MonthEnero, MonthFebrero, MonthMarzo, MonthAbril,
	MonthMayo, MonthJunio, MonthJulio, MonthAgosto,
	MonthSeptiembre, MonthOctubre, MonthNoviembre, MonthDiciembre,
}

func (m Month) Valid() bool {
	for _, v := range monthOrder {
		if v == m {
			return true
		}
	}
	return false
}

// Number возвращает номер месяца 1-12, 0 если месяц неизвестен
func (m Month) Number() int {
	for i, v := range monthOrder {
		if v == m {
			return i + 1
		}
	}
	return 0
}

// MonthFromTime маппинг time.Month -> Month
func MonthFromTime(t time.Month) Month {
	return monthOrder[int(t)-1]
}

// PrevPeriod возвращает календарно-предыдущую пару (год, месяц)
// январь 2026 -> декабрь 2025
func PrevPeriod(year int, month Month) (int, Month) {
	n := month.Number()
	if n <= 1 {
		return year - 1, MonthDiciembre
	}
	return year, monthOrder[n-2]
}
