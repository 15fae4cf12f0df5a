package utils

import "time"

// StartOfDay trunca para a meia-noite no fuso do próprio horário
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// TrailingDays devolve [hoje - days, hoje] em datas locais
func TrailingDays(now time.Time, days int) (time.Time, time.Time) {
	end := StartOfDay(now)
	return end.AddDate(0, 0, -days), end
}
