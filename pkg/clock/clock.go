// Package clock предоставляет источник текущего времени.
// В тестах подменяется фиксированной реализацией.
package clock

import "time"

// System системные часы
type System struct{}

// Now возвращает текущее время
func (System) Now() time.Time {
	return time.Now()
}
