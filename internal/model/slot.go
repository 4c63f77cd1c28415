package model

import "time"

// Slot - доступное для записи занятие, вычисляется из строки расписания и не хранится
type Slot struct {
	RowNumber int     `json:"row_number"`
	Tariff    string  `json:"tariff"`
	Week      float64 `json:"week"`
	Date      string  `json:"date"` // для отображения: "10 марта"
	Time      string  `json:"time"` // ЧЧ:ММ
	Mentor    string  `json:"mentor,omitempty"`
	Booked    int     `json:"booked"`
	Capacity  int     `json:"capacity"`
}

// Available возвращает число свободных мест
func (s Slot) Available() int {
	return s.Capacity - s.Booked
}

// UserBooking - запись пользователя для экрана "Мои записи"
type UserBooking struct {
	RowNumber int     `json:"row_number"`
	Tariff    string  `json:"tariff"`
	Week      float64 `json:"week"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	Mentor    string  `json:"mentor,omitempty"`
}

// Identity - данные пользователя из чата
type Identity struct {
	UserID   int64
	FullName string
	Username string
}

// Claim строит запись на место для пользователя
func (i Identity) Claim() Claim {
	return Claim{UserID: i.UserID, FullName: i.FullName, Username: i.Username}
}

// Reminder - напоминание о занятии, которое нужно отправить пользователю
type Reminder struct {
	UserID    int64
	RowNumber int
	Tariff    string
	EventAt   time.Time
	Time      string // ЧЧ:ММ как в таблице
}

// IsTraining сообщает, что напоминание относится к тренингу
func (r Reminder) IsTraining() bool {
	return IsTraining(r.Tariff)
}
