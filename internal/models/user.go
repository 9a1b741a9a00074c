// Package models содержит доменные структуры движка генерации подписей:
// сгенерированного участника кампании, настройки генерации и агрегаты
// для статистики. Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// GeneratedUser представляет одного синтетического участника кампании.
// Запись живёт в памяти до передачи в хранилище; после сохранения
// принадлежит ровно одному батчу.
type GeneratedUser struct {
	Name         string    // Полное имя (имя + фамилия)
	FirstName    string    // Имя
	LastName     string    // Фамилия
	Email        string    // Электронная почта, домен из фиксированного списка провайдеров
	Postcode     string    // Почтовый индекс в формате кампании
	HearAbout    string    // Канал привлечения (facebook, poster и т.д.)
	WantsUpdates bool      // Подписка на рассылку
	Comment      string    // Сгенерированный комментарий, может быть пустым
	ReferralCode string    // Реферальный код, может быть пустым
	Timestamp    time.Time // Момент генерации
	UserID       string    // Уникальный идентификатор пользователя в рамках процесса
	SubmissionID string    // Уникальный идентификатор отправки
}

// GenerationStats — агрегат по записям, сгенерированным за текущий день.
// Считается из хранилища по запросу, не кешируется на уровне модели.
type GenerationStats struct {
	TotalGenerated    int     `json:"total_generated"`
	TotalWithComments int     `json:"total_with_comments"`
	CommentPercentage float64 `json:"comment_percentage"`
}

// BatchInfo описывает один батч генерации с количеством записей в нём.
type BatchInfo struct {
	BatchID      string    `json:"batch_id"`
	Timestamp    time.Time `json:"timestamp"`
	UserCount    int       `json:"user_count"`
	CommentCount int       `json:"comment_count"`
}

// CycleResult — структурированный итог одного цикла генерации.
// Всегда возвращается вызывающему, в том числе при ошибке: поля Message
// и Error позволяют различать "выключено", "вне временного окна",
// "нет конфигурации" и ошибку без разбора свободного текста.
type CycleResult struct {
	Success      bool             `json:"success"`
	Generated    int              `json:"generated,omitempty"`
	WithComments int              `json:"with_comments,omitempty"`
	BatchID      string           `json:"batch_id,omitempty"`
	Message      string           `json:"message,omitempty"`
	Error        string           `json:"error,omitempty"`
	TodayStats   *GenerationStats `json:"today_stats,omitempty"`
}
