package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator"
)

// ErrInvalidConfig возвращается, когда документ конфигурации существует,
// но нарушает инварианты границ. Цикл генерации при этом прерывается,
// значения не подрезаются молча.
var ErrInvalidConfig = errors.New("invalid generation config")

// GenerationConfig — настройки генерации, прочитанные из внешнего
// хранилища конфигурации. Строится один раз на цикл и не мутируется.
type GenerationConfig struct {
	Enabled           bool    // Включена ли генерация
	StartTime         string  `validate:"required"`    // Начало окна, HH:MM
	EndTime           string  `validate:"required"`    // Конец окна, HH:MM, может быть раньше начала (окно через полночь)
	MinSignups        int     `validate:"gte=0"`       // Нижняя граница записей за цикл
	MaxSignups        int     `validate:"gte=0"`       // Верхняя граница записей за цикл
	CommentPercentage float64 `validate:"gte=0,lte=1"` // Доля записей с комментарием
	AvgDelaySeconds   int     `validate:"gte=0"`       // Средняя задержка между записями в throttled-режиме
	JitterSeconds     int     `validate:"gte=0"`       // Разброс задержки
}

var validate = validator.New()

// Validate проверяет инварианты конфигурации. Любое нарушение
// оборачивается в ErrInvalidConfig, чтобы вызывающий мог отличить
// некорректный документ от сетевой ошибки через errors.Is.
func (c *GenerationConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := time.Parse("15:04", c.StartTime); err != nil {
		return fmt.Errorf("%w: startTime must be in HH:MM format, got %q", ErrInvalidConfig, c.StartTime)
	}
	if _, err := time.Parse("15:04", c.EndTime); err != nil {
		return fmt.Errorf("%w: endTime must be in HH:MM format, got %q", ErrInvalidConfig, c.EndTime)
	}
	if c.MaxSignups < c.MinSignups {
		return fmt.Errorf("%w: maxSignups (%d) is less than minSignups (%d)", ErrInvalidConfig, c.MaxSignups, c.MinSignups)
	}
	return nil
}
