// Package scheduler реализует вероятностное расписание генерации.
// Один планировщик используется обеими формами оркестратора:
// HTTP-триггером и длительным процессом.
package scheduler

import (
	"math/rand/v2"
	"time"
)

// Значения по умолчанию подобраны под целевой дневной объём кампании.
const (
	DefaultBaseProbability = 0.0035
	DefaultPeakMultiplier  = 8.0
)

// DefaultPeakHours возвращает часы пиковой активности (UTC): утренний
// и вечерний трафик, обед и конец рабочего дня.
func DefaultPeakHours() []int {
	return []int{7, 8, 11, 12, 16, 17, 20, 21}
}

// Scheduler решает, сколько записей произвести на одном тике.
// Решение двухэтапное: сначала единственный равномерный розыгрыш
// "есть ли сигнал на этом тике", затем смещённый выбор 1 или 2 записей.
// Это держит дневной объём около целевого и даёт редкие всплески по две.
type Scheduler struct {
	baseProbability float64
	peakMultiplier  float64
	peakHours       map[int]bool
	rnd             *rand.Rand
}

// New создает Scheduler. Нулевые значения base и multiplier заменяются
// значениями по умолчанию; пустой список пиковых часов — стандартным набором.
func New(baseProbability, peakMultiplier float64, peakHours []int, rnd *rand.Rand) *Scheduler {
	if baseProbability <= 0 {
		baseProbability = DefaultBaseProbability
	}
	if peakMultiplier <= 0 {
		peakMultiplier = DefaultPeakMultiplier
	}
	if len(peakHours) == 0 {
		peakHours = DefaultPeakHours()
	}
	hours := make(map[int]bool, len(peakHours))
	for _, h := range peakHours {
		hours[h] = true
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Scheduler{
		baseProbability: baseProbability,
		peakMultiplier:  peakMultiplier,
		peakHours:       hours,
		rnd:             rnd,
	}
}

// Probability возвращает эффективную вероятность тика для данного часа.
func (s *Scheduler) Probability(hour int) float64 {
	if s.peakHours[hour] {
		return s.baseProbability * s.peakMultiplier
	}
	return s.baseProbability
}

// Decide возвращает 0, 1 или 2 — количество записей для этого тика.
// Час берётся из now в UTC, как и список пиковых часов.
func (s *Scheduler) Decide(now time.Time) int {
	if s.rnd.Float64() > s.Probability(now.UTC().Hour()) {
		return 0
	}
	if s.rnd.Float64() < 0.8 {
		return 1
	}
	return 2
}

// InWindow сообщает, попадает ли момент t в окно [start, end).
// Окно может переходить через полночь: при end < start момент внутри,
// если t >= start или t < end.
func InWindow(t time.Time, startTime, endTime string) bool {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return false
	}

	cur := t.Hour()*60 + t.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	if endMin < startMin {
		return cur >= startMin || cur < endMin
	}
	return cur >= startMin && cur < endMin
}
