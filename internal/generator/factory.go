// Package generator содержит фабрику синтетических участников кампании.
// Фабрика не выполняет I/O и не возвращает ошибок: все поля генерируются
// локально по взвешенным распределениям.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/baysidecampaign/signup-engine/internal/lib/slug"
	"github.com/baysidecampaign/signup-engine/internal/models"
)

// DefaultOutwardCode — внешний код индекса локали кампании. Индексы
// похожи на настоящие, но полная комбинация остаётся синтетической.
const DefaultOutwardCode = "BH19"

const referralChance = 0.3

// Factory генерирует записи участников. Потокобезопасность не требуется:
// один цикл генерации работает последовательно.
type Factory struct {
	outwardCode string
	rnd         *rand.Rand
	now         func() time.Time
}

// Option настраивает Factory.
type Option func(*Factory)

// WithOutwardCode заменяет внешний код индекса.
func WithOutwardCode(code string) Option {
	return func(f *Factory) { f.outwardCode = code }
}

// WithRand подставляет источник случайности, в тестах — с фиксированным зерном.
func WithRand(rnd *rand.Rand) Option {
	return func(f *Factory) { f.rnd = rnd }
}

// WithClock подставляет источник времени.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// New создает фабрику с настройками по умолчанию.
func New(opts ...Option) *Factory {
	f := &Factory{
		outwardCode: DefaultOutwardCode,
		rnd:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Generate возвращает одного синтетического участника. Комментарий
// заполняется вызывающим отдельно: фабрика не ходит во внешние API.
func (f *Factory) Generate() *models.GeneratedUser {
	firstName := pick(f.rnd, firstNames)
	lastName := pick(f.rnd, lastNames)
	now := f.now()

	user := &models.GeneratedUser{
		Name:         firstName + " " + lastName,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        f.email(firstName, lastName),
		Postcode:     f.postcode(),
		HearAbout:    pick(f.rnd, hearAboutOptions),
		WantsUpdates: f.rnd.Float64() < 0.5,
		Timestamp:    now,
		UserID:       fmt.Sprintf("gen_%d_%s", now.UnixMilli(), f.alphanumeric(8)),
		SubmissionID: fmt.Sprintf("sub_%d_%s", now.UnixMilli(), f.alphanumeric(8)),
	}

	if f.rnd.Float64() < referralChance {
		user.ReferralCode = f.ReferralCode(firstName)
	}

	return user
}

// weightedFormat — один из форматов локальной части email с весом.
type weightedFormat struct {
	weight int
	build  func(f *Factory, first, last string) string
}

var emailFormats = []weightedFormat{
	{weight: 25, build: func(_ *Factory, first, last string) string {
		return first + "." + last
	}},
	{weight: 20, build: func(_ *Factory, first, last string) string {
		return first + last
	}},
	{weight: 15, build: func(_ *Factory, first, _ string) string {
		return first
	}},
	{weight: 15, build: func(_ *Factory, first, last string) string {
		return first[:1] + "." + last
	}},
	{weight: 10, build: func(_ *Factory, _, last string) string {
		return last
	}},
	{weight: 15, build: func(f *Factory, first, last string) string {
		return first + "." + last + f.numericSuffix()
	}},
}

func (f *Factory) email(firstName, lastName string) string {
	total := 0
	for _, format := range emailFormats {
		total += format.weight
	}

	local := ""
	roll := f.rnd.IntN(total)
	for _, format := range emailFormats {
		if roll < format.weight {
			local = format.build(f, firstName, lastName)
			break
		}
		roll -= format.weight
	}

	return slug.Make(local) + "@" + pick(f.rnd, emailProviders)
}

// numericSuffix выбирает правдоподобное число для хвоста адреса:
// возраст, год рождения, двухзначный год или короткая случайная строка цифр.
func (f *Factory) numericSuffix() string {
	switch f.rnd.IntN(4) {
	case 0:
		return strconv.Itoa(18 + f.rnd.IntN(58)) // возраст 18-75
	case 1:
		return strconv.Itoa(1950 + f.rnd.IntN(57)) // год рождения 1950-2006
	case 2:
		return fmt.Sprintf("%02d", f.rnd.IntN(100))
	default:
		digits := make([]byte, 2+f.rnd.IntN(3))
		for i := range digits {
			digits[i] = byte('0' + f.rnd.IntN(10))
		}
		return string(digits)
	}
}

// postcode собирает индекс: внешний код, цифра 1-9 и две заглавные буквы.
func (f *Factory) postcode() string {
	letters := []byte{
		byte('A' + f.rnd.IntN(26)),
		byte('A' + f.rnd.IntN(26)),
	}
	return fmt.Sprintf("%s %d%s", f.outwardCode, 1+f.rnd.IntN(9), letters)
}

// ReferralCode строит реферальный код по общему для системы правилу:
// трёхбуквенный префикс из имени, фрагмент таймстемпа в base36 и
// случайный base36-суффикс, всё в верхнем регистре.
func (f *Factory) ReferralCode(firstName string) string {
	prefix := strings.ToUpper(firstName)
	for len(prefix) < 3 {
		prefix += "X"
	}
	prefix = prefix[:3]

	ts := strconv.FormatInt(f.now().UnixMilli(), 36)
	if len(ts) > 4 {
		ts = ts[len(ts)-4:]
	}

	return prefix + strings.ToUpper(ts) + f.base36(4)
}

const alphanumerics = "abcdefghijklmnopqrstuvwxyz0123456789"

func (f *Factory) alphanumeric(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumerics[f.rnd.IntN(len(alphanumerics))]
	}
	return string(b)
}

func (f *Factory) base36(n int) string {
	return strings.ToUpper(f.alphanumeric(n))
}

func pick(rnd *rand.Rand, options []string) string {
	return options[rnd.IntN(len(options))]
}
