package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "простое имя с точкой", in: "John.Smith", want: "john.smith"},
		{name: "верхний регистр", in: "OLIVER", want: "oliver"},
		{name: "двойное имя через дефис", in: "Anne-Marie Jones", want: "anne-marie.jones"},
		{name: "апостроф отбрасывается", in: "O'Brien", want: "o.brien"},
		{name: "повторные разделители схлопываются", in: "mary..ann", want: "mary.ann"},
		{name: "разделители по краям обрезаются", in: ".smith.", want: "smith"},
		{name: "цифры сохраняются", in: "dave1984", want: "dave1984"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}
