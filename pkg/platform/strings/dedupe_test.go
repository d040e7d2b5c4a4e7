package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"order kept", []string{"new account", "low diversity"}, []string{"new account", "low diversity"}},
		{"blanks and repeats dropped", []string{"  farm ", "", "farm", "   ", "bot"}, []string{"farm", "bot"}},
		{"case sensitive", []string{"Farm", "farm"}, []string{"Farm", "farm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.in))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("", ","))
	assert.Nil(t, SplitList(" , ,", ","))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, SplitList("k1:9092, k2:9092,k1:9092,", ","))
}
