package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclension(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "баллов"},
		{1, "балл"},
		{2, "балла"},
		{4, "балла"},
		{5, "баллов"},
		{11, "баллов"},
		{12, "баллов"},
		{14, "баллов"},
		{21, "балл"},
		{22, "балла"},
		{25, "баллов"},
		{100, "баллов"},
		{101, "балл"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Declension(c.n, "баллов", "балл", "балла"), "n=%d", c.n)
	}
}
