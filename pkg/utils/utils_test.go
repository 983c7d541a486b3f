package utils

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomDurationStaysInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		d := RandomDuration(rnd, 1500*time.Millisecond, 6*time.Second)
		assert.GreaterOrEqual(t, d, 1500*time.Millisecond)
		assert.LessOrEqual(t, d, 6*time.Second)
	}
	assert.Equal(t, time.Second, RandomDuration(rnd, time.Second, time.Second))
	assert.Equal(t, time.Second, RandomDuration(rnd, time.Second, 0))
}

func TestSleepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMonthsBetween(t *testing.T) {
	loc := GetTaipeiTimeLocation()
	from := time.Date(2024, 11, 20, 0, 0, 0, 0, loc)
	to := time.Date(2025, 2, 3, 0, 0, 0, 0, loc)
	months := MonthsBetween(from, to)
	if assert.Len(t, months, 4) {
		assert.Equal(t, time.November, months[0].Month())
		assert.Equal(t, 1, months[0].Day())
		assert.Equal(t, time.February, months[3].Month())
		assert.Equal(t, 2025, months[3].Year())
	}
	assert.Nil(t, MonthsBetween(to, from))
}

func TestSafeText(t *testing.T) {
	assert.Equal(t, "台積電 營收 創高", SafeText("  台積電\n\t營收\x00 創高  "))
}
