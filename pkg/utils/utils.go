package utils

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"stock-sniper/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers from panics.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether ctx is still live, logging when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		if log != nil {
			log.Warn("Context done, stop processing", logger.ErrorField(ctx.Err()))
		}
		return false
	default:
		return true
	}
}

func ToPointer[T any](v T) *T {
	return &v
}

func ContainsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CleanToValidUTF8 drops invalid byte sequences.
func CleanToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// SafeText collapses whitespace runs and strips NUL bytes that Postgres rejects.
func SafeText(s string) string {
	s = strings.ReplaceAll(CleanToValidUTF8(s), "\x00", "")
	return strings.Join(strings.Fields(s), " ")
}

// RandomDuration returns a duration uniformly drawn from [min, max].
func RandomDuration(rnd *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	span := int64(max - min)
	if rnd == nil {
		return min + time.Duration(rand.Int63n(span+1))
	}
	return min + time.Duration(rnd.Int63n(span+1))
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FormatPrice renders a nullable price for console output.
func FormatPrice(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *p)
}
