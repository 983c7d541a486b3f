package dto

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

var (
	// ErrDataInsufficient means an instrument has fewer non-null closes than the baseline window.
	ErrDataInsufficient = errors.New("insufficient price history")
	// ErrProviderConnection means the quote provider dropped or refused the connection.
	ErrProviderConnection = errors.New("quote provider connection failure")
	// ErrProviderTransient covers malformed, non-200 or timed out provider responses.
	ErrProviderTransient = errors.New("quote provider transient failure")
	// ErrEmptyResponse means the provider answered without a usable payload.
	ErrEmptyResponse = errors.New("empty provider response")
	// ErrQuoteUnparseable means a reported price is not a number.
	ErrQuoteUnparseable = errors.New("unparseable quote price")
	// ErrEnrichmentUnavailable means headlines could not be fetched.
	ErrEnrichmentUnavailable = errors.New("headline source unavailable")
	// ErrEmptyBaseline means a scan was requested before any baseline was built.
	ErrEmptyBaseline = errors.New("baseline store is empty")
	// ErrQuoteSourceUnreachable means every batch of a scan pass failed.
	ErrQuoteSourceUnreachable = errors.New("quote source unreachable")

	ErrScanInProgress    = errors.New("scan already in progress")
	ErrRebuildInProgress = errors.New("baseline rebuild already in progress")
	ErrReportNotFound    = errors.New("report not found")
)

// FailureKind separates failures that warrant a cooldown from those that do not.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureConnection FailureKind = "CONNECTION"
	FailureTransient  FailureKind = "TRANSIENT"
)

var connectionErrnos = []syscall.Errno{
	syscall.ECONNRESET,
	syscall.ECONNABORTED,
	syscall.ECONNREFUSED,
	syscall.EPIPE,
}

var connectionMarkers = []string{
	"connection reset",
	"connection aborted",
	"connection refused",
	"broken pipe",
	"remote disconnected",
	"remotedisconnected",
	"end closed connection",
	"server closed idle connection",
}

// ClassifyProviderError maps a provider error to a failure kind.
// Timeouts are always transient even when the transport reports them as network errors.
func ClassifyProviderError(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTransient
	}
	if errors.Is(err, ErrProviderConnection) {
		return FailureConnection
	}
	if errors.Is(err, ErrProviderTransient) || errors.Is(err, ErrEmptyResponse) {
		return FailureTransient
	}
	for _, errno := range connectionErrnos {
		if errors.Is(err, errno) {
			return FailureConnection
		}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return FailureConnection
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range connectionMarkers {
		if strings.Contains(msg, marker) {
			return FailureConnection
		}
	}
	return FailureTransient
}
