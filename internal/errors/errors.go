// Package errors provides error handling for CaseCut.
//
// It re-exports github.com/cockroachdb/errors so every stage gets stack
// traces, wrapping and user-facing details from a single import, and it
// declares the sentinel errors of the manufacturing pipeline.
//
// Usage:
//
//	if depth >= thickness {
//	    return errors.Wrapf(errors.ErrDepthExceedsThickness, "groove %d on %s", i, name)
//	}
//
//	if errors.Is(err, errors.ErrPartExceedsSheet) {
//	    // report the oversize part
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Pipeline sentinel errors. Wrap these with Wrap/Wrapf to add context while
// keeping them detectable with Is.
var (
	// ErrInvalidDimension indicates non-positive geometry in a design or part
	ErrInvalidDimension = New("invalid dimension")

	// ErrInvalidCount indicates a negative door or shelf count
	ErrInvalidCount = New("invalid count")

	// ErrPartExceedsSheet indicates a single part cannot fit on any stock sheet.
	// The part plus one kerf must fit, so a part exactly the sheet size is
	// rejected whenever the kerf is positive.
	ErrPartExceedsSheet = New("part exceeds sheet")

	// ErrDepthExceedsThickness indicates a hole, groove or pocket would cut
	// through a panel that it must not go through
	ErrDepthExceedsThickness = New("depth exceeds thickness")

	// ErrUnknownToolReference indicates an operation names a tool that is
	// not in the catalog
	ErrUnknownToolReference = New("unknown tool reference")

	// ErrMalformedGeometry indicates a path or feature whose shape cannot be
	// machined, such as a path with fewer than two points
	ErrMalformedGeometry = New("malformed geometry")
)

// IsValidationError reports whether err is one of the input validation
// sentinels (as opposed to a geometry or tooling failure).
func IsValidationError(err error) bool {
	return err != nil && IsAny(err, ErrInvalidDimension, ErrInvalidCount)
}
