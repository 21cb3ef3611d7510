// Package errors provides the unified failure type of the transfer facade.
//
// Native status codes are translated into *AppError values by package status;
// resource-level failures (empty allocations, use after release) are built
// with the constructors in this package.
package errors
