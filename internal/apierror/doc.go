// Package apierror provides error inspection capabilities for Miro API errors.
// It centralizes the logic for identifying different classes of errors returned
// by the Miro REST API, eliminating the need for ad-hoc status-code and
// string-based error checking throughout the codebase.
package apierror
