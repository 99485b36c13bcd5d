package spi

import "errors"

// Sentinel kinds for SPI computation errors.
var (
	ErrEmptyRecordSet = errors.New("empty student record set")
	ErrMixedStudents  = errors.New("record set spans multiple students")
)
