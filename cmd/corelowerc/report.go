package main

import (
	"github.com/sunholo/corelower/internal/errors"
)

func asReport(err error) (*errors.Report, bool) {
	return errors.AsReport(err)
}
