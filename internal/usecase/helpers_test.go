package usecase_test

import "errors"

var errPersist = errors.New("db down")
