package domain

import "time"

var zeroTime time.Time

func ptr[T any](v T) *T { return &v }
