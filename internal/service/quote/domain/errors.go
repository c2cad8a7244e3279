package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrRateNotFound 表示持久化价目表中没有对应的费率，不算故障。
var ErrRateNotFound = errors.New("pricing rate not found")

// ClientInputError is returned when a request fails validation before any
// pricing runs. Fields maps each offending field to a reason.
type ClientInputError struct {
	Message string
	Fields  map[string]string
}

func (e *ClientInputError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "invalid request"
	}
	if len(e.Fields) == 0 {
		return msg
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", msg, strings.Join(names, ", "))
}

// Add records a field violation.
func (e *ClientInputError) Add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = reason
	}
}

// OrNil returns e when it holds at least one violation.
func (e *ClientInputError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ZipSide identifies which end of a job a zip belongs to.
type ZipSide string

const (
	SidePickup      ZipSide = "pickup"
	SideDestination ZipSide = "destination"
	SideJob         ZipSide = "job"
)

// UnsupportedZip is a well-formed zip outside the service area.
type UnsupportedZip struct {
	Side ZipSide
	Zip  string
}

func (u UnsupportedZip) String() string {
	return fmt.Sprintf("%s: %s", u.Side, u.Zip)
}

// ServiceAreaError is returned when one or more zips are outside the service area.
type ServiceAreaError struct {
	Unsupported []UnsupportedZip
}

func (e *ServiceAreaError) Error() string {
	return "zip code not in service area: " + strings.Join(e.Zips(), ", ")
}

// Zips renders each unsupported zip as "side: zip".
func (e *ServiceAreaError) Zips() []string {
	out := make([]string, len(e.Unsupported))
	for i, u := range e.Unsupported {
		out[i] = u.String()
	}
	return out
}

// IsClientError reports whether err should be shown to the caller as a 4xx.
func IsClientError(err error) bool {
	var in *ClientInputError
	var area *ServiceAreaError
	return errors.As(err, &in) || errors.As(err, &area)
}
