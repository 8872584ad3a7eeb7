/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package status

import (
	"bytes"
	"encoding"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
)

// Status is the coarse outcome category carried in the 5-bit status field of
// a packed error code.
//
// The 17 canonical values and their ordinals are a wire contract: they are
// written into packed codes that other systems decode, so they MUST NOT be
// renumbered. The ordinals deliberately coincide with the canonical gRPC
// status codes, which makes the gRPC projection a plain conversion.
type Status uint8

// The canonical status values, ordinal 0 through 16.
const (
	OK                 Status = 0
	Cancelled          Status = 1
	Unknown            Status = 2
	InvalidArgument    Status = 3
	DeadlineExceeded   Status = 4
	NotFound           Status = 5
	AlreadyExists      Status = 6
	PermissionDenied   Status = 7
	ResourceExhausted  Status = 8
	FailedPrecondition Status = 9
	Aborted            Status = 10
	OutOfRange         Status = 11
	Unimplemented      Status = 12
	Internal           Status = 13
	Unavailable        Status = 14
	DataLoss           Status = 15
	Unauthenticated    Status = 16
)

// Max is the highest canonical status value. The 5-bit field can hold values
// up to 31; anything above Max is outside the enumeration and degrades to the
// sentinel name and HTTP 500 — no error is ever raised for it.
const Max = Unauthenticated

// UnknownName is the sentinel returned by String for values outside the
// enumeration. It is intentionally not a member name, so logs show "this code
// carried a status we do not know" rather than a misleading category.
const UnknownName = "UNKNOWN_STATUS"

var (
	// ErrStatusName is returned when a string does not name a canonical
	// status value.
	ErrStatusName = errors.New("lasterror: unknown status name")
)

// Ensure Status implements encoding.TextMarshaler / encoding.TextUnmarshaler
// so it can be embedded into larger config or API structs.
var (
	_ encoding.TextMarshaler   = (*Status)(nil)
	_ encoding.TextUnmarshaler = (*Status)(nil)
)

// names holds the canonical wire names, indexed by ordinal.
var names = [Max + 1]string{
	OK:                 "OK",
	Cancelled:          "CANCELLED",
	Unknown:            "UNKNOWN",
	InvalidArgument:    "INVALID_ARGUMENT",
	DeadlineExceeded:   "DEADLINE_EXCEEDED",
	NotFound:           "NOT_FOUND",
	AlreadyExists:      "ALREADY_EXISTS",
	PermissionDenied:   "PERMISSION_DENIED",
	ResourceExhausted:  "RESOURCE_EXHAUSTED",
	FailedPrecondition: "FAILED_PRECONDITION",
	Aborted:            "ABORTED",
	OutOfRange:         "OUT_OF_RANGE",
	Unimplemented:      "UNIMPLEMENTED",
	Internal:           "INTERNAL",
	Unavailable:        "UNAVAILABLE",
	DataLoss:           "DATA_LOSS",
	Unauthenticated:    "UNAUTHENTICATED",
}

// httpByStatus is the fixed HTTP projection, indexed by ordinal.
//
// The table follows the widely used canonical gRPC-to-HTTP mapping. 499 for
// Cancelled is non-standard but established practice ("client closed
// request"); integrators that need a standard code should translate it at
// their own boundary.
var httpByStatus = [Max + 1]int{
	OK:                 http.StatusOK,
	Cancelled:          499,
	Unknown:            http.StatusInternalServerError,
	InvalidArgument:    http.StatusBadRequest,
	DeadlineExceeded:   http.StatusGatewayTimeout,
	NotFound:           http.StatusNotFound,
	AlreadyExists:      http.StatusConflict,
	PermissionDenied:   http.StatusForbidden,
	ResourceExhausted:  http.StatusTooManyRequests,
	FailedPrecondition: http.StatusBadRequest,
	Aborted:            http.StatusConflict,
	OutOfRange:         http.StatusBadRequest,
	Unimplemented:      http.StatusNotImplemented,
	Internal:           http.StatusInternalServerError,
	Unavailable:        http.StatusServiceUnavailable,
	DataLoss:           http.StatusInternalServerError,
	Unauthenticated:    http.StatusUnauthorized,
}

// String returns the canonical wire name of the status.
//
// This is a total function: values outside the enumeration return UnknownName
// instead of raising an error. Codes arrive from other systems and may carry
// status bits we have never heard of; rendering them must never fail.
func (s Status) String() string {
	if s > Max {
		return UnknownName
	}
	return names[s]
}

// HTTP returns the fixed HTTP status for this category.
// Values outside the enumeration degrade to 500.
func (s Status) HTTP() int {
	if s > Max {
		return http.StatusInternalServerError
	}
	return httpByStatus[s]
}

// GRPC returns the canonical gRPC status code for this category.
//
// Because the ordinals coincide with the gRPC enumeration, this is a direct
// conversion for canonical values. Values outside the enumeration degrade to
// codes.Unknown, mirroring the HTTP-500 degradation.
func (s Status) GRPC() codes.Code {
	if s > Max {
		return codes.Unknown
	}
	return codes.Code(s)
}

// FromGRPC converts a canonical gRPC status code into a Status.
// Codes outside the shared enumeration map to Unknown.
func FromGRPC(c codes.Code) Status {
	if c > codes.Code(Max) {
		return Unknown
	}
	return Status(c)
}

// Values returns all canonical status values in ordinal order.
// The slice is freshly allocated on each call, so callers may modify it.
func Values() []Status {
	vs := make([]Status, 0, Max+1)
	for s := OK; s <= Max; s++ {
		vs = append(vs, s)
	}
	return vs
}

// Parse resolves a canonical wire name (case-insensitive, dashes tolerated)
// into a Status value.
func Parse(s string) (Status, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	for i, n := range names {
		if s == n {
			return Status(i), nil
		}
	}
	return Unknown, ErrStatusName
}

// MustParse is the panic-on-error variant of Parse. It is useful for
// declaring package-level constants in var blocks.
func MustParse(s string) Status {
	st, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return st
}

// MarshalText implements encoding.TextMarshaler.
//
// Out-of-enum values marshal as the sentinel name rather than failing, to
// keep the total-mapping policy intact through JSON/YAML encoders.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
